// Package closer shuts down a group of resources in order.
package closer

import "errors"

type (
	Closer interface {
		Close() error
	}

	CloserGroup struct {
		closers []Closer
	}
)

func NewCloserGroup(closers ...Closer) *CloserGroup {
	return &CloserGroup{
		closers: closers,
	}
}

// Close closes every member of the group, in registration order. All
// closers run even when earlier ones fail; the errors are joined.
func (c *CloserGroup) Close() error {
	var errs []error

	for _, closer := range c.closers {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
