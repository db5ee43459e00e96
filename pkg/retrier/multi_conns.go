package retrier

// RetrierOpts configures the per-connection retry behavior of
// MultiConnects. A nil value means a single attempt per connection.
type RetrierOpts struct {
	Count    uint // attempts per connection
	Interval uint // seconds between attempts
}

// MultiConnects establishes count connections through connFunc, failing
// fast on the first connection that cannot be established. Useful when
// a broker needs separate connections for publishing and consuming.
func MultiConnects[T any](count uint8, connFunc func() (T, error), retrierOpts *RetrierOpts) ([]T, error) {
	conns := make([]T, count)

	var err error

	for i := range conns {
		if retrierOpts != nil {
			conns[i], err = Connect(uint8(retrierOpts.Count), retrierOpts.Interval, connFunc)
		} else {
			conns[i], err = connFunc()
		}
		if err != nil {
			return nil, err
		}
	}

	return conns, nil
}
