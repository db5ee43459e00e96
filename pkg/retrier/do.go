package retrier

import "time"

// Do executes fn up to retry times, sleeping the given number of
// seconds between failed attempts. It returns nil as soon as one
// attempt succeeds, otherwise the last error.
//
// Companion of Connect for side effects that produce no value, such as
// refreshing a cache entry after a committed write.
func Do(retry uint8, sleep uint, fn func() error) error {
	var err error

	for attempt := uint8(0); attempt < retry; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}

		if attempt < retry-1 {
			time.Sleep(time.Duration(sleep) * time.Second)
		}
	}

	return err
}
