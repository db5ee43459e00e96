package retrier

import "time"

// Connect runs connector up to retry times, sleeping the given number
// of seconds between failed attempts. It returns the first successful
// connection, otherwise the last error.
//
//	db, err := retrier.Connect(5, 3, func() (*gorm.DB, error) {
//	    return gorm.Open(mysql.Open(dsn), &gorm.Config{})
//	})
func Connect[T any](retry uint8, sleep uint, connector func() (T, error)) (T, error) {
	var (
		out T
		err error
	)

	for attempt := uint8(0); attempt < retry; attempt++ {
		out, err = connector()
		if err == nil {
			return out, nil
		}

		if attempt < retry-1 {
			time.Sleep(time.Duration(sleep) * time.Second)
		}
	}

	return out, err
}
