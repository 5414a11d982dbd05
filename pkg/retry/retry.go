package retry

import (
	"time"

	"github.com/labstack/gommon/log"
)

const (
	maxRetries        = 6
	retryMultiplier   = 2
	retryInitialDelay = time.Millisecond * 100
)

// Retry runs the operation with exponential delay between attempts. Returns
// nil on the first success or the last error after maxRetries failures.
func Retry(operation func() error) error {
	return WithAttempts(operation, maxRetries)
}

// WithAttempts is Retry with a caller-chosen retry budget. attempts counts
// retries after the initial try; 0 means a single try.
func WithAttempts(operation func() error, attempts int) error {
	retryCounter := 0
	for {
		err := operation()
		if err == nil {
			return nil
		}
		if retryCounter >= attempts {
			return err
		}
		log.Errorf("error during retry %d: %v", retryCounter, err)
		time.Sleep(retryInitialDelay * time.Duration(retryCounter*retryMultiplier))
		retryCounter++
	}
}
