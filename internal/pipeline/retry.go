package pipeline

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Retry runs fn up to attempts times with a fixed backoff between failures,
// returning the last error when every attempt fails. Navigation and network
// calls all go through here instead of growing their own loops.
func Retry(attempts int, backoff time.Duration, log *logrus.Entry, what string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt < attempts {
			log.WithError(err).Warnf("Retry %d/%d %s", attempt, attempts, what)
			time.Sleep(backoff)
		}
	}
	log.WithError(err).Errorf("Giving up on %s after %d attempts", what, attempts)
	return err
}
