package pipeline

import (
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

func testLog() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log.WithField("component", "test")
}

func TestRetrySucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Retry(3, 0, testLog(), "noop", func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Retry returned error: %v", err)
	}
	if calls != 1 {
		t.Errorf("fn called %d times; want 1", calls)
	}
}

func TestRetryRecoversAfterFailures(t *testing.T) {
	calls := 0
	err := Retry(3, 0, testLog(), "flaky", func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry returned error: %v", err)
	}
	if calls != 3 {
		t.Errorf("fn called %d times; want 3", calls)
	}
}

func TestRetryGivesUp(t *testing.T) {
	permanent := errors.New("permanent")
	calls := 0
	err := Retry(3, 0, testLog(), "doomed", func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Errorf("Retry returned %v; want the last error", err)
	}
	if calls != 3 {
		t.Errorf("fn called %d times; want exactly 3", calls)
	}
}
