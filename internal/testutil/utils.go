package testutil

import (
	"io"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestLogger(t *testing.T) *log.Logger {
	logger := log.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(log.DebugLevel)
	t.Cleanup(func() {
		logger.SetOutput(io.Discard)
	})
	return logger
}

// TestLoggerWithHook returns a discarding logger whose entries are captured by
// the returned hook.
func TestLoggerWithHook(t *testing.T) (*log.Logger, *test.Hook) {
	logger := TestLogger(t)
	hook := test.NewLocal(logger)
	t.Cleanup(hook.Reset)
	return logger, hook
}
