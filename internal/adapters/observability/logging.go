package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const service = "groupstay-crm"

// NewLogger returns the process logger for APP_ENV.
//   - dev, development, local: console writer at debug
//   - test: discards everything
//   - anything else: JSON at info, tagged with the service name
func NewLogger(env string) zerolog.Logger {
	return newLogger(env, os.Stdout)
}

func newLogger(env string, out io.Writer) zerolog.Logger {
	switch env {
	case "dev", "development", "local":
		return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Logger()
	case "test":
		return zerolog.Nop()
	}
	return zerolog.New(out).Level(zerolog.InfoLevel).With().Timestamp().Str("service", service).Logger()
}
