package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New builds the process-wide logger. Development gets the human-readable
// console writer; every other environment emits JSON lines for shipping.
func New(env string) zerolog.Logger {
	log := zerolog.New(os.Stderr).
		With().
		Timestamp().
		Str("service", "roadguard").
		Logger()
	if env == "development" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return log
}
