package logger

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Init(environment string) zerolog.Logger {
	if environment == "production" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	return log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}
