package utils

import (
	"os"

	"github.com/rs/zerolog"
)

var Logger = newLogger()

func newLogger() zerolog.Logger {
	if os.Getenv("APP_ENV") == "development" || os.Getenv("APP_ENV") == "" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
