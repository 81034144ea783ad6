package main

import (
	"os"

	"github.com/rs/zerolog"

	"rgehrsitz/fuzzy/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}).With().Timestamp().Logger()
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(cli.GetExitCode(err))
	}
}
