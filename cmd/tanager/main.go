package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/vinayprograms/tanager/internal/logging"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		log := logging.New(os.Stderr, false)
		log.Error().Err(err).Msg("tanager failed")
		os.Exit(1)
	}
}
