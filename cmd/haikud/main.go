// Command haikud serves the haiku API.
//
//	haikud serve   [--env-file .env] [--port 3000]
//	haikud migrate [--env-file .env]
//
// Configuration comes from environment variables (see internal/config); an
// optional .env file is loaded first and never overrides variables that are
// already set.
//
// @title          Haiku API
// @version        1.0
// @description    Generates 5-7-5 haikus through an external text-generation provider, tags each with the caller's country and keeps a failure log.
// @BasePath       /api/v1
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
)

// overridden during build with ldflags
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("haikud failed")
	}
}
