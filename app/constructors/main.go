package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pullstream/constructors/app/constructors/commands"
	"github.com/pullstream/constructors/sdk/logger"
)

var build = "develop"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log, err := logger.NewFromEnv(commands.EnvPrefix)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuring logger: %v\n", err)
		log = logger.NewDefault()
	}

	app := commands.Root(build, log)
	if err := app.Run(ctx, os.Args); err != nil {
		log.ErrorContext(ctx, "command failed", "error", err)
		os.Exit(1)
	}
}
