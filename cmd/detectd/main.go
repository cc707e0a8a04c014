// Package main is the detectd command itself.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.viam.com/detectd/cli"
	"go.viam.com/detectd/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.NewApp(os.Stdout, os.Stderr)
	if err := app.RunContext(ctx, os.Args); err != nil {
		logging.Global().Error(err)
		stop()
		os.Exit(1)
	}
}
