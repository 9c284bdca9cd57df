// Package main is the entry point for the image-sorter CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"image-sorter/cmd/image-sorter/commands"
	"image-sorter/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cli := commands.New()
	if err := cli.Execute(ctx); err != nil {
		logging.Error("%v", err)
		return 1
	}
	return 0
}
