package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/petrijr/canvas/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	// After the first interrupt, a second one kills the process.
	context.AfterFunc(ctx, stop)

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
