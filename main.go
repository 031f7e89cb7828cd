package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := NewApp(os.Stdin, os.Stdout)
	err := newRootCmd(app).ExecuteContext(ctx)
	app.shutdown()
	if err != nil {
		renderError(os.Stderr, err)
		os.Exit(1)
	}
}
