// Package main is the entrypoint of ytgrab.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ytgrab/internal/cfg"

	"github.com/joho/godotenv"
)

// main is the main entrypoint of the program.
func main() {
	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "ytgrab: could not load .env: %v\n", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
	defer cancel()

	err := cfg.Execute(ctx, cfg.Handlers{
		Serve:   serve,
		History: listHistory,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ytgrab exiting with error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}
