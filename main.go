// ./main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/triagekit/triage-cli/cmd"
)

// main is the entry point for the triage CLI.
func main() {
	// A SIGINT or SIGTERM cancels the context so an in-flight conversion can
	// stop between files instead of being killed mid-write.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	code := cmd.Execute(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
