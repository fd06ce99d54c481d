// Package main provides browserctl, a command line front end for the
// browser session manager. It opens a browser for one execution context,
// navigates to a URL or named environment, reports the page and quits.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

const version = "0.1.0"

func main() {
	// Cancel on SIGINT/SIGTERM so the session is still quit on the way out
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCommand(os.LookupEnv).cmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
