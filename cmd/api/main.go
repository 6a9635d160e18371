// Package main starts the public API service process lifecycle.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	platformcmd "github.com/launchfolio/launchfolio/internal/platform/cmd"
	"github.com/launchfolio/launchfolio/internal/services/api"
)

func main() {
	log.SetPrefix("[API] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceAPI, api.Run); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
