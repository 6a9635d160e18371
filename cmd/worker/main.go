// Package main starts the maintenance worker process lifecycle.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	platformcmd "github.com/launchfolio/launchfolio/internal/platform/cmd"
	"github.com/launchfolio/launchfolio/internal/services/worker"
)

func main() {
	log.SetPrefix("[WORKER] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceWorker, worker.Run); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
