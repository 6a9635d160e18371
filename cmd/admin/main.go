// Package main starts the operator admin service process lifecycle.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	platformcmd "github.com/launchfolio/launchfolio/internal/platform/cmd"
	"github.com/launchfolio/launchfolio/internal/services/admin"
)

func main() {
	log.SetPrefix("[ADMIN] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceAdmin, admin.Run); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
