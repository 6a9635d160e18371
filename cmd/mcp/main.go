// Package main starts the MCP stdio server process lifecycle.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	platformcmd "github.com/launchfolio/launchfolio/internal/platform/cmd"
	"github.com/launchfolio/launchfolio/internal/services/mcp"
)

func main() {
	// Stdout carries the MCP protocol; logs must stay on stderr.
	log.SetOutput(os.Stderr)
	log.SetPrefix("[MCP] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceMCP, mcp.Run); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
