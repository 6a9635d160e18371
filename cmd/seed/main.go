// Package main seeds the local development stores with demo data.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	platformcmd "github.com/launchfolio/launchfolio/internal/platform/cmd"
	"github.com/launchfolio/launchfolio/internal/seed/generator"
)

func main() {
	cfg := generator.DefaultConfig()
	flag.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory holding the sqlite stores")
	flag.Int64Var(&cfg.Seed, "seed", 0, "random seed for reproducibility (0 = random)")
	flag.IntVar(&cfg.Creators, "creators", cfg.Creators, "number of proposal creator accounts")
	flag.IntVar(&cfg.Investors, "investors", cfg.Investors, "number of investor accounts")
	flag.IntVar(&cfg.Proposals, "proposals", cfg.Proposals, "number of proposals to generate")
	flag.BoolVar(&cfg.Verbose, "v", false, "verbose output")
	flag.Parse()

	log.SetPrefix("[SEED] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceSeed, func(ctx context.Context) error {
		gen, err := generator.New(cfg)
		if err != nil {
			return err
		}
		defer gen.Close()
		return gen.Run(ctx)
	})
	if err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}
