package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"minishop/internal/config"
	"minishop/internal/database"
	"minishop/internal/fixture"
	"minishop/internal/seed"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger, "seed")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader, err := fixture.FromConfig(ctx, cfg.Seed, cfg.S3, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize fixture loader: %w", err)
	}

	dataset, err := loader.Load(ctx, cfg.Seed.FixturesPath)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	fmt.Println("Seeding database (all existing data will be dropped)...")

	summary, err := seed.New(pool, logger).Run(ctx, dataset)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	fmt.Println("Database seeded successfully!")
	fmt.Printf("Created %d users and %d products\n", summary.Users, summary.Products)
	fmt.Println()
	fmt.Println("Test credentials:")
	for _, cred := range summary.Credentials {
		fmt.Printf("  %s\n", cred)
	}

	return nil
}
