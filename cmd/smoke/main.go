package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"minishop/internal/config"
	"minishop/internal/smoke"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := config.NewLogger(cfg.Logger, "smoke")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := smoke.NewRunner(cfg.Smoke.APIBase, cfg.Auth.APIKey, os.Stdout, logger)
	if _, err := runner.Run(ctx); err != nil {
		if errors.Is(err, smoke.ErrUnreachable) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: smoke test aborted: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
