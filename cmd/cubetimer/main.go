// Package main is the entry point for the cubetimer CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/config"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "cubetimer",
		Short:   "cubetimer — terminal speed-solving timer",
		Version: version,
		// Bare `cubetimer` opens the timer.
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeTime(cmd.Context(), "")
		},
	}

	root.AddCommand(
		timeCmd(),
		contextsCmd(),
		historyCmd(),
		statusCmd(),
		initCmd(),
	)

	return root
}

// loadConfig loads cubetimer.toml, falling back to the defaults (with
// environment overrides) when there is none.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load("")
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, config.ErrNotFound) {
		return nil, err
	}
	def := config.Defaults()
	if err := def.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// signalContext returns a context that is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// workDir returns the current directory for display and path resolution.
func workDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return dir, nil
}
