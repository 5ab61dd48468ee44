// Command snapsolve runs the screenshot pipeline from a terminal, sharing
// configuration and history with the desktop app.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"snapsolve/internal/bootstrap"
)

var (
	appDir   string
	verbose  bool
	noColor  bool
	language string
)

var rootCmd = &cobra.Command{
	Use:   "snapsolve",
	Short: "Solve coding problems from screenshots",
	Long: `snapsolve sends screenshots of a coding problem to a vision model and
prints the parsed solution. It uses the same configuration, API key and
problem history as the desktop app.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&appDir, "app-dir", "", "application data directory (default: platform config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "print plain text instead of rendered markdown")

	solveCmd.Flags().StringVarP(&language, "language", "l", "", "target language (default: configured language)")
	debugCmd.Flags().StringVarP(&language, "language", "l", "", "target language (default: configured language)")

	configCmd.AddCommand(configShowCmd, configSetCmd)
	rootCmd.AddCommand(solveCmd, debugCmd, pagesCmd, configCmd, resetCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openEnv opens the shared environment and a context canceled on SIGINT or
// SIGTERM.
func openEnv() (*bootstrap.Env, context.Context, context.CancelFunc, error) {
	level := "warn"
	if verbose {
		level = "debug"
	}
	env, err := bootstrap.Open(bootstrap.Options{AppDir: appDir, LogLevel: level, Keyring: true})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to start: %w", err)
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return env, ctx, cancel, nil
}
