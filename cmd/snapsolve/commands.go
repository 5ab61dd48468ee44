package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"snapsolve/internal/config"
	"snapsolve/internal/events"
	"snapsolve/internal/services"
)

var solveCmd = &cobra.Command{
	Use:   "solve [image...]",
	Short: "Solve the problem shown in one or more screenshots",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, ctx, cancel, err := openEnv()
		if err != nil {
			return err
		}
		defer cancel()
		defer env.Close()

		env.Services.Events.SetTarget(statusPrinter(cmd.ErrOrStderr()))
		record, err := env.Services.Processing.Solve(ctx, args, language)
		if err != nil {
			return describe(err)
		}
		return printMarkdown(cmd.OutOrStdout(), solutionMarkdown(record))
	},
}

var debugCmd = &cobra.Command{
	Use:   "debug [image...]",
	Short: "Debug the last solution using screenshots of its output",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, ctx, cancel, err := openEnv()
		if err != nil {
			return err
		}
		defer cancel()
		defer env.Close()

		env.Services.Events.SetTarget(statusPrinter(cmd.ErrOrStderr()))
		record, err := env.Services.Processing.Debug(ctx, args, language)
		if err != nil {
			return describe(err)
		}
		return printMarkdown(cmd.OutOrStdout(), debugMarkdown(record))
	},
}

var pagesCmd = &cobra.Command{
	Use:   "pages [dir]",
	Short: "List the local reference pages",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, _, cancel, err := openEnv()
		if err != nil {
			return err
		}
		defer cancel()
		defer env.Close()

		res := env.Services.Pages.LoadAll()
		if len(args) == 1 {
			res = env.Services.Pages.SetRoot(args[0])
		}
		if !res.Success {
			return errors.New(res.Error)
		}
		return printMarkdown(cmd.OutOrStdout(), pagesMarkdown(res))
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the stored problem and empty both screenshot queues",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, _, cancel, err := openEnv()
		if err != nil {
			return err
		}
		defer cancel()
		defer env.Close()

		env.Services.Processing.Cancel()
		if err := env.Services.Screenshots.ClearAll(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), styles.ok.Render("reset complete"))
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the configuration with the API key redacted",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, _, cancel, err := openEnv()
		if err != nil {
			return err
		}
		defer cancel()
		defer env.Close()

		data, err := json.MarshalIndent(env.Store.Get().Redacted(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", styles.muted.Render(env.Store.Path()), data)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one configuration value (apiKey, endpoint, model, provider, language, opacity, pagesDir, maxScreenshots, timeout)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, _, cancel, err := openEnv()
		if err != nil {
			return err
		}
		defer cancel()
		defer env.Close()

		cfg, err := applySetting(env.Store.Get(), args[0], args[1])
		if err != nil {
			return err
		}
		if args[0] == "apiKey" && env.Services.Keyring != nil {
			err := env.Services.Keyring.StoreApiKey(cfg.Provider, []byte(cfg.APIKey))
			if err == nil {
				if _, err := env.Store.RefreshSecret(cfg.Provider); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), styles.ok.Render("saved apiKey to keyring"))
				return nil
			}
			env.Log.Warnw("failed to store API key in keyring, saving to config file", "error", err)
		}
		if _, err := env.Store.Update(cfg); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), styles.ok.Render("saved "+args[0]))
		return nil
	},
}

func applySetting(cfg config.Config, key, value string) (config.Config, error) {
	switch key {
	case "apiKey":
		cfg.APIKey = value
	case "endpoint":
		cfg.Endpoint = value
	case "model":
		cfg.Model = value
	case "provider":
		cfg.Provider = value
	case "language":
		cfg.Language = value
	case "pagesDir":
		cfg.PagesDir = value
	case "opacity":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return cfg, fmt.Errorf("opacity must be a number: %w", err)
		}
		cfg.Opacity = config.ClampOpacity(v)
	case "maxScreenshots", "timeout":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("%s must be a positive integer", key)
		}
		if key == "timeout" {
			cfg.RequestTimeoutSeconds = n
		} else {
			cfg.MaxScreenshots = n
		}
	default:
		return cfg, fmt.Errorf("unknown setting %q", key)
	}
	return cfg, nil
}

// describe turns a pipeline failure into a short CLI error.
func describe(err error) error {
	pe := services.AsPipelineError(err)
	switch pe.Kind {
	case services.ErrNotConfigured, services.ErrUnauthorized:
		return fmt.Errorf("%s (run: snapsolve config set apiKey <key>)", pe.Message)
	case services.ErrCanceled:
		return errors.New("interrupted")
	}
	if verbose && pe.Err != nil {
		return pe
	}
	return errors.New(pe.Message)
}

func statusPrinter(w io.Writer) events.Emitter {
	return events.EmitterFunc(func(name string, payload ...interface{}) {
		if name != events.ProcessingStatus || len(payload) == 0 {
			return
		}
		if st, ok := payload[0].(events.StatusEvent); ok {
			line := fmt.Sprintf("%3d%% %s", st.Progress, st.Message)
			fmt.Fprintln(w, styles.muted.Render(strings.TrimSpace(line)))
		}
	})
}

