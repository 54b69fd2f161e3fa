package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/notekeep"
	"github.com/aretw0/notekeep/internal/config"
	"github.com/aretw0/notekeep/pkg/core"
	"github.com/aretw0/notekeep/pkg/editor"
)

var (
	verbose    bool
	filePath   string
	configPath string

	cfg config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "notekeep",
	Short: "A small note store backed by a single JSON file",
	Long: `notekeep keeps short text notes with a color and an optional header image.
All notes and the sort preference live in one JSON document that is rewritten atomically on every change.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}

		cfg, err = config.Load(config.Resolve(configPath, wd))
		if err != nil {
			return err
		}
		if filePath != "" {
			cfg.Path = config.ExpandPath(filePath)
		}

		level, _ := cfg.Level()
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
		return nil
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&filePath, "file", "f", "", "Storage file (overrides config)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: nearest .notekeep.yaml, then ~/.config/notekeep/config.yaml)")
}

// serviceOptions translates the loaded config into factory options.
func serviceOptions(c config.Config) []notekeep.Option {
	tag, _ := c.Language()
	return []notekeep.Option{
		notekeep.WithLogger(slog.Default()),
		notekeep.WithReadOnly(c.ReadOnly),
		notekeep.WithOptimisticWrites(c.OptimisticWrites),
		notekeep.WithLocale(tag),
	}
}

// editorOptions applies the configured auto-save delay to editor sessions.
func editorOptions(c config.Config) []editor.Option {
	return []editor.Option{
		editor.WithDelay(c.DebounceDelay),
		editor.WithLogger(slog.Default()),
		editor.WithErrorHandler(func(err error) {
			slog.Warn("save failed", "error", err)
		}),
	}
}

// openService loads the note store named by the current config.
func openService() *core.Service {
	svc, err := notekeep.New(cfg.Path, serviceOptions(cfg)...)
	if err != nil {
		fatal("Failed to open notes", err)
	}
	return svc
}

// lookup returns the note or exits with a not-found error.
func lookup(svc *core.Service, id string) core.Note {
	n, ok := svc.GetNoteByID(id)
	if !ok {
		fatal("Error", fmt.Errorf("note %q not found", id))
	}
	return n
}
