package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/notekeep"
	"github.com/aretw0/notekeep/pkg/core"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow external changes to the storage file",
	Long:  `Reload the notes whenever another process rewrites the storage file, printing each change until interrupted.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		opts := append(serviceOptions(cfg), notekeep.WithWatcherErrorHandler(func(err error) {
			slog.Warn("watcher error", "error", err)
		}))

		store, err := notekeep.Init(cfg.Path, opts...)
		if err != nil {
			fatal("Failed to open storage", err)
		}
		svc, err := notekeep.New(cfg.Path, append(opts, notekeep.WithStore(store))...)
		if err != nil {
			fatal("Failed to open notes", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Watching %d notes. Press Ctrl+C to stop.\n", len(svc.Notes()))
		err = notekeep.Watch(ctx, svc, store, slog.Default(), func(e core.Event) {
			fmt.Printf("%s  %s  notes=%d\n", time.Unix(e.Timestamp, 0).Format("15:04:05"), e.Type, len(svc.Notes()))
		})
		if err != nil {
			fatal("Watch failed", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
