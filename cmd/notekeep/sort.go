package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notekeep/pkg/core"
)

var sortCmd = &cobra.Command{
	Use:       "sort [name|date|size] [asc|desc]",
	Short:     "Show or change the sort preference",
	Long:      `Without arguments, print the current sort preference. With both arguments, save a new one.`,
	Args:      sortArgs,
	ValidArgs: []string{"name", "date", "size", "asc", "desc"},
	Run: func(cmd *cobra.Command, args []string) {
		svc := openService()

		if len(args) == 0 {
			s := svc.Sorting()
			fmt.Printf("%s %s\n", s.Option, s.Direction)
			return
		}

		if err := svc.SetSorting(context.Background(), core.SortOption(args[0]), core.SortDirection(args[1])); err != nil {
			fatal("Failed to set sorting", err)
		}
		fmt.Printf("Sorting set to %s %s.\n", args[0], args[1])
	},
}

// sortArgs accepts no arguments (show) or an option and a direction (set).
func sortArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 0 && len(args) != 2 {
		return fmt.Errorf("expected no arguments or both option and direction, got %d", len(args))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(sortCmd)
}
