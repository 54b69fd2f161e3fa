package main

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/aretw0/notekeep/pkg/core"
)

var copyPrint bool

var copyCmd = &cobra.Command{
	Use:   "copy [id]",
	Short: "Copy a note's title and content to the clipboard",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		text := core.ShareText(lookup(openService(), args[0]))

		if copyPrint || clipboard.Unsupported {
			fmt.Println(text)
			return
		}
		if err := clipboard.WriteAll(text); err != nil {
			fatal("Failed to copy to clipboard", err)
		}
		fmt.Println("Copied to clipboard.")
	},
}

func init() {
	rootCmd.AddCommand(copyCmd)
	copyCmd.Flags().BoolVar(&copyPrint, "print", false, "Print the share text instead of copying it")
}
