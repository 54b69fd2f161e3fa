package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notekeep/pkg/core"
)

var (
	addTitle   string
	addContent string
	addColor   string
	addImage   string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a note",
	Long:  `Create a note. A note needs a non-blank title or content.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if core.IsBlank(addTitle, addContent) {
			fatal("Error", fmt.Errorf("--title or --content is required"))
		}

		svc := openService()
		n, err := svc.AddNote(context.Background(), core.Draft{
			Title:           addTitle,
			Content:         addContent,
			BackgroundColor: addColor,
			HeaderImage:     addImage,
		})
		if err != nil {
			fatal("Failed to add note", err)
		}

		fmt.Println(n.ID)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addTitle, "title", "t", "", "Note title")
	addCmd.Flags().StringVarP(&addContent, "content", "c", "", "Note content")
	addCmd.Flags().StringVar(&addColor, "color", core.DefaultBackgroundColor, "Background color")
	addCmd.Flags().StringVar(&addImage, "image", "", "Header image reference")
}
