package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aretw0/notekeep"
	"github.com/aretw0/notekeep/pkg/core"
	"github.com/aretw0/notekeep/pkg/editor"
)

var editCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Change fields of a note",
	Long: `Change the fields given as flags through an editor session, saved when the command exits.
Omitted flags leave the field as is; --image "" clears the header image.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		patch := patchFromFlags(cmd.Flags())
		if patch.IsEmpty() {
			fatal("Error", fmt.Errorf("nothing to change"))
		}

		ctx := context.Background()
		svc := openService()
		lookup(svc, args[0])

		sess, err := notekeep.OpenEditor(ctx, svc, args[0], editorOptions(cfg)...)
		if err != nil {
			fatal("Failed to open note", err)
		}
		applyPatch(sess, patch)
		if err := sess.Close(ctx); err != nil {
			fatal("Failed to update note", err)
		}
		if sess.Dirty() {
			fmt.Printf("Note '%s' unchanged: title and content cannot both be blank.\n", args[0])
			return
		}

		fmt.Printf("Note '%s' updated.\n", args[0])
	},
}

// patchFromFlags sets only the fields whose flags were given.
func patchFromFlags(flags *pflag.FlagSet) core.Patch {
	var p core.Patch
	get := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}
	p.Title = get("title")
	p.Content = get("content")
	p.BackgroundColor = get("color")
	p.HeaderImage = get("image")
	return p
}

// applyPatch feeds the patch to the session as individual edits.
func applyPatch(sess *editor.Session, p core.Patch) {
	if p.Title != nil {
		sess.SetTitle(*p.Title)
	}
	if p.Content != nil {
		sess.SetContent(*p.Content)
	}
	if p.BackgroundColor != nil {
		sess.SetBackgroundColor(*p.BackgroundColor)
	}
	if p.HeaderImage != nil {
		sess.SetHeaderImage(*p.HeaderImage)
	}
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringP("title", "t", "", "New title")
	editCmd.Flags().StringP("content", "c", "", "New content")
	editCmd.Flags().String("color", "", "New background color")
	editCmd.Flags().String("image", "", "New header image reference")
}
