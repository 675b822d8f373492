package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/generation"
)

var notesCmd = &cobra.Command{
	Use:   "notes [youtube-url]",
	Short: "Generate markdown study notes",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		transcript, err := a.transcript(ctx, cmd, args)
		if err != nil {
			return err
		}

		notes, err := generation.NewNotesPipeline(a.runner).Generate(ctx, transcript.Text)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), notes.Markdown)
		fmt.Fprintf(cmd.ErrOrStderr(), "\n✓ Notes generated with %s\n", notes.Model)
		return nil
	},
}
