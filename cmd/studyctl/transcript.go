package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var transcriptCmd = &cobra.Command{
	Use:   "transcript [youtube-url]",
	Short: "Print the transcript a video or file resolves to",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		transcript, err := a.transcript(cmd.Context(), cmd, args)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), transcript.Text)
		fmt.Fprintf(cmd.ErrOrStderr(), "\n✓ %d characters via %s\n", len([]rune(transcript.Text)), transcript.Source)
		return nil
	},
}
