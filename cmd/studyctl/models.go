package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Show the model tiers in fallback order",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		out := cmd.OutOrStdout()
		status := "✓"
		if !a.runner.Configured() {
			status = "✗ (no API key)"
		}
		fmt.Fprintf(out, "Provider: %s %s\n", a.backend.Name(), status)
		fmt.Fprintf(out, "Keys:     %d\n", len(a.cfg.Credentials()))
		fmt.Fprintf(out, "Rotation: %s\n\n", a.cfg.RotationPolicy)

		fmt.Fprintf(out, "%-3s  %-28s  %-10s  %s\n", "#", "Model", "Quota", "Max tokens")
		fmt.Fprintln(out, strings.Repeat("─", 56))
		for i, t := range a.runner.Tiers() {
			fmt.Fprintf(out, "%-3d  %-28s  %-10s  %d\n", i+1, t.ID, t.Quota, t.MaxOutputTokens)
		}
		return nil
	},
}
