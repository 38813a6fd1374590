package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/basel-ax/archrender/internal/domain"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the style presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, p := range domain.Presets {
			marker := " "
			if p == domain.DefaultPreset {
				marker = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, p)
		}
		return nil
	},
}
