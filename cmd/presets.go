package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iburimskiy/neural-visualization/internal/preset"
)

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the available motion presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range preset.Names() {
				p, _ := preset.ByName(name)
				brand.Printf("  %-8s", name)
				fmt.Printf(" %-10s ", "["+p.Pattern.String()+"]")
				subtle.Println(p.Description)
			}
		},
	}
}
