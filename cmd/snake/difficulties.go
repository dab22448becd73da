package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/config"
)

var difficultiesCmd = &cobra.Command{
	Use:   "difficulties",
	Short: "List difficulty presets",
	Long:  `Shows the difficulty presets from the active configuration.`,
	Args:  cobra.NoArgs,
	RunE:  runDifficulties,
}

func runDifficulties(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	fmt.Println("Difficulty presets:")
	fmt.Println()

	// Calculate column widths
	maxNameLen := 4 // "Name" header
	for _, p := range cfg.Difficulty.Presets {
		if len(p.Name) > maxNameLen {
			maxNameLen = len(p.Name)
		}
	}

	fmt.Printf("  %-*s  %-10s  %s\n", maxNameLen, "Name", "Points", "Speed")
	fmt.Printf("  %-*s  %-10s  %s\n", maxNameLen, "----", "------", "-----")
	for _, p := range cfg.Difficulty.Presets {
		marker := ""
		if p.Name == cfg.Difficulty.Default {
			marker = "  (default)"
		}
		fmt.Printf("  %-*s  %-10s  %d moves/s%s\n", maxNameLen, p.Name, fmt.Sprintf("%d/food", p.Reward), p.Speed, marker)
	}

	fmt.Println()
	fmt.Println("Run 'snake play --difficulty <name>' to play one.")
	return nil
}
