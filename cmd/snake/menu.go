package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a difficulty picker menu",
	Long: `Start Snake in interactive menu mode.

Pick a difficulty with the arrow keys or j/k and press Enter to play.
After a game, press B or Esc to return to the menu. Tab opens the
scoreboard.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Play
  Tab          - High scores
  Q            - Quit

Examples:
  snake menu
  snake menu --player ada
  snake menu --db ./scores.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func init() {
	addGameFlags(menuCmd)
}

func runMenu(_ *cobra.Command, _ []string) error {
	a, err := newApp(logToFile)
	if err != nil {
		return err
	}
	defer a.close()

	setup := a.setup(flagDifficulty, flagPlayer, !flagNoSound)
	defer setup.Cues.Close()

	return tui.RunSession(setup)
}
