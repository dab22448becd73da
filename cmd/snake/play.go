package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/platform/tui"
)

var (
	flagDifficulty string
	flagPlayer     string
	flagWidth      int
	flagHeight     int
	flagNoSound    bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: `Start a game of Snake.

Controls:
  Arrows/WASD/HJKL  - Steer
  P/Space           - Pause and resume
  R                 - Restart (after game over)
  B/Esc             - Leave (when paused or after game over)
  Ctrl+S            - Save a screenshot to ~/.snake/screenshots
  Q/Ctrl+C          - Quit

Examples:
  snake play
  snake play --difficulty hard
  snake play --width 20 --height 12 --seed 42
  snake play --player ada --no-sound`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	addGameFlags(playCmd)
	playCmd.Flags().IntVar(&flagWidth, "width", 0, "Board width in cells (default from config)")
	playCmd.Flags().IntVar(&flagHeight, "height", 0, "Board height in cells (default from config)")
}

// addGameFlags registers the flags shared by play and menu.
func addGameFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset (see 'snake difficulties')")
	cmd.Flags().StringVar(&flagPlayer, "player", "", "Player name for the leaderboard")
	cmd.Flags().BoolVar(&flagNoSound, "no-sound", false, "Disable sound cues")
}

func runPlay(_ *cobra.Command, _ []string) error {
	a, err := newApp(logToFile)
	if err != nil {
		return err
	}
	defer a.close()

	if flagWidth > 0 {
		a.cfg.Board.Width = flagWidth
	}
	if flagHeight > 0 {
		a.cfg.Board.Height = flagHeight
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	setup := a.setup(flagDifficulty, flagPlayer, !flagNoSound)
	defer setup.Cues.Close()

	return tui.RunGame(setup)
}
