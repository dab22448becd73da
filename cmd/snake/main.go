// snake is a terminal Snake game with a local and an online leaderboard.
//
// Usage:
//
//	snake play               - Play a game
//	snake menu               - Pick a difficulty, play, view scores
//	snake scores             - Show the leaderboard
//	snake scores sync        - Push offline scores to the online leaderboard
//	snake scores clear       - Delete local scores
//	snake serve              - Start SSH server for remote play
//	snake difficulties       - List difficulty presets
//
// Global flags:
//
//	--config <path>     - Use a specific config file
//	--db <path>         - Set database path (default: ~/.snake/scores.db)
//	--seed <value>      - Set RNG seed for reproducible gameplay
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagSeed     int64
	flagLogLevel string
	flagOffline  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snake",
	Short: "Snake - the classic game in your terminal",
	Long: `Snake is the classic arcade game for the terminal.

Steer the snake to the food, grow longer, and avoid the walls and your
own tail. Scores are kept in a local SQLite database and, when enabled,
mirrored to an online leaderboard.

Available commands:
  play          - Play a game directly
  menu          - Interactive difficulty picker and scoreboard
  scores        - View high scores
  serve         - Start SSH server for remote play
  difficulties  - List difficulty presets

Examples:
  snake play
  snake play --difficulty hard
  snake menu
  snake scores --best
  snake serve --ssh :2222`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (default from config: ~/.snake/scores.db)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&flagOffline, "offline", false, "Do not contact the online leaderboard")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(difficultiesCmd)
}
