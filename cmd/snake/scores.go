package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/scores"
)

var (
	flagScoresDifficulty string
	flagScoresLimit      int
	flagScoresPlayer     string
	flagScoresBest       bool
	flagClearYes         bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores",
	Long: `Display the leaderboard.

Scores come from the local database merged with the online leaderboard
when it is enabled and reachable.

Examples:
  snake scores
  snake scores --difficulty hard --limit 20
  snake scores --best
  snake scores --player ada`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

var scoresSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push locally saved scores to the online leaderboard",
	Long: `Upload scores that were saved while the online leaderboard was
disabled or unreachable.`,
	Args: cobra.NoArgs,
	RunE: runScoresSync,
}

var scoresClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete local scores",
	Long: `Delete scores from the local database, for one player or everyone.
The online leaderboard is not touched.

Examples:
  snake scores clear --player local:ada --yes
  snake scores clear --yes`,
	Args: cobra.NoArgs,
	RunE: runScoresClear,
}

func init() {
	scoresCmd.Flags().StringVar(&flagScoresDifficulty, "difficulty", "", "Only show one difficulty")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 0, "Number of scores to show (default from config)")
	scoresCmd.Flags().StringVar(&flagScoresPlayer, "player", "", "Show one player's stats and recent games (player id)")
	scoresCmd.Flags().BoolVar(&flagScoresBest, "best", false, "One row per player")

	scoresClearCmd.Flags().StringVar(&flagScoresPlayer, "player", "", "Only delete this player's scores (player id)")
	scoresClearCmd.Flags().BoolVar(&flagClearYes, "yes", false, "Confirm deletion")

	scoresCmd.AddCommand(scoresSyncCmd)
	scoresCmd.AddCommand(scoresClearCmd)
}

func runScores(cmd *cobra.Command, _ []string) error {
	a, err := newApp(logToStderr)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	if flagScoresPlayer != "" {
		return printPlayer(ctx, a, flagScoresPlayer)
	}

	limit := flagScoresLimit
	if limit <= 0 {
		limit = a.cfg.Leaderboard.Limit
	}
	q := scores.Query{Limit: limit, Difficulty: flagScoresDifficulty}

	var recs []scores.Record
	if flagScoresBest {
		// Fetch a wider slice so players below the cut still get their best row.
		wide := q
		wide.Limit = limit * 10
		all, err := a.board.TopScores(ctx, wide)
		if err != nil {
			return fmt.Errorf("cannot retrieve scores: %w", err)
		}
		recs = scores.BestPerPlayer(all, limit)
	} else {
		recs, err = a.board.TopScores(ctx, q)
		if err != nil {
			return fmt.Errorf("cannot retrieve scores: %w", err)
		}
	}

	title := "all difficulties"
	if q.Difficulty != "" {
		title = q.Difficulty
	}
	source := "local"
	if a.board.Online() {
		source = "local + online"
	}
	fmt.Printf("High Scores - %s (%s)\n", title, source)
	fmt.Println()

	if len(recs) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'snake play' to set the first high score!")
		return nil
	}

	fmt.Printf("  %-4s  %-16s  %-6s  %-6s  %-10s  %s\n", "Rank", "Player", "Score", "Length", "Difficulty", "Date")
	fmt.Printf("  %-4s  %-16s  %-6s  %-6s  %-10s  %s\n", "----", "------", "-----", "------", "----------", "----")
	for i, r := range recs {
		fmt.Printf("  %-4d  %-16s  %-6d  %-6d  %-10s  %s\n",
			i+1, truncate(r.DisplayName(), 16), r.Score, r.Length, r.Difficulty,
			r.PlayedAt.Local().Format("2006-01-02 15:04"))
	}

	sum, err := a.local.Summary(ctx, q.Difficulty)
	if err == nil && sum.Games > 0 {
		fmt.Println()
		fmt.Printf("Local: %d games by %d players, best %d, average %.1f\n",
			sum.Games, sum.Players, sum.HighScore, sum.AvgScore)
	}
	return nil
}

func printPlayer(ctx context.Context, a *app, playerID string) error {
	stats, err := a.local.PlayerStats(ctx, playerID)
	if err != nil {
		return err
	}
	if stats.GamesPlayed == 0 {
		fmt.Printf("No games recorded for %q.\n", playerID)
		return nil
	}

	rank, err := a.local.PlayerRank(ctx, playerID, flagScoresDifficulty)
	if err != nil {
		return err
	}

	fmt.Printf("Player %s (%s)\n", stats.PlayerName, stats.PlayerID)
	fmt.Println()
	fmt.Printf("  Games played:  %d\n", stats.GamesPlayed)
	fmt.Printf("  Best score:    %d\n", stats.BestScore)
	fmt.Printf("  Total score:   %d\n", stats.TotalScore)
	fmt.Printf("  Last played:   %s\n", stats.LastPlayed.Local().Format("2006-01-02 15:04"))
	if rank > 0 {
		fmt.Printf("  Rank:          #%d\n", rank)
	}

	limit := flagScoresLimit
	if limit <= 0 {
		limit = a.cfg.Leaderboard.Limit
	}
	history, err := a.local.PlayerHistory(ctx, playerID, limit)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println("Recent games:")
	for _, r := range history {
		fmt.Printf("  %s  %-6d  %-10s  %s\n",
			r.PlayedAt.Local().Format("2006-01-02 15:04"), r.Score, r.Difficulty, r.Outcome)
	}
	return nil
}

func runScoresSync(cmd *cobra.Command, _ []string) error {
	a, err := newApp(logToStderr)
	if err != nil {
		return err
	}
	defer a.close()

	if !a.board.Online() {
		return errors.New("online leaderboard is not enabled (set remote.enabled and remote.project_id)")
	}

	n, err := a.board.Sync(cmd.Context())
	fmt.Printf("Synced %d score(s)\n", n)
	return err
}

func runScoresClear(cmd *cobra.Command, _ []string) error {
	if !flagClearYes {
		return errors.New("refusing to delete scores without --yes")
	}

	a, err := newApp(logToStderr)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.local.ClearScores(cmd.Context(), flagScoresPlayer); err != nil {
		return err
	}
	if flagScoresPlayer == "" {
		fmt.Println("Deleted all local scores")
	} else {
		fmt.Printf("Deleted local scores of %s\n", flagScoresPlayer)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "."
}
