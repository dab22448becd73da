package tui

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/audio"
	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/scores"
	"github.com/vovakirdan/tui-snake/internal/snake"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// StatsSource reports per-player aggregates for the scoreboard.
type StatsSource interface {
	PlayerStats(ctx context.Context, playerID string) (*storage.PlayerStats, error)
	PlayerRank(ctx context.Context, playerID, difficulty string) (int, error)
}

// Player identifies who a session is played by.
type Player struct {
	ID   string
	Name string
}

// Setup carries everything a game session needs.
type Setup struct {
	// Context bounds every engine run of the session. An SSH session sets
	// it to the connection context so a dropped client ends the game.
	Context context.Context

	Config     config.Config
	Difficulty string // Preset name, empty for the configured default
	Player     Player
	Runtime    core.RuntimeConfig

	Store  scores.Store // Nil plays without saving
	Stats  StatsSource  // Optional
	Cues   audio.Cues
	Logger *log.Logger
}

func (s Setup) context() context.Context {
	if s.Context == nil {
		return context.Background()
	}
	return s.Context
}

// logger never falls back to stderr: the program owns the terminal.
func (s Setup) logger() *log.Logger {
	if s.Logger == nil {
		return log.New(io.Discard)
	}
	return s.Logger
}

func (s Setup) cues() audio.Cues {
	if s.Cues == nil {
		return audio.Nop{}
	}
	return s.Cues
}

// EngineOptions builds engine options for the given round of the session.
// A fixed seed is offset by the round so restarts differ but stay
// reproducible.
func (s Setup) EngineOptions(round int) (snake.Options, time.Duration, error) {
	preset, err := s.Config.Preset(s.Difficulty)
	if err != nil {
		return snake.Options{}, 0, err
	}

	seed := s.Runtime.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	} else {
		seed += int64(round)
	}

	opts := snake.Options{
		Width:          s.Config.Board.Width,
		Height:         s.Config.Board.Height,
		StartLength:    s.Config.Snake.StartLength,
		GrowthPerFood:  s.Config.Snake.GrowthPerFood,
		Reward:         preset.Reward,
		Speed:          preset.Speed,
		ResumeTicks:    s.Config.ResumeTicks(preset),
		Seed:           seed,
		PlayerID:       s.Player.ID,
		PlayerName:     s.Player.Name,
		Difficulty:     preset.Name,
		Store:          s.Store,
		PersistTimeout: s.Config.Leaderboard.PersistTimeout,
		Logger:         s.logger().With("component", "engine"),
	}
	return opts, preset.Interval(), nil
}
