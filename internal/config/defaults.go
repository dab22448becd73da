package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/snake.yaml
var defaultYAML []byte

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}

// Default returns the built-in configuration, used when no YAML is found.
func Default() Config {
	return Config{
		Board: BoardConfig{Width: 30, Height: 20},
		Snake: SnakeConfig{StartLength: 3, GrowthPerFood: 1},
		Difficulty: DifficultyConfig{
			Default: "medium",
			Presets: []Preset{
				{Name: "easy", Reward: 10, Speed: 5},
				{Name: "medium", Reward: 15, Speed: 8},
				{Name: "hard", Reward: 20, Speed: 12},
			},
		},
		Pause:   PauseConfig{ResumeCountdown: 3},
		Storage: StorageConfig{Path: "~/.snake/scores.db"},
		Remote: RemoteConfig{
			DatabaseID: "(default)",
			Collection: "scores",
			Timeout:    10 * time.Second,
		},
		Leaderboard: LeaderboardConfig{
			Limit:          10,
			RemoteTimeout:  3 * time.Second,
			PersistTimeout: 5 * time.Second,
		},
		Log:   LogConfig{Level: "info", File: "~/.snake/snake.log"},
		Sound: SoundConfig{Enabled: true, Volume: 0.3},
		SSH: SSHConfig{
			Host:        "0.0.0.0",
			Port:        23234,
			HostKeyPath: "~/.snake/ssh_host_ed25519",
			IdleTimeout: 10 * time.Minute,
			MaxTimeout:  2 * time.Hour,
		},
	}
}
