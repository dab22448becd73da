// Package config provides YAML-based configuration loading for the snake
// game: board and snake settings, difficulty presets, score storage and
// the remote mirror, logging, sound and the SSH server.
package config

import "time"

// Config is the complete game configuration.
type Config struct {
	Board       BoardConfig       `yaml:"board"`
	Snake       SnakeConfig       `yaml:"snake"`
	Difficulty  DifficultyConfig  `yaml:"difficulty"`
	Pause       PauseConfig       `yaml:"pause"`
	Storage     StorageConfig     `yaml:"storage"`
	Remote      RemoteConfig      `yaml:"remote"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
	Log         LogConfig         `yaml:"log"`
	Player      PlayerConfig      `yaml:"player"`
	Sound       SoundConfig       `yaml:"sound"`
	SSH         SSHConfig         `yaml:"ssh"`
}

// BoardConfig sets the playfield size in cells.
type BoardConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// SnakeConfig sets the starting snake and how fast it grows.
type SnakeConfig struct {
	StartLength   int `yaml:"start_length"`
	GrowthPerFood int `yaml:"growth_per_food"`
}

// DifficultyConfig lists the presets and names the one used by default.
type DifficultyConfig struct {
	Default string   `yaml:"default"`
	Presets []Preset `yaml:"presets"`
}

// Preset is a named reward/speed pair.
type Preset struct {
	Name   string `yaml:"name"`
	Reward int    `yaml:"reward"` // Score per food item
	Speed  int    `yaml:"speed"`  // Moves per second
}

// PauseConfig controls resuming after a pause.
type PauseConfig struct {
	ResumeCountdown int `yaml:"resume_countdown"` // Seconds, 0 to resume immediately
}

// StorageConfig locates the local score database.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// RemoteConfig configures the Firestore mirror.
type RemoteConfig struct {
	Enabled         bool          `yaml:"enabled"`
	ProjectID       string        `yaml:"project_id"`
	DatabaseID      string        `yaml:"database_id"`
	Collection      string        `yaml:"collection"`
	CredentialsFile string        `yaml:"credentials_file"` // Service account key; empty uses application default credentials
	APIKey          string        `yaml:"api_key"`
	Endpoint        string        `yaml:"endpoint"` // host:port override
	Timeout         time.Duration `yaml:"timeout"`
}

// LeaderboardConfig controls leaderboard reads and remote writes.
type LeaderboardConfig struct {
	Limit          int           `yaml:"limit"`
	RemoteTimeout  time.Duration `yaml:"remote_timeout"`
	PersistTimeout time.Duration `yaml:"persist_timeout"`
}

// LogConfig sets the log level and the file used while the TUI owns the
// terminal.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// PlayerConfig names the local player. Empty values fall back to the OS user.
type PlayerConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// SoundConfig toggles audio cues for local play.
type SoundConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"` // 0.0 silent to 1.0 full
}

// SSHConfig configures `snake serve`.
type SSHConfig struct {
	Host        string        `yaml:"host"`
	Port        int           `yaml:"port"`
	HostKeyPath string        `yaml:"host_key_path"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	MaxTimeout  time.Duration `yaml:"max_timeout"`
}
