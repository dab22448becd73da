package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables that override secrets so they can stay out of YAML.
const (
	EnvAPIKey      = "SNAKE_FIRESTORE_API_KEY"
	EnvCredentials = "SNAKE_FIRESTORE_CREDENTIALS"
	EnvProjectID   = "SNAKE_FIRESTORE_PROJECT"
)

// Load loads the snake configuration.
// Search order: customPath -> ~/.snake/config.yaml -> ./configs/snake.yaml -> embedded default
// Values missing from the file keep their built-in defaults.
func Load(customPath string) (Config, error) {
	cfg := Default()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(ExpandHome(customPath))
		if err != nil {
			return cfg, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return finish(cfg)
	}

	// Try user config directory, then the local configs directory
	for _, path := range []string{userConfigPath(), filepath.Join("configs", "snake.yaml")} {
		if path == "" {
			continue
		}
		if data, err := os.ReadFile(path); err == nil {
			loaded := Default()
			if err := yaml.Unmarshal(data, &loaded); err == nil {
				return finish(loaded)
			}
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		cfg = Default() // Fallback to hardcoded if embed fails
	}
	return finish(cfg)
}

func finish(cfg Config) (Config, error) {
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvAPIKey); v != "" {
		cfg.Remote.APIKey = v
	}
	if v := os.Getenv(EnvCredentials); v != "" {
		cfg.Remote.CredentialsFile = v
	}
	if v := os.Getenv(EnvProjectID); v != "" {
		cfg.Remote.ProjectID = v
	}
}

// Validate rejects settings that cannot produce a playable game.
func (c Config) Validate() error {
	var errs []error
	if c.Board.Width <= 0 || c.Board.Height <= 0 {
		errs = append(errs, fmt.Errorf("board must be at least 1x1, got %dx%d", c.Board.Width, c.Board.Height))
	}
	if c.Snake.StartLength < 1 {
		errs = append(errs, fmt.Errorf("snake.start_length must be at least 1, got %d", c.Snake.StartLength))
	} else if c.Board.Width > 0 && c.Snake.StartLength > (c.Board.Width+1)/2 {
		errs = append(errs, fmt.Errorf("snake.start_length %d does not fit a board %d wide", c.Snake.StartLength, c.Board.Width))
	}
	if c.Snake.GrowthPerFood < 1 {
		errs = append(errs, fmt.Errorf("snake.growth_per_food must be at least 1, got %d", c.Snake.GrowthPerFood))
	}
	if c.Pause.ResumeCountdown < 0 {
		errs = append(errs, fmt.Errorf("pause.resume_countdown must not be negative, got %d", c.Pause.ResumeCountdown))
	}

	if len(c.Difficulty.Presets) == 0 {
		errs = append(errs, errors.New("difficulty.presets must not be empty"))
	}
	seen := make(map[string]bool)
	for _, p := range c.Difficulty.Presets {
		key := strings.ToLower(p.Name)
		switch {
		case p.Name == "":
			errs = append(errs, errors.New("difficulty preset without a name"))
		case seen[key]:
			errs = append(errs, fmt.Errorf("difficulty preset %q defined twice", p.Name))
		case p.Reward <= 0:
			errs = append(errs, fmt.Errorf("difficulty %q: reward must be positive", p.Name))
		case p.Speed <= 0:
			errs = append(errs, fmt.Errorf("difficulty %q: speed must be positive", p.Name))
		}
		seen[key] = true
	}
	if len(c.Difficulty.Presets) > 0 {
		if _, err := c.Preset(""); err != nil {
			errs = append(errs, fmt.Errorf("difficulty.default: %w", err))
		}
	}

	if c.Remote.Enabled && c.Remote.ProjectID == "" {
		errs = append(errs, errors.New("remote.project_id is required when remote.enabled is true"))
	}
	if c.Sound.Volume < 0 || c.Sound.Volume > 1 {
		errs = append(errs, fmt.Errorf("sound.volume must be within [0, 1], got %g", c.Sound.Volume))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid configuration: %w", err)
	}
	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// userConfigPath returns the path to the user config file, or empty if home is unavailable.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".snake", "config.yaml")
}
