package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedMatchesDefault(t *testing.T) {
	var embedded Config
	if err := yaml.Unmarshal(DefaultYAML(), &embedded); err != nil {
		t.Fatalf("embedded yaml does not parse: %v", err)
	}
	def := Default()

	if embedded.Board != def.Board {
		t.Errorf("board: embedded %+v, default %+v", embedded.Board, def.Board)
	}
	if embedded.Snake != def.Snake {
		t.Errorf("snake: embedded %+v, default %+v", embedded.Snake, def.Snake)
	}
	if len(embedded.Difficulty.Presets) != len(def.Difficulty.Presets) {
		t.Fatalf("presets: embedded %d, default %d", len(embedded.Difficulty.Presets), len(def.Difficulty.Presets))
	}
	for i := range def.Difficulty.Presets {
		if embedded.Difficulty.Presets[i] != def.Difficulty.Presets[i] {
			t.Errorf("preset %d: embedded %+v, default %+v", i, embedded.Difficulty.Presets[i], def.Difficulty.Presets[i])
		}
	}
	if embedded.Remote.Timeout != def.Remote.Timeout {
		t.Errorf("remote.timeout: embedded %v, default %v", embedded.Remote.Timeout, def.Remote.Timeout)
	}
	if embedded.Leaderboard != def.Leaderboard {
		t.Errorf("leaderboard: embedded %+v, default %+v", embedded.Leaderboard, def.Leaderboard)
	}
	if embedded.SSH != def.SSH {
		t.Errorf("ssh: embedded %+v, default %+v", embedded.SSH, def.SSH)
	}
	if err := def.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestLoadCustomPathOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snake.yaml")
	data := `
board:
  width: 12
  height: 8
difficulty:
  default: hard
leaderboard:
  remote_timeout: 750ms
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Board.Width != 12 || cfg.Board.Height != 8 {
		t.Errorf("board = %dx%d, want 12x8", cfg.Board.Width, cfg.Board.Height)
	}
	if cfg.Leaderboard.RemoteTimeout != 750*time.Millisecond {
		t.Errorf("remote_timeout = %v", cfg.Leaderboard.RemoteTimeout)
	}
	// Untouched sections keep their defaults.
	if cfg.Snake.StartLength != 3 {
		t.Errorf("start_length = %d, want 3", cfg.Snake.StartLength)
	}
	p, err := cfg.Preset("")
	if err != nil {
		t.Fatalf("Preset: %v", err)
	}
	if p.Name != "hard" || p.Speed != 12 {
		t.Errorf("default preset = %+v", p)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("board: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected parse error")
	}

	invalid := filepath.Join(t.TempDir(), "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("board:\n  width: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(invalid)
	if err == nil || !strings.Contains(err.Error(), "board") {
		t.Errorf("expected board validation error, got %v", err)
	}
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	wd, _ := os.Getwd()
	t.Cleanup(func() { os.Chdir(wd) })
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Board.Width != 30 || cfg.Board.Height != 20 {
		t.Errorf("board = %dx%d, want 30x20", cfg.Board.Width, cfg.Board.Height)
	}
}

func TestLoadUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".snake")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("player:\n  name: Ada\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Player.Name != "Ada" {
		t.Errorf("player.name = %q, want Ada", cfg.Player.Name)
	}
}

func TestEnvOverridesSecrets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snake.yaml")
	if err := os.WriteFile(path, []byte("remote:\n  enabled: true\n  api_key: from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvAPIKey, "from-env")
	t.Setenv(EnvProjectID, "demo-project")
	t.Setenv(EnvCredentials, "/etc/snake/key.json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Remote.APIKey != "from-env" {
		t.Errorf("api_key = %q", cfg.Remote.APIKey)
	}
	if cfg.Remote.ProjectID != "demo-project" {
		t.Errorf("project_id = %q", cfg.Remote.ProjectID)
	}
	if cfg.Remote.CredentialsFile != "/etc/snake/key.json" {
		t.Errorf("credentials_file = %q", cfg.Remote.CredentialsFile)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"start length too long", func(c *Config) { c.Snake.StartLength = 16 }, "start_length"},
		{"zero growth", func(c *Config) { c.Snake.GrowthPerFood = 0 }, "growth_per_food"},
		{"negative countdown", func(c *Config) { c.Pause.ResumeCountdown = -1 }, "resume_countdown"},
		{"no presets", func(c *Config) { c.Difficulty.Presets = nil }, "presets"},
		{"duplicate preset", func(c *Config) {
			c.Difficulty.Presets = append(c.Difficulty.Presets, Preset{Name: "Easy", Reward: 1, Speed: 1})
		}, "twice"},
		{"zero speed", func(c *Config) { c.Difficulty.Presets[0].Speed = 0 }, "speed"},
		{"unknown default", func(c *Config) { c.Difficulty.Default = "nightmare" }, "nightmare"},
		{"remote without project", func(c *Config) { c.Remote.Enabled = true }, "project_id"},
		{"loud", func(c *Config) { c.Sound.Volume = 2 }, "volume"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestPresetLookup(t *testing.T) {
	cfg := Default()

	p, err := cfg.Preset("EASY")
	if err != nil {
		t.Fatalf("Preset: %v", err)
	}
	if p.Reward != 10 || p.Speed != 5 {
		t.Errorf("easy = %+v", p)
	}
	if got := p.Interval(); got != 200*time.Millisecond {
		t.Errorf("Interval = %v, want 200ms", got)
	}
	if got := cfg.ResumeTicks(p); got != 15 {
		t.Errorf("ResumeTicks = %d, want 15", got)
	}

	if _, err := cfg.Preset("nope"); err == nil {
		t.Error("expected unknown difficulty error")
	}
	if got := strings.Join(cfg.PresetNames(), ","); got != "easy,medium,hard" {
		t.Errorf("PresetNames = %s", got)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if got := ExpandHome("~/.snake/scores.db"); got != filepath.Join(home, ".snake", "scores.db") {
		t.Errorf("ExpandHome = %q", got)
	}
	if got := ExpandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandHome changed absolute path: %q", got)
	}
}
