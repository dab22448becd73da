package config

import (
	"fmt"
	"strings"
	"time"
)

// Preset looks up a difficulty by name, case-insensitively. An empty name
// selects the configured default.
func (c Config) Preset(name string) (Preset, error) {
	if name == "" {
		name = c.Difficulty.Default
	}
	for _, p := range c.Difficulty.Presets {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("config: unknown difficulty %q (available: %s)", name, strings.Join(c.PresetNames(), ", "))
}

// PresetNames returns the preset names in configuration order.
func (c Config) PresetNames() []string {
	names := make([]string, len(c.Difficulty.Presets))
	for i, p := range c.Difficulty.Presets {
		names[i] = p.Name
	}
	return names
}

// Interval returns the tick period for the preset's speed.
func (p Preset) Interval() time.Duration {
	if p.Speed <= 0 {
		return time.Second
	}
	return time.Second / time.Duration(p.Speed)
}

// ResumeTicks converts the resume countdown to ticks at the preset's speed.
func (c Config) ResumeTicks(p Preset) int {
	return c.Pause.ResumeCountdown * p.Speed
}
