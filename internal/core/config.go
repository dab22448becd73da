package core

// RuntimeConfig is what the platform knows about the terminal a session runs in.
type RuntimeConfig struct {
	ScreenW int   // Screen width in characters
	ScreenH int   // Screen height in characters
	Seed    int64 // RNG seed, 0 means derive from the clock
}

// DefaultConfig returns a RuntimeConfig for a classic 80x24 terminal.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW: 80,
		ScreenH: 24,
	}
}
