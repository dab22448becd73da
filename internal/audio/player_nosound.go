//go:build nosound

package audio

// NewPlayer reports ErrNoSound; callers fall back to Nop.
func NewPlayer(float64) (Cues, error) {
	return nil, ErrNoSound
}
