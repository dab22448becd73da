//go:build nosound

package audio

import (
	"errors"
	"testing"
)

func TestNewPlayerWithoutSound(t *testing.T) {
	p, err := NewPlayer(0.5)
	if !errors.Is(err, ErrNoSound) || p != nil {
		t.Errorf("NewPlayer = %v, %v; want nil, ErrNoSound", p, err)
	}
}
