//go:build !nosound

package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Player mixes cues onto the local speaker.
type Player struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	volume float64
	closed bool
}

var _ Cues = (*Player)(nil)

// NewPlayer initializes the speaker. volume is clamped to [0, 1].
func NewPlayer(volume float64) (Cues, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return nil, err
	}
	p := &Player{mixer: &beep.Mixer{}, volume: math.Max(0, math.Min(1, volume))}
	speaker.Play(p.mixer)
	return p, nil
}

func (p *Player) Eat() {
	p.play(eatPhrase(p.volume))
}

func (p *Player) GameOver(won bool) {
	p.play(gameOverPhrase(won, p.volume))
}

func (p *Player) play(s beep.Streamer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Close silences pending cues and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	speaker.Clear()
	speaker.Close()
}
