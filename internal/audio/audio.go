// Package audio plays short cues for local games. The speaker backend needs
// cgo; build with -tags nosound for a pure-Go binary, e.g. for snake serve.
package audio

import (
	"errors"
	"math"
	"time"

	"github.com/gopxl/beep"
)

const sampleRate = beep.SampleRate(44100)

// Cues is what the game loop calls when something audible happens.
type Cues interface {
	Eat()
	GameOver(won bool)
	Close()
}

// Nop is a silent Cues, used over SSH and when sound is disabled.
type Nop struct{}

func (Nop) Eat()          {}
func (Nop) GameOver(bool) {}
func (Nop) Close()        {}

// ErrNoSound is returned by NewPlayer in builds without a sound device.
var ErrNoSound = errors.New("audio: built without sound support")

// eatPhrase is a short rising blip.
func eatPhrase(volume float64) beep.Streamer {
	return beep.Seq(
		NewTone(660, 40*time.Millisecond, volume, sampleRate),
		NewTone(880, 60*time.Millisecond, volume, sampleRate),
	)
}

// gameOverPhrase falls, or rises when the board was cleared.
func gameOverPhrase(won bool, volume float64) beep.Streamer {
	freqs := []float64{440, 330, 220}
	if won {
		freqs = []float64{523, 659, 784}
	}
	tones := make([]beep.Streamer, len(freqs))
	for i, f := range freqs {
		tones[i] = NewTone(f, 120*time.Millisecond, volume, sampleRate)
	}
	return beep.Seq(tones...)
}

// Tone is a finite sine wave with a short linear fade at both ends.
type Tone struct {
	freq   float64
	amp    float64
	sr     beep.SampleRate
	pos    int
	total  int
	fadeIn int
}

// NewTone creates a tone streamer of the given frequency and duration.
func NewTone(freq float64, d time.Duration, amp float64, sr beep.SampleRate) *Tone {
	total := sr.N(d)
	return &Tone{
		freq:   freq,
		amp:    amp,
		sr:     sr,
		total:  total,
		fadeIn: min(sr.N(5*time.Millisecond), total/2),
	}
}

func (t *Tone) Stream(samples [][2]float64) (n int, ok bool) {
	if t.pos >= t.total {
		return 0, false
	}
	for i := range samples {
		if t.pos >= t.total {
			break
		}
		env := 1.0
		if t.fadeIn > 0 {
			if t.pos < t.fadeIn {
				env = float64(t.pos) / float64(t.fadeIn)
			} else if left := t.total - t.pos; left < t.fadeIn {
				env = float64(left) / float64(t.fadeIn)
			}
		}
		v := t.amp * env * math.Sin(2*math.Pi*t.freq*float64(t.pos)/float64(t.sr))
		samples[i][0] = v
		samples[i][1] = v
		t.pos++
		n++
	}
	return n, true
}

func (t *Tone) Err() error {
	return nil
}
