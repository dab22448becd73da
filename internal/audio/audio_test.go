package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"
)

func TestToneLength(t *testing.T) {
	rate := beep.SampleRate(44100)
	tone := NewTone(440, 100*time.Millisecond, 0.5, rate)

	want := rate.N(100 * time.Millisecond)
	total := 0
	buf := make([][2]float64, 512)
	for {
		n, ok := tone.Stream(buf)
		total += n
		if !ok {
			break
		}
		for i := 0; i < n; i++ {
			if buf[i][0] < -0.5 || buf[i][0] > 0.5 {
				t.Fatalf("sample %d out of range: %f", i, buf[i][0])
			}
			if buf[i][0] != buf[i][1] {
				t.Fatalf("sample %d not mono", i)
			}
		}
	}
	if total != want {
		t.Errorf("streamed %d samples, want %d", total, want)
	}
	if tone.Err() != nil {
		t.Errorf("unexpected error: %v", tone.Err())
	}
}

func TestToneFadesIn(t *testing.T) {
	rate := beep.SampleRate(44100)
	tone := NewTone(1000, 50*time.Millisecond, 1, rate)

	buf := make([][2]float64, 1)
	if _, ok := tone.Stream(buf); !ok {
		t.Fatal("expected samples")
	}
	if buf[0][0] != 0 {
		t.Errorf("first sample = %f, want 0", buf[0][0])
	}
}

func TestSeqOfTones(t *testing.T) {
	rate := beep.SampleRate(8000)
	seq := beep.Seq(
		NewTone(440, 10*time.Millisecond, 1, rate),
		NewTone(880, 10*time.Millisecond, 1, rate),
	)

	total := 0
	buf := make([][2]float64, 64)
	for {
		n, ok := seq.Stream(buf)
		total += n
		if !ok {
			break
		}
	}
	if want := 2 * rate.N(10*time.Millisecond); total != want {
		t.Errorf("streamed %d samples, want %d", total, want)
	}
}

func TestNopSatisfiesCues(t *testing.T) {
	var c Cues = Nop{}
	c.Eat()
	c.GameOver(true)
	c.Close()
}

func streamedLength(t *testing.T, s beep.Streamer) int {
	t.Helper()
	total := 0
	buf := make([][2]float64, 1024)
	for {
		n, ok := s.Stream(buf)
		total += n
		if !ok {
			return total
		}
		if total > sampleRate.N(5*time.Second) {
			t.Fatal("phrase never ends")
		}
	}
}

func TestPhraseLengths(t *testing.T) {
	if got, want := streamedLength(t, eatPhrase(0.3)), sampleRate.N(40*time.Millisecond)+sampleRate.N(60*time.Millisecond); got != want {
		t.Errorf("eat phrase = %d samples, want %d", got, want)
	}
	for _, won := range []bool{false, true} {
		if got, want := streamedLength(t, gameOverPhrase(won, 0.3)), 3*sampleRate.N(120*time.Millisecond); got != want {
			t.Errorf("game over (won=%v) = %d samples, want %d", won, got, want)
		}
	}
}
