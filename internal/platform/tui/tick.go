// Package tui provides the Bubble Tea integration for the snake game.
// It handles the terminal UI loop, input mapping, menus, the scoreboard
// and SSH hosting.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/snake"
)

// frameMsg carries a snapshot emitted by an engine run.
type frameMsg struct {
	gen  int
	snap snake.Snapshot
}

// runEndedMsg is sent once the engine loop of a run has returned.
type runEndedMsg struct {
	gen int
}

// persistMsg carries the outcome of saving a finished session.
type persistMsg struct {
	gen    int
	result snake.PersistResult
	ok     bool // False when no store was configured
}

// frameSink is the engine's render sink. It holds at most one frame and
// replaces a frame the UI has not picked up yet, so a tick never blocks on
// a slow terminal.
type frameSink chan snake.Snapshot

func newFrameSink() frameSink {
	return make(frameSink, 1)
}

func (s frameSink) Render(snap snake.Snapshot) {
	for {
		select {
		case s <- snap:
			return
		default:
		}
		select {
		case <-s:
		default:
		}
	}
}

// waitForFrame blocks until the next frame of run gen is available.
func waitForFrame(gen int, frames <-chan snake.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-frames
		if !ok {
			return runEndedMsg{gen: gen}
		}
		return frameMsg{gen: gen, snap: snap}
	}
}

// waitForResult blocks until the engine reports how persisting went.
func waitForResult(gen int, results <-chan snake.PersistResult) tea.Cmd {
	return func() tea.Msg {
		res, ok := <-results
		return persistMsg{gen: gen, result: res, ok: ok}
	}
}
