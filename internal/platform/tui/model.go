package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/scores"
	"github.com/vovakirdan/tui-snake/internal/snake"
)

// GameModel is the Bubble Tea model for one snake session and its restarts.
// The engine ticks on its own goroutine; the model only forwards keys into
// the engine's input slot and draws the snapshots it emits.
type GameModel struct {
	setup     Setup
	screen    *core.Screen
	keyMapper *KeyMapper
	embedded  bool // Back returns to a parent model instead of quitting

	engine   *snake.Engine
	interval time.Duration
	cancel   context.CancelFunc
	frames   frameSink
	gen      int

	snap       snake.Snapshot
	notice     string
	gameOver   bool
	quitting   bool
	backToMenu bool
}

// NewGameModel builds the first engine of a session. Configuration errors
// surface here, before any terminal takeover.
func NewGameModel(setup Setup) (*GameModel, error) {
	m := &GameModel{
		setup:     setup,
		screen:    core.NewScreen(setup.Runtime.ScreenW, setup.Runtime.ScreenH),
		keyMapper: NewKeyMapper(),
	}
	if err := m.newEngine(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *GameModel) newEngine() error {
	opts, interval, err := m.setup.EngineOptions(m.gen)
	if err != nil {
		return err
	}
	engine, err := snake.NewEngine(opts)
	if err != nil {
		return err
	}
	m.engine = engine
	m.interval = interval
	m.snap = engine.Snapshot()
	m.notice = ""
	m.gameOver = false
	return nil
}

// Init starts the engine loop.
func (m *GameModel) Init() tea.Cmd {
	return m.start()
}

func (m *GameModel) start() tea.Cmd {
	ctx, cancel := context.WithCancel(m.setup.context())
	m.cancel = cancel

	frames := newFrameSink()
	m.frames = frames
	engine, interval, gen := m.engine, m.interval, m.gen
	logger := m.setup.logger()
	go func() {
		defer close(frames)
		if err := engine.Run(ctx, interval, frames); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("engine stopped", "err", err)
		}
	}()
	return waitForFrame(gen, frames)
}

// stop cancels the running loop. A session that has not reached GameOver
// is discarded without saving.
func (m *GameModel) stop() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// Update handles messages.
func (m *GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.setup.Runtime.ScreenW = msg.Width
		m.setup.Runtime.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case frameMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		return m.handleFrame(msg.snap)

	case persistMsg:
		if msg.gen != m.gen || !msg.ok {
			return m, nil
		}
		m.notice = persistNotice(msg.result.Err)
		return m, nil

	case runEndedMsg:
		return m, nil
	}

	return m, nil
}

func (m *GameModel) handleFrame(snap snake.Snapshot) (tea.Model, tea.Cmd) {
	if snap.FoodEaten > m.snap.FoodEaten {
		m.setup.cues().Eat()
	}
	m.snap = snap

	if snap.State == snake.GameOver && !m.gameOver {
		m.gameOver = true
		m.setup.cues().GameOver(snap.Outcome.Won())
		m.notice = ""
		if m.setup.Store != nil {
			m.notice = "Saving score..."
		}
		return m, tea.Batch(waitForResult(m.gen, m.engine.Results()), waitForFrame(m.gen, m.frames))
	}
	return m, waitForFrame(m.gen, m.frames)
}

// handleKey processes keyboard input.
func (m *GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ev, isEvent, action := m.keyMapper.MapKey(msg)
	if isEvent {
		if !m.gameOver {
			m.engine.Input().Put(ev)
		}
		return m, nil
	}

	switch action {
	case GameActionQuit:
		m.stop()
		m.quitting = true
		return m, tea.Quit

	case GameActionScreenshot:
		m.saveScreenshot()

	case GameActionRestart:
		if m.gameOver {
			return m, m.restart()
		}

	case GameActionBack:
		if m.gameOver || m.snap.State == snake.Paused {
			m.stop()
			m.backToMenu = true
			if !m.embedded {
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

// restart starts a fresh round with the same setup.
func (m *GameModel) restart() tea.Cmd {
	m.stop()
	m.gen++
	if err := m.newEngine(); err != nil {
		m.notice = fmt.Sprintf("Cannot restart: %v", err)
		return nil
	}
	return m.start()
}

// persistNotice turns a persistence outcome into the GameOver notice.
func persistNotice(err error) string {
	if err == nil {
		return "Score saved"
	}
	if kind, ok := scores.KindOf(err); ok {
		return fmt.Sprintf("Score not saved (%s)", kind)
	}
	return "Score not saved"
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	snake.Render(m.screen, m.snap, m.notice)

	dir := config.ExpandHome(filepath.Join("~", ".snake", "screenshots"))
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	name := fmt.Sprintf("snake_%s.txt", time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(filepath.Join(dir, name), []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m *GameModel) View() string {
	if m.quitting {
		return ""
	}
	snake.Render(m.screen, m.snap, m.notice)
	return RenderScreen(m.screen)
}

// Snapshot returns the last snapshot received from the engine.
func (m *GameModel) Snapshot() snake.Snapshot {
	return m.snap
}

// Notice returns the persistence notice shown on the GameOver screen.
func (m *GameModel) Notice() string {
	return m.notice
}

// IsQuitting returns true if user requested to quit entirely.
func (m *GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m *GameModel) BackToMenu() bool {
	return m.backToMenu
}

// awaitSave waits up to timeout for a finished session to be persisted,
// so quitting right after GameOver does not lose the score.
func (m *GameModel) awaitSave(timeout time.Duration) {
	if !m.gameOver || m.setup.Store == nil {
		return
	}
	select {
	case <-m.engine.Results():
	case <-time.After(timeout):
	}
}

// RunGame plays one session, with restarts, in the current terminal.
func RunGame(setup Setup) error {
	model, err := NewGameModel(setup)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	model.stop()
	model.awaitSave(setup.Config.Leaderboard.PersistTimeout)
	return err
}
