package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

type sessionView int

const (
	viewMenu sessionView = iota
	viewGame
	viewScores
)

// SessionModel manages the full session flow: menu -> game or scoreboard
// -> menu. It is the top-level model for `snake menu` and SSH sessions.
type SessionModel struct {
	setup    Setup
	view     sessionView
	menu     MenuModel
	game     *GameModel
	board    ScoreboardModel
	quitting bool
	err      error
}

// NewSessionModel creates a new session model.
func NewSessionModel(setup Setup) SessionModel {
	return SessionModel{
		setup: setup,
		menu:  NewMenuModel(setup),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.setup.Runtime.ScreenW = wsm.Width
		m.setup.Runtime.ScreenH = wsm.Height
	}

	switch m.view {
	case viewGame:
		return m.updateGame(msg)
	case viewScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsScoreboard() {
		m.board = NewScoreboardModel(m.setup)
		m.view = viewScores
		return m, m.board.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		m.setup.Difficulty = selected.Name
		game, err := NewGameModel(m.setup)
		if err != nil {
			m.setup.logger().Error("cannot start game", "difficulty", selected.Name, "err", err)
			m.err = err
			m.quitting = true
			return m, tea.Quit
		}
		game.embedded = true
		m.game = game
		m.view = viewGame
		return m, m.game.Init()
	}

	return m, cmd
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	_, cmd := m.game.Update(msg)

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.game.BackToMenu() {
		m.view = viewMenu
		m.menu = NewMenuModel(m.setup)
		return m, m.menu.Init()
	}

	return m, cmd
}

// updateScores handles updates when showing the scoreboard.
func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newBoard, cmd := m.board.Update(msg)
	if board, ok := newBoard.(ScoreboardModel); ok {
		m.board = board
	}

	if m.board.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.board.IsGoingBack() {
		m.view = viewMenu
		m.menu = NewMenuModel(m.setup)
		return m, m.menu.Init()
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.view {
	case viewGame:
		return m.game.View()
	case viewScores:
		return m.board.View()
	default:
		return m.menu.View()
	}
}

// finish stops a running game and waits briefly for its score to land.
func (m SessionModel) finish() {
	if m.game == nil {
		return
	}
	m.game.stop()
	m.game.awaitSave(m.setup.Config.Leaderboard.PersistTimeout)
}

// RunSession runs the menu-driven session in the current terminal.
func RunSession(setup Setup) error {
	p := tea.NewProgram(NewSessionModel(setup), tea.WithAltScreen())
	final, err := p.Run()
	if m, ok := final.(SessionModel); ok {
		m.finish()
		if err == nil {
			err = m.err
		}
	}
	return err
}
