package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/snake"
)

// GameAction is a control-level action outside the engine's event set.
type GameAction int

const (
	GameActionNone GameAction = iota
	GameActionQuit
	GameActionRestart
	GameActionBack
	GameActionScreenshot
)

// KeyMapper translates Bubble Tea key messages to engine events and
// control actions. This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key pressed during play.
// It returns an engine event when ok is true, otherwise a control action.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (ev snake.Event, ok bool, action GameAction) {
	switch msg.String() {
	case "ctrl+c", "q":
		return ev, false, GameActionQuit
	case "ctrl+s":
		return ev, false, GameActionScreenshot
	case "r":
		return ev, false, GameActionRestart
	case "b", "esc":
		return ev, false, GameActionBack

	case "w", "up", "k":
		return snake.Turn(snake.Up), true, GameActionNone
	case "s", "down", "j":
		return snake.Turn(snake.Down), true, GameActionNone
	case "a", "left", "h":
		return snake.Turn(snake.Left), true, GameActionNone
	case "d", "right", "l":
		return snake.Turn(snake.Right), true, GameActionNone
	case "p", " ":
		return snake.Event{Kind: snake.EventTogglePause}, true, GameActionNone
	}

	return ev, false, GameActionNone
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
	MenuActionScoreboard
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}

	return MenuActionNone
}
