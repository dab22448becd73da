package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-snake/internal/config"
)

// MenuModel is the Bubble Tea model for the difficulty picker.
type MenuModel struct {
	presets        []config.Preset
	player         string
	cursor         int
	width          int
	height         int
	keyMapper      *KeyMapper
	quitting       bool
	selected       *config.Preset // Set when user picks a difficulty
	openScoreboard bool           // True if user pressed Tab for scoreboard
}

// NewMenuModel creates a menu over the configured presets, with the cursor
// on the default difficulty.
func NewMenuModel(setup Setup) MenuModel {
	presets := setup.Config.Difficulty.Presets
	cursor := 0
	current := setup.Difficulty
	if current == "" {
		current = setup.Config.Difficulty.Default
	}
	for i, p := range presets {
		if strings.EqualFold(p.Name, current) {
			cursor = i
		}
	}

	player := setup.Player.Name
	if player == "" {
		player = setup.Player.ID
	}

	return MenuModel{
		presets:   presets,
		player:    player,
		cursor:    cursor,
		width:     setup.Runtime.ScreenW,
		height:    setup.Runtime.ScreenH,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.presets) > 0 {
			selected := m.presets[m.cursor]
			m.selected = &selected
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("S N A K E"), m.width))
	b.WriteString("\n\n")
	if m.player != "" {
		b.WriteString(centerText(dimStyle.Render("Playing as "+m.player), m.width))
		b.WriteString("\n\n")
	}
	b.WriteString(centerText("Select difficulty:", m.width))
	b.WriteString("\n\n")

	for i, p := range m.presets {
		line := fmt.Sprintf("  %-8s %2d pts/food  %2d moves/s", p.Name, p.Reward, p.Speed)
		if i == m.cursor {
			line = activeStyle.Render("> " + line[2:])
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(dimStyle.Render("Up/Down: Navigate  |  Enter: Play  |  Tab: Scores  |  Q: Quit"), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the chosen preset, or nil if none selected.
func (m MenuModel) Selected() *config.Preset {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}
