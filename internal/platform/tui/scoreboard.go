package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-snake/internal/scores"
)

// Scoreboard layout constants
const (
	minWidthForSidebar = 90  // Minimum width to show board list sidebar
	sidebarWidth       = 16  // Width of board list sidebar
	maxScores          = 100 // Max scores to load
	loadTimeout        = 5 * time.Second
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	NextBoard key.Binding
	PrevBoard key.Binding
	Mode      key.Binding
	Refresh   key.Binding
	Back      key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextBoard, k.Mode, k.Refresh, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextBoard, k.PrevBoard},
		{k.Mode, k.Refresh, k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev board"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next board"),
		),
		NextBoard: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next board"),
		),
		PrevBoard: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev board"),
		),
		Mode: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "games/players"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// board is one leaderboard view: all difficulties or a single one.
type board struct {
	Title      string
	Difficulty string
}

// scoresLoadedMsg carries the rows for one board request.
type scoresLoadedMsg struct {
	req     int
	records []scores.Record
	stats   string
	err     error
}

// ScoreboardModel is the Bubble Tea model for the scoreboard screen.
type ScoreboardModel struct {
	setup       Setup
	boards      []board
	boardCursor int
	bestOnly    bool // One row per player instead of every game
	req         int  // Latest load request; stale replies are dropped
	loading     bool
	records     []scores.Record
	stats       string
	err         error
	table       table.Model
	help        help.Model
	keys        ScoreboardKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(setup Setup) ScoreboardModel {
	boards := []board{{Title: "All"}}
	for _, p := range setup.Config.Difficulty.Presets {
		boards = append(boards, board{Title: titleCase(p.Name), Difficulty: p.Name})
	}

	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		setup:       setup,
		boards:      boards,
		keys:        DefaultScoreboardKeyMap(),
		help:        h,
		width:       setup.Runtime.ScreenW,
		height:      setup.Runtime.ScreenH,
		showSidebar: setup.Runtime.ScreenW >= minWidthForSidebar,
		req:         1,
		loading:     true,
	}
	m.table = m.createTable()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Player", Width: 14},
		{Title: "Score", Width: 7},
		{Title: "Len", Width: 4},
		{Title: "Level", Width: 7},
		{Title: "Date", Width: 12},
	}

	tableWidth := m.width - 6 // Margins and border
	if m.showSidebar {
		tableWidth -= sidebarWidth + 4
	}
	used := 0
	for _, c := range columns {
		used += c.Width + 2
	}
	if extra := tableWidth - used; extra > 0 {
		columns[1].Width += min(extra, 16)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-10)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("22")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load requests the rows for the current board.
func (m *ScoreboardModel) load() tea.Cmd {
	m.req++
	m.loading = true
	return m.fetch(m.req)
}

func (m ScoreboardModel) fetch(req int) tea.Cmd {
	setup := m.setup
	difficulty := m.boards[m.boardCursor].Difficulty
	bestOnly := m.bestOnly

	return func() tea.Msg {
		if setup.Store == nil {
			return scoresLoadedMsg{req: req}
		}
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		q := scores.Query{Limit: maxScores, Difficulty: difficulty}
		recs, err := setup.Store.TopScores(ctx, q)
		if err != nil {
			return scoresLoadedMsg{req: req, err: err}
		}
		if bestOnly {
			recs = scores.BestPerPlayer(recs, maxScores)
		}
		return scoresLoadedMsg{req: req, records: recs, stats: playerLine(ctx, setup, difficulty)}
	}
}

// playerLine summarizes the local player's standing, if stats are available.
func playerLine(ctx context.Context, setup Setup, difficulty string) string {
	if setup.Stats == nil || setup.Player.ID == "" {
		return ""
	}
	stats, err := setup.Stats.PlayerStats(ctx, setup.Player.ID)
	if err != nil || stats.GamesPlayed == 0 {
		return ""
	}
	line := fmt.Sprintf("You: best %d  games %d", stats.BestScore, stats.GamesPlayed)
	if rank, err := setup.Stats.PlayerRank(ctx, setup.Player.ID, difficulty); err == nil && rank > 0 {
		line += fmt.Sprintf("  rank #%d", rank)
	}
	return line
}

// updateTableRows updates the table with current scores.
func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.records))
	for i, r := range m.records {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			r.DisplayName(),
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%d", r.Length),
			r.Difficulty,
			r.PlayedAt.Local().Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init loads the first board.
func (m ScoreboardModel) Init() tea.Cmd {
	return m.fetch(m.req)
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case scoresLoadedMsg:
		if msg.req != m.req {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		m.records = msg.records
		m.stats = msg.stats
		m.updateTableRows()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil

		case key.Matches(msg, m.keys.NextBoard), key.Matches(msg, m.keys.Right):
			m.boardCursor = (m.boardCursor + 1) % len(m.boards)
			return m, m.load()

		case key.Matches(msg, m.keys.PrevBoard), key.Matches(msg, m.keys.Left):
			m.boardCursor--
			if m.boardCursor < 0 {
				m.boardCursor = len(m.boards) - 1
			}
			return m, m.load()

		case key.Matches(msg, m.keys.Mode):
			m.bestOnly = !m.bestOnly
			return m, m.load()

		case key.Matches(msg, m.keys.Refresh):
			return m, m.load()

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))

	mode := "Top games"
	if m.bestOnly {
		mode = "Best per player"
	}
	title := fmt.Sprintf("HIGH SCORES - %s - %s", m.boards[m.boardCursor].Title, mode)
	b.WriteString(centerText(titleStyle.Render(title), m.width))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	if m.stats != "" {
		b.WriteString("\n")
		b.WriteString(centerText(m.stats, m.width))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderWideLayout renders the scoreboard with sidebar for board selection.
func (m ScoreboardModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Boards\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")
	for i, bd := range m.boards {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.boardCursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		sidebar.WriteString(style.Render(cursor + bd.Title))
		sidebar.WriteString("\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()), "  ", tableStyle.Render(m.renderTableContent()))
}

// renderNarrowLayout renders the scoreboard with board tabs above the table.
func (m ScoreboardModel) renderNarrowLayout() string {
	var b strings.Builder

	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("22")).
		Padding(0, 1)

	tabs := make([]string, len(m.boards))
	for i, bd := range m.boards {
		if i == m.boardCursor {
			tabs[i] = activeTabStyle.Render(bd.Title)
		} else {
			tabs[i] = tabStyle.Render(" " + bd.Title + " ")
		}
	}
	tabLine := strings.Join(tabs, " ")
	if lipgloss.Width(tabLine) > m.width-4 {
		tabLine = fmt.Sprintf("< %s >", m.boards[m.boardCursor].Title)
	}
	b.WriteString(centerText(tabLine, m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))

	return b.String()
}

// renderTableContent renders the table or a status message.
func (m ScoreboardModel) renderTableContent() string {
	msgStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.loading && len(m.records) == 0:
		return msgStyle.Render("Loading scores...")
	case m.err != nil:
		return msgStyle.Render(fmt.Sprintf("Scores unavailable:\n%v", m.err))
	case len(m.records) == 0:
		return msgStyle.Render("No scores recorded yet.\nPlay a game to set a high score!")
	}
	return m.table.View()
}

// Records returns the rows currently shown.
func (m ScoreboardModel) Records() []scores.Record {
	return m.records
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
