package snake

import (
	"fmt"

	"github.com/vovakirdan/tui-snake/internal/core"
)

const (
	hudHeight    = 2 // Status line plus separator
	footerHeight = 1
)

// MinScreen returns the smallest screen that fits a width x height board
// with its border, HUD and footer.
func MinScreen(width, height int) (int, int) {
	return width + 2, height + 2 + hudHeight + footerHeight
}

// Render draws snap onto dst. notice, when set, is shown on the game over
// overlay (for example a score that could not be saved).
func Render(dst *core.Screen, snap Snapshot, notice string) {
	dst.Clear()
	renderHUD(dst, snap)

	minW, minH := MinScreen(snap.Width, snap.Height)
	if dst.Width() < minW || dst.Height() < minH {
		renderOverlay(dst, core.ColorYellow, "Window too small", fmt.Sprintf("Need %dx%d", minW, minH))
		return
	}

	board := core.NewRect((dst.Width()-minW)/2, hudHeight, snap.Width+2, snap.Height+2)
	dst.DrawBox(board, core.ColorGray)
	origin := board.Inset(1)

	if snap.HasFood {
		dst.SetColor(origin.X+snap.Food.Col, origin.Y+snap.Food.Row, '*', core.ColorBrightRed)
	}
	renderSnake(dst, origin, snap)
	renderFooter(dst, snap)

	switch snap.State {
	case GameOver:
		title, color := "Game Over", core.ColorBrightRed
		if snap.Outcome.Won() {
			title, color = "Board cleared!", core.ColorBrightGreen
		}
		lines := []string{title, fmt.Sprintf("Final score: %d", snap.Score)}
		if notice != "" {
			lines = append(lines, notice)
		}
		lines = append(lines, "R restart  B back")
		renderOverlay(dst, color, lines...)
	case Paused:
		renderOverlay(dst, core.ColorYellow, "Paused", "Press P to continue")
	default:
		if snap.Countdown > 0 {
			renderOverlay(dst, core.ColorYellow, fmt.Sprintf("Resuming in %d", snap.CountdownSeconds()))
		}
	}
}

// renderHUD draws the top status bar.
func renderHUD(dst *core.Screen, snap Snapshot) {
	hud := fmt.Sprintf(" Snake | Score: %d  Length: %d", snap.Score, len(snap.Body))
	if snap.Difficulty != "" {
		hud += "  Difficulty: " + snap.Difficulty
	}
	if snap.Player != "" {
		hud += "  Player: " + snap.Player
	}
	dst.DrawText(0, 0, hud, core.ColorBrightWhite)
	dst.DrawHLine(0, 1, dst.Width(), '─', core.ColorGray)
}

func renderFooter(dst *core.Screen, snap Snapshot) {
	help := "arrows/wasd move  p pause  q quit"
	if snap.State == GameOver {
		help = "r restart  b back  q quit"
	}
	dst.DrawTextCentered(dst.Height()-1, help, core.ColorGray)
}

// renderSnake draws the body first so the head stays visible.
func renderSnake(dst *core.Screen, origin core.Rect, snap Snapshot) {
	for i := len(snap.Body) - 1; i >= 0; i-- {
		seg := snap.Body[i]
		ch, color := 'o', core.ColorGreen
		if i == 0 {
			ch, color = '@', core.ColorBrightGreen
			if snap.State == GameOver && !snap.Outcome.Won() {
				ch, color = 'X', core.ColorBrightRed
			}
		}
		dst.SetColor(origin.X+seg.Col, origin.Y+seg.Row, ch, color)
	}
}

// renderOverlay draws a centred box with one line of text per row.
func renderOverlay(dst *core.Screen, color core.Color, lines ...string) {
	maxLen := 0
	for _, l := range lines {
		maxLen = core.Max(maxLen, len([]rune(l)))
	}
	box := core.CenteredRect(dst.Width(), dst.Height(), maxLen+4, len(lines)+2)
	dst.FillRect(box, ' ')
	dst.DrawBox(box, color)
	for i, l := range lines {
		c := core.ColorBrightWhite
		if i == 0 {
			c = color
		}
		dst.DrawTextCentered(box.Y+1+i, l, c)
	}
}
