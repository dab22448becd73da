package core

// Color is a foreground color for a screen cell.
// The platform layer maps these onto ANSI colors.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorCyan
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightWhite
	ColorGray
)
