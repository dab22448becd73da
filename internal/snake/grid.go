package snake

import "fmt"

// Cell is a board position. Row 0 is the top edge, Col 0 the left edge.
type Cell struct {
	Row, Col int
}

// Step returns the neighbouring cell one unit in direction d.
func (c Cell) Step(d Direction) Cell {
	switch d {
	case Up:
		return Cell{Row: c.Row - 1, Col: c.Col}
	case Down:
		return Cell{Row: c.Row + 1, Col: c.Col}
	case Left:
		return Cell{Row: c.Row, Col: c.Col - 1}
	case Right:
		return Cell{Row: c.Row, Col: c.Col + 1}
	}
	return c
}

// adjacent reports whether a and b share an edge.
func adjacent(a, b Cell) bool {
	dr, dc := a.Row-b.Row, a.Col-b.Col
	return dr*dr+dc*dc == 1
}

// Direction represents the snake's movement direction.
type Direction int

const (
	Right Direction = iota
	Down
	Left
	Up
)

// Opposite returns the reverse of d.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection converts "up", "down", "left" or "right" to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	case "left":
		return Left, nil
	case "right", "":
		return Right, nil
	}
	return Right, &ConfigError{Field: "direction", Reason: fmt.Sprintf("unknown direction %q", s)}
}

// ConfigError reports an engine setting that cannot produce a playable board.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("snake: invalid %s: %s", e.Field, e.Reason)
}

// Grid is a fixed width x height board. It holds no mutable state.
type Grid struct {
	width  int
	height int
}

// NewGrid creates a board, rejecting non-positive dimensions.
func NewGrid(width, height int) (Grid, error) {
	if width <= 0 {
		return Grid{}, &ConfigError{Field: "width", Reason: fmt.Sprintf("%d is not positive", width)}
	}
	if height <= 0 {
		return Grid{}, &ConfigError{Field: "height", Reason: fmt.Sprintf("%d is not positive", height)}
	}
	return Grid{width: width, height: height}, nil
}

// Width returns the number of columns.
func (g Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g Grid) Height() int { return g.height }

// Size returns the number of cells on the board.
func (g Grid) Size() int { return g.width * g.height }

// Inside reports whether c lies within [0,height) x [0,width).
func (g Grid) Inside(c Cell) bool {
	return c.Row >= 0 && c.Row < g.height && c.Col >= 0 && c.Col < g.width
}

// Occupied reports whether c matches any segment of body.
func (g Grid) Occupied(c Cell, body []Cell) bool {
	for _, seg := range body {
		if seg == c {
			return true
		}
	}
	return false
}

// Center returns the middle cell, rounding towards the top left.
func (g Grid) Center() Cell {
	return Cell{Row: (g.height - 1) / 2, Col: (g.width - 1) / 2}
}

// Cells calls fn for every cell in row-major order until fn returns false.
func (g Grid) Cells(fn func(Cell) bool) {
	for row := 0; row < g.height; row++ {
		for col := 0; col < g.width; col++ {
			if !fn(Cell{Row: row, Col: col}) {
				return
			}
		}
	}
}
