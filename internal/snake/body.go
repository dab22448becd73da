package snake

import "fmt"

// AdvanceResult is the outcome of moving the snake one cell.
type AdvanceResult int

const (
	Moved AdvanceResult = iota
	AteFood
	CollidedWall
	CollidedSelf
)

func (r AdvanceResult) String() string {
	switch r {
	case Moved:
		return "moved"
	case AteFood:
		return "ate_food"
	case CollidedWall:
		return "collided_wall"
	case CollidedSelf:
		return "collided_self"
	default:
		return "unknown"
	}
}

// Collided reports whether r ends the session.
func (r AdvanceResult) Collided() bool {
	return r == CollidedWall || r == CollidedSelf
}

// Snake is the ordered body (head at index 0), its heading and the number
// of segments still owed from eaten food.
type Snake struct {
	body      []Cell
	direction Direction
	growth    int
}

// NewSnake validates a body and heading. Segments must be distinct and
// each must share an edge with the next.
func NewSnake(body []Cell, dir Direction) (*Snake, error) {
	if len(body) == 0 {
		return nil, &ConfigError{Field: "body", Reason: "snake needs at least one segment"}
	}
	seen := make(map[Cell]struct{}, len(body))
	for i, seg := range body {
		if _, dup := seen[seg]; dup {
			return nil, &ConfigError{Field: "body", Reason: fmt.Sprintf("segment %d repeats cell %v", i, seg)}
		}
		seen[seg] = struct{}{}
		if i > 0 && !adjacent(body[i-1], seg) {
			return nil, &ConfigError{Field: "body", Reason: fmt.Sprintf("segment %d is not adjacent to segment %d", i, i-1)}
		}
	}
	if len(body) > 1 && body[0].Step(dir) == body[1] {
		return nil, &ConfigError{Field: "direction", Reason: fmt.Sprintf("heading %s points into the neck", dir)}
	}

	b := make([]Cell, len(body))
	copy(b, body)
	return &Snake{body: b, direction: dir}, nil
}

// Head returns the first segment.
func (s *Snake) Head() Cell { return s.body[0] }

// Len returns the number of segments.
func (s *Snake) Len() int { return len(s.body) }

// Direction returns the heading the snake last moved in.
func (s *Snake) Direction() Direction { return s.direction }

// Pending returns how many segments will still be added on later moves.
func (s *Snake) Pending() int { return s.growth }

// Body returns a copy of the segments, head first.
func (s *Snake) Body() []Cell {
	b := make([]Cell, len(s.body))
	copy(b, s.body)
	return b
}

// Grow queues n extra segments, one per subsequent move.
func (s *Snake) Grow(n int) {
	if n > 0 {
		s.growth += n
	}
}

// Advance moves the snake one cell. A request for the exact reverse of the
// current heading is replaced by the current heading when the snake is
// longer than one segment. On a collision the snake is left unchanged.
func (s *Snake) Advance(requested Direction, grid Grid, food Cell, hasFood bool) AdvanceResult {
	dir := requested
	if len(s.body) > 1 && dir == s.direction.Opposite() {
		dir = s.direction
	}

	head := s.body[0].Step(dir)
	if !grid.Inside(head) {
		return CollidedWall
	}

	// The tail vacates this move unless growth is owed, so it is excluded
	// from the check. Food never sits on the body, so eating keeps the
	// tail without changing the answer.
	check := s.body
	if s.growth == 0 {
		check = s.body[:len(s.body)-1]
	}
	if grid.Occupied(head, check) {
		return CollidedSelf
	}

	s.direction = dir
	s.body = append(s.body, Cell{})
	copy(s.body[1:], s.body[:len(s.body)-1])
	s.body[0] = head

	if hasFood && head == food {
		return AteFood
	}
	if s.growth > 0 {
		s.growth--
		return Moved
	}
	s.body = s.body[:len(s.body)-1]
	return Moved
}
