package snake

// State is the session lifecycle state.
type State int

const (
	Running State = iota
	Paused
	GameOver
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	case GameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Outcome records why a session ended.
type Outcome string

const (
	OutcomeNone      Outcome = ""
	OutcomeWall      Outcome = "collided_wall"
	OutcomeSelf      Outcome = "collided_self"
	OutcomeBoardFull Outcome = "board_full"
)

// Won reports whether the outcome counts as a victory.
func (o Outcome) Won() bool {
	return o == OutcomeBoardFull
}

// Snapshot is an immutable copy of the session handed to the render sink.
type Snapshot struct {
	Tick       uint64
	Width      int
	Height     int
	Body       []Cell // Head first
	Direction  Direction
	Food       Cell
	HasFood    bool
	Score      int
	FoodEaten  int
	State      State
	Outcome    Outcome
	Last       AdvanceResult // Result of the most recent move
	Countdown  int           // Ticks left before movement resumes
	Speed      int           // Moves per second
	Player     string
	Difficulty string
}

// Head returns the head cell, or the zero cell for an empty snapshot.
func (s Snapshot) Head() Cell {
	if len(s.Body) == 0 {
		return Cell{}
	}
	return s.Body[0]
}

// CountdownSeconds converts the remaining countdown ticks to whole seconds,
// rounding up.
func (s Snapshot) CountdownSeconds() int {
	if s.Countdown <= 0 {
		return 0
	}
	if s.Speed <= 0 {
		return s.Countdown
	}
	return (s.Countdown + s.Speed - 1) / s.Speed
}

// RenderSink consumes one snapshot per tick.
type RenderSink interface {
	Render(Snapshot)
}

// RenderFunc adapts a function to RenderSink.
type RenderFunc func(Snapshot)

// Render calls f(s).
func (f RenderFunc) Render(s Snapshot) { f(s) }
