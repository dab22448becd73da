// Package snake implements the game core: the board, the snake, food
// placement and the tick-driven engine that ties them to a score store.
// Nothing here touches the terminal; the platform layer feeds events into
// an InputSlot and draws the snapshots the engine emits.
package snake

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-snake/internal/scores"
)

// Defaults applied when an Options field is left zero.
const (
	DefaultWidth          = 30
	DefaultHeight         = 20
	DefaultStartLength    = 3
	DefaultReward         = 10
	DefaultSpeed          = 8
	DefaultPersistTimeout = 5 * time.Second
)

// Options configures a new Engine.
type Options struct {
	Width, Height int

	// Body overrides the starting snake. When empty the snake is
	// StartLength long, centred and heading Right.
	Body        []Cell
	Direction   Direction
	StartLength int

	// Food places the first food item instead of spawning it.
	Food *Cell

	Reward        int // Score per food item
	GrowthPerFood int // Segments gained per food item
	Speed         int // Moves per second, used to express the countdown
	ResumeTicks   int // Frozen ticks after a resume
	Seed          int64

	PlayerID   string
	PlayerName string
	Difficulty string

	Store          scores.Store
	PersistTimeout time.Duration
	Logger         *log.Logger
	Now            func() time.Time
}

// PersistResult reports how saving the final record went.
type PersistResult struct {
	Record scores.Record
	Err    error
}

// Engine owns one session. Tick, Snapshot and Run must be called from a
// single goroutine; the InputSlot is the only thing other goroutines touch.
type Engine struct {
	grid    Grid
	snake   *Snake
	spawner *Spawner
	input   *InputSlot

	food    Cell
	hasFood bool

	state     State
	outcome   Outcome
	last      AdvanceResult
	tick      uint64
	score     int
	foodEaten int
	countdown int

	reward      int
	growth      int
	speed       int
	resumeTicks int

	playerID   string
	playerName string
	difficulty string

	store   scores.Store
	timeout time.Duration
	logger  *log.Logger
	now     func() time.Time

	final   *Snapshot
	results chan PersistResult
}

// NewEngine validates opts and places the snake and the first food item.
func NewEngine(opts Options) (*Engine, error) {
	opts = withDefaults(opts)

	grid, err := NewGrid(opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}
	if opts.Reward < 0 {
		return nil, &ConfigError{Field: "reward", Reason: fmt.Sprintf("%d is negative", opts.Reward)}
	}
	if opts.GrowthPerFood < 1 {
		return nil, &ConfigError{Field: "growth_per_food", Reason: fmt.Sprintf("%d is below 1", opts.GrowthPerFood)}
	}
	if opts.ResumeTicks < 0 {
		return nil, &ConfigError{Field: "resume_countdown", Reason: fmt.Sprintf("%d is negative", opts.ResumeTicks)}
	}

	body := opts.Body
	if len(body) == 0 {
		body, err = startingBody(grid, opts.StartLength)
		if err != nil {
			return nil, err
		}
	}
	for _, c := range body {
		if !grid.Inside(c) {
			return nil, &ConfigError{Field: "body", Reason: fmt.Sprintf("cell %v is off the board", c)}
		}
	}
	s, err := NewSnake(body, opts.Direction)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		grid:        grid,
		snake:       s,
		spawner:     NewSpawner(opts.Seed),
		input:       &InputSlot{},
		state:       Running,
		reward:      opts.Reward,
		growth:      opts.GrowthPerFood,
		speed:       opts.Speed,
		resumeTicks: opts.ResumeTicks,
		playerID:    opts.PlayerID,
		playerName:  opts.PlayerName,
		difficulty:  opts.Difficulty,
		store:       opts.Store,
		timeout:     opts.PersistTimeout,
		logger:      opts.Logger,
		now:         opts.Now,
		results:     make(chan PersistResult, 1),
	}

	if opts.Food != nil {
		if !grid.Inside(*opts.Food) || grid.Occupied(*opts.Food, body) {
			return nil, &ConfigError{Field: "food", Reason: fmt.Sprintf("cell %v is off the board or under the snake", *opts.Food)}
		}
		e.food, e.hasFood = *opts.Food, true
	} else {
		// A full board is caught on the first tick.
		e.food, err = e.spawner.Spawn(grid, body)
		e.hasFood = err == nil
	}

	return e, nil
}

func withDefaults(opts Options) Options {
	if opts.Width == 0 && opts.Height == 0 {
		opts.Width, opts.Height = DefaultWidth, DefaultHeight
	}
	if opts.StartLength == 0 {
		opts.StartLength = DefaultStartLength
	}
	if opts.Reward == 0 {
		opts.Reward = DefaultReward
	}
	if opts.GrowthPerFood == 0 {
		opts.GrowthPerFood = 1
	}
	if opts.Speed <= 0 {
		opts.Speed = DefaultSpeed
	}
	if opts.PersistTimeout <= 0 {
		opts.PersistTimeout = DefaultPersistTimeout
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.PlayerID == "" {
		opts.PlayerID = "anonymous"
	}
	return opts
}

// startingBody lays out a horizontal snake with its head on the centre
// cell, heading Right.
func startingBody(grid Grid, length int) ([]Cell, error) {
	if length < 1 {
		return nil, &ConfigError{Field: "start_length", Reason: fmt.Sprintf("%d is below 1", length)}
	}
	head := grid.Center()
	if head.Col-length+1 < 0 {
		return nil, &ConfigError{Field: "start_length", Reason: fmt.Sprintf("%d does not fit a board %d wide", length, grid.Width())}
	}
	body := make([]Cell, length)
	for i := range body {
		body[i] = Cell{Row: head.Row, Col: head.Col - i}
	}
	return body, nil
}

// Input returns the slot the input source writes into.
func (e *Engine) Input() *InputSlot {
	return e.input
}

// Results delivers the outcome of persisting the final record. It yields
// one value after GameOver and is then closed. It is closed without a
// value when no store is configured.
func (e *Engine) Results() <-chan PersistResult {
	return e.results
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// Tick advances the session by one step and returns the resulting
// snapshot. After GameOver it returns the final snapshot unchanged.
func (e *Engine) Tick() Snapshot {
	if e.state == GameOver {
		return e.finalSnapshot()
	}
	e.tick++

	dir := e.snake.Direction()
	if ev, ok := e.input.Take(); ok {
		switch ev.Kind {
		case EventPause:
			if e.state == Running {
				e.pause()
				return e.Snapshot()
			}
		case EventResume:
			if e.state == Paused {
				e.resume()
				return e.Snapshot()
			}
		case EventTogglePause:
			if e.state == Running {
				e.pause()
			} else {
				e.resume()
			}
			return e.Snapshot()
		case EventDirection:
			if e.state == Running {
				dir = ev.Dir
			}
		}
	}

	if e.state == Paused {
		return e.Snapshot()
	}
	if e.countdown > 0 {
		e.countdown--
		return e.Snapshot()
	}

	if !e.hasFood {
		e.placeFood()
		if e.state == GameOver {
			return e.finalSnapshot()
		}
	}

	e.last = e.snake.Advance(dir, e.grid, e.food, e.hasFood)
	switch e.last {
	case CollidedWall:
		e.finish(OutcomeWall)
		return e.finalSnapshot()
	case CollidedSelf:
		e.finish(OutcomeSelf)
		return e.finalSnapshot()
	case AteFood:
		e.score += e.reward
		e.foodEaten++
		e.snake.Grow(e.growth - 1)
		e.hasFood = false
		e.placeFood()
		if e.state == GameOver {
			return e.finalSnapshot()
		}
	}
	return e.Snapshot()
}

func (e *Engine) pause() {
	e.state = Paused
	e.logger.Debug("paused", "tick", e.tick, "score", e.score)
}

func (e *Engine) resume() {
	e.state = Running
	e.countdown = e.resumeTicks
	e.logger.Debug("resumed", "tick", e.tick, "countdown", e.countdown)
}

// placeFood spawns the next food item, ending the session when the snake
// fills the board.
func (e *Engine) placeFood() {
	food, err := e.spawner.Spawn(e.grid, e.snake.body)
	if errors.Is(err, ErrBoardFull) {
		e.finish(OutcomeBoardFull)
		return
	}
	e.food, e.hasFood = food, true
}

// finish enters GameOver and hands the final record to the store. It runs
// once per session because GameOver is terminal.
func (e *Engine) finish(outcome Outcome) {
	e.state = GameOver
	e.outcome = outcome
	snap := e.Snapshot()
	e.final = &snap

	rec := scores.Record{
		ID:         uuid.NewString(),
		PlayerID:   e.playerID,
		PlayerName: e.playerName,
		Score:      e.score,
		Difficulty: e.difficulty,
		Length:     e.snake.Len(),
		Outcome:    string(outcome),
		PlayedAt:   e.now(),
	}
	e.logger.Info("game over", "outcome", outcome, "score", e.score, "length", rec.Length, "ticks", e.tick)

	if e.store == nil {
		close(e.results)
		return
	}
	go e.persist(rec)
}

func (e *Engine) persist(rec scores.Record) {
	defer close(e.results)

	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	err := e.store.Persist(ctx, rec)
	if err != nil {
		e.logger.Warn("score not saved", "id", rec.ID, "score", rec.Score, "err", err)
	} else {
		e.logger.Debug("score saved", "id", rec.ID, "score", rec.Score)
	}
	e.results <- PersistResult{Record: rec, Err: err}
}

// finalSnapshot hands out the GameOver snapshot with its own body slice.
func (e *Engine) finalSnapshot() Snapshot {
	snap := *e.final
	snap.Body = slices.Clone(snap.Body)
	return snap
}

// Snapshot copies the current session state.
func (e *Engine) Snapshot() Snapshot {
	if e.final != nil {
		return e.finalSnapshot()
	}
	return Snapshot{
		Tick:       e.tick,
		Width:      e.grid.Width(),
		Height:     e.grid.Height(),
		Body:       e.snake.Body(),
		Direction:  e.snake.Direction(),
		Food:       e.food,
		HasFood:    e.hasFood,
		Score:      e.score,
		FoodEaten:  e.foodEaten,
		State:      e.state,
		Outcome:    e.outcome,
		Last:       e.last,
		Countdown:  e.countdown,
		Speed:      e.speed,
		Player:     e.displayName(),
		Difficulty: e.difficulty,
	}
}

func (e *Engine) displayName() string {
	if e.playerName != "" {
		return e.playerName
	}
	return e.playerID
}

// Interval returns the tick period for the configured speed.
func (e *Engine) Interval() time.Duration {
	return time.Second / time.Duration(e.speed)
}

// Run ticks every interval and renders each snapshot until the session
// ends or ctx is cancelled. Cancelling before GameOver persists nothing.
func (e *Engine) Run(ctx context.Context, interval time.Duration, sink RenderSink) error {
	if interval <= 0 {
		return &ConfigError{Field: "interval", Reason: fmt.Sprintf("%s is not positive", interval)}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sink.Render(e.Snapshot())
	for {
		select {
		case <-ctx.Done():
			e.logger.Debug("session cancelled", "tick", e.tick, "state", e.state)
			return ctx.Err()
		case <-ticker.C:
			snap := e.Tick()
			sink.Render(snap)
			if snap.State == GameOver {
				return nil
			}
		}
	}
}
