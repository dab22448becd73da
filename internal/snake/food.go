package snake

import (
	"errors"
	"math/rand"
)

// ErrBoardFull is returned by Spawn when the snake covers every cell.
var ErrBoardFull = errors.New("snake: board full")

// Spawner picks food cells from a seeded source, so a seed replays a game.
type Spawner struct {
	rng *rand.Rand
}

// NewSpawner creates a spawner seeded with seed.
func NewSpawner(seed int64) *Spawner {
	return &Spawner{rng: rand.New(rand.NewSource(seed))}
}

// Spawn returns a cell chosen uniformly among the cells not in occupied.
func (s *Spawner) Spawn(grid Grid, occupied []Cell) (Cell, error) {
	taken := make(map[Cell]struct{}, len(occupied))
	for _, c := range occupied {
		taken[c] = struct{}{}
	}

	free := make([]Cell, 0, grid.Size()-len(taken))
	grid.Cells(func(c Cell) bool {
		if _, ok := taken[c]; !ok {
			free = append(free, c)
		}
		return true
	})

	if len(free) == 0 {
		return Cell{}, ErrBoardFull
	}
	return free[s.rng.Intn(len(free))], nil
}
