package manager

import (
	"snake-engine/game/entity"
	"snake-engine/game/types"
)

// Sampler is the source of uniform integers in [0, n). *rand.Rand from golang.org/x/exp/rand satisfies it.
type Sampler interface {
	Intn(n int) int
}

type FoodManager struct {
	grid         types.Grid
	rng          Sampler
	collisionMgr *CollisionManager
}

func NewFoodManager(grid types.Grid, rng Sampler, collisionMgr *CollisionManager) *FoodManager {
	return &FoodManager{
		grid:         grid,
		rng:          rng,
		collisionMgr: collisionMgr,
	}
}

// GenerateFood samples uniformly random cells until one is not covered by the snake.
// It does not return if the snake fills the whole grid.
func (fm *FoodManager) GenerateFood(snake *entity.Snake) types.Cell {
	for {
		food := types.Cell{
			Row: fm.rng.Intn(fm.grid.Rows),
			Col: fm.rng.Intn(fm.grid.Columns),
		}

		if fm.collisionMgr.ValidateSpawnPosition(food, snake) {
			return food
		}
	}
}
