package systems

import (
	"deskmate-server/internal/domain"

	"github.com/zyedidia/generic/mapset"
)

// Unbounded отключает ограничение шагов в Reachable.
const Unbounded = -1

// Reachable заливает область от start и возвращает все свободные клетки, связанные с ней
// не более чем maxDistance 4-направленными шагами (без ограничения при maxDistance < 0).
// Заблокированный или внешний start дает пустое множество.
func (p *Pathfinder) Reachable(start domain.Cell, obstacles CellSet, fp domain.Footprint, maxDistance int) (CellSet, error) {
	if err := fp.Validate(); err != nil {
		return CellSet{}, err
	}

	type item struct {
		cell  domain.Cell
		steps int
	}

	reachable := mapset.New[domain.Cell]()
	visited := mapset.New[domain.Cell]()
	queue := []item{{cell: start}}
	visited.Put(start)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if p.IsBlocked(current.cell, obstacles, fp) {
			continue
		}
		reachable.Put(current.cell)

		if maxDistance >= 0 && current.steps >= maxDistance {
			continue
		}
		for _, next := range current.cell.Neighbors() {
			if visited.Has(next) {
				continue
			}
			visited.Put(next)
			queue = append(queue, item{cell: next, steps: current.steps + 1})
		}
	}
	return reachable, nil
}
