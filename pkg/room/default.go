package room

import (
	"deskmate-server/internal/domain"
	"deskmate-server/internal/engine"
)

// DefaultLayout - комната на случай, когда layout-файл не задан: рабочий
// угол слева, лаунж посередине, спальня справа.
func DefaultLayout() (engine.Snapshot, error) {
	return NewBuilder(domain.DefaultGridWidth, domain.DefaultGridHeight).
		WithAgent(domain.Cell{X: 32, Y: 12}, domain.FacingDown).
		Place("computer", "computer", domain.Cell{X: 9, Y: 1}).
		Place("desk", "desk", domain.Cell{X: 8, Y: 2}).
		Place("desk_chair", "desk_chair", domain.Cell{X: 10, Y: 4}).
		Place("bookshelf", "bookshelf", domain.Cell{X: 0, Y: 0}).
		Place("rug", "rug", domain.Cell{X: 26, Y: 6}).
		Place("couch", "couch", domain.Cell{X: 28, Y: 3}).
		Place("coffee_table", "coffee_table", domain.Cell{X: 30, Y: 7}).
		Place("lamp", "lamp", domain.Cell{X: 40, Y: 2}).
		Place("bed", "bed", domain.Cell{X: 50, Y: 10}).
		Place("plant", "plant", domain.Cell{X: 60, Y: 1}).
		Build()
}
