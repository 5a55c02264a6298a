package systems

import (
	"cmp"
	"slices"

	"deskmate-server/internal/domain"

	"github.com/zyedidia/generic/mapset"
)

// CellSet - неупорядоченное множество клеток (препятствия, посещенные, достижимые).
type CellSet = mapset.Set[domain.Cell]

// NewCellSet строит множество из переданных клеток.
func NewCellSet(cells ...domain.Cell) CellSet {
	return mapset.Of(cells...)
}

// BuildObstacleSet собирает все клетки, покрытые твердыми объектами.
// Декорации и проходимые объекты ничего не добавляют.
func BuildObstacleSet(objects []domain.RoomObject) CellSet {
	return BuildObstacleSetExcluding(objects)
}

// BuildObstacleSetExcluding - BuildObstacleSet без объектов с перечисленными ID,
// например сиденья, которым ассистент собирается воспользоваться.
func BuildObstacleSetExcluding(objects []domain.RoomObject, skipIDs ...string) CellSet {
	set := mapset.New[domain.Cell]()
	for _, obj := range objects {
		if !obj.Solid || slices.Contains(skipIDs, obj.ID) {
			continue
		}
		for _, c := range obj.Cells() {
			set.Put(c)
		}
	}
	return set
}

// SortedCells разворачивает множество построчно для стабильного вывода.
func SortedCells(set CellSet) []domain.Cell {
	cells := make([]domain.Cell, 0, set.Size())
	set.Each(func(c domain.Cell) {
		cells = append(cells, c)
	})
	slices.SortFunc(cells, func(a, b domain.Cell) int {
		if a.Y != b.Y {
			return cmp.Compare(a.Y, b.Y)
		}
		return cmp.Compare(a.X, b.X)
	})
	return cells
}
