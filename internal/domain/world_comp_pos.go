package domain

// neighborOffsets - фиксированный порядок обхода: вверх, вправо, вниз, влево.
var neighborOffsets = [4]Cell{
	{X: 0, Y: -1},
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
}

// ManhattanTo возвращает число 4-направленных шагов до другой клетки.
func (c Cell) ManhattanTo(other Cell) int {
	return abs(c.X-other.X) + abs(c.Y-other.Y)
}

// IsAdjacent проверяет, что other ровно в одном 4-направленном шаге.
// Диагональ не считается соседством: агент не ходит по диагонали.
func (c Cell) IsAdjacent(other Cell) bool {
	return c.ManhattanTo(other) == 1
}

// Shift возвращает новую клетку со смещением.
func (c Cell) Shift(dx, dy int) Cell {
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// Neighbors возвращает четырех ортогональных соседей (границы не проверяются).
func (c Cell) Neighbors() [4]Cell {
	var out [4]Cell
	for i, d := range neighborOffsets {
		out[i] = c.Shift(d.X, d.Y)
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
