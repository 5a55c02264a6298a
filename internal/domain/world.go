package domain

// Cell - одна клетка навигационной сетки.
type Cell struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Footprint - прямоугольник (в клетках), который занимает агент, с якорем в левой верхней клетке.
type Footprint struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// DefaultFootprint - агент размером в одну клетку.
var DefaultFootprint = Footprint{Width: 1, Height: 1}

// Validate сразу падает на вырожденном footprint: это ошибка вызывающего, а не пространственный исход.
func (f Footprint) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return ErrInvalidFootprint
	}
	return nil
}

// Cells перечисляет все клетки, которые footprint покрывает с якорем в c.
func (f Footprint) Cells(c Cell) []Cell {
	if f.Width <= 0 || f.Height <= 0 {
		return nil
	}
	cells := make([]Cell, 0, f.Width*f.Height)
	for dy := 0; dy < f.Height; dy++ {
		for dx := 0; dx < f.Width; dx++ {
			cells = append(cells, Cell{X: c.X + dx, Y: c.Y + dy})
		}
	}
	return cells
}
