package domain

// RoomObject - предмет в комнате. Движение блокируют только твердые (Solid) объекты.
type RoomObject struct {
	ID    string    `json:"id" yaml:"id"`
	Name  string    `json:"name" yaml:"name"`
	Kind  string    `json:"kind" yaml:"kind"`
	Pos   Cell      `json:"pos" yaml:"pos"`
	Size  Footprint `json:"size" yaml:"size"`
	Solid bool      `json:"solid" yaml:"solid"`
}

// Cells возвращает [x, x+w) x [y, y+h). Вырожденный размер не покрывает ничего.
func (o RoomObject) Cells() []Cell {
	return o.Size.Cells(o.Pos)
}

// Occupies проверяет, лежит ли c внутри прямоугольника объекта.
func (o RoomObject) Occupies(c Cell) bool {
	return c.X >= o.Pos.X && c.X < o.Pos.X+o.Size.Width &&
		c.Y >= o.Pos.Y && c.Y < o.Pos.Y+o.Size.Height
}

// Center возвращает центр объекта в клетках (может быть дробным).
func (o RoomObject) Center() (float64, float64) {
	return float64(o.Pos.X) + float64(o.Size.Width)/2, float64(o.Pos.Y) + float64(o.Size.Height)/2
}
