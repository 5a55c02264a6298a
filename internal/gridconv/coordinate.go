package gridconv

import (
	"fmt"

	"deskmate-server/internal/domain"
	"deskmate-server/internal/spatial"
)

// Unit помечает координату, чтобы вызывающему не приходилось угадывать представление.
type Unit string

const (
	UnitGrid  Unit = "grid"
	UnitPixel Unit = "pixel"
)

// Coordinate - явно помеченная точка.
type Coordinate struct {
	Unit Unit    `json:"unit" yaml:"unit"`
	X    float64 `json:"x" yaml:"x"`
	Y    float64 `json:"y" yaml:"y"`
}

func GridCoordinate(c domain.Cell) Coordinate {
	return Coordinate{Unit: UnitGrid, X: float64(c.X), Y: float64(c.Y)}
}

func PixelCoordinate(p spatial.Position) Coordinate {
	return Coordinate{Unit: UnitPixel, X: p.X, Y: p.Y}
}

// ToCell переводит coord в клетку сетки. Сеточный ввод возвращается как есть (может быть
// за границами, границы - забота pathfinder'а), пиксельный квантуется.
func (c *Converter) ToCell(coord Coordinate) (domain.Cell, error) {
	p, err := spatial.NewPosition(coord.X, coord.Y)
	if err != nil {
		return domain.Cell{}, err
	}
	switch coord.Unit {
	case UnitGrid:
		if !p.IsInteger() {
			return domain.Cell{}, fmt.Errorf("%w: (%v, %v)", ErrFractionalGrid, coord.X, coord.Y)
		}
		return domain.Cell{X: int(p.X), Y: int(p.Y)}, nil
	case UnitPixel:
		return c.ContinuousToGrid(p), nil
	}
	return domain.Cell{}, fmt.Errorf("%w: %q", ErrUnknownUnit, coord.Unit)
}

// ToPosition переводит coord в пиксели.
func (c *Converter) ToPosition(coord Coordinate) (spatial.Position, error) {
	p, err := spatial.NewPosition(coord.X, coord.Y)
	if err != nil {
		return spatial.Position{}, err
	}
	switch coord.Unit {
	case UnitPixel:
		return p, nil
	case UnitGrid:
		if !p.IsInteger() {
			return spatial.Position{}, fmt.Errorf("%w: (%v, %v)", ErrFractionalGrid, coord.X, coord.Y)
		}
		return c.GridToContinuous(domain.Cell{X: int(p.X), Y: int(p.Y)}), nil
	}
	return spatial.Position{}, fmt.Errorf("%w: %q", ErrUnknownUnit, coord.Unit)
}
