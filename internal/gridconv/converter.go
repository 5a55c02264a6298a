// Package gridconv переводит координаты между старой сеткой клеток и
// непрерывными пикселями новых раскладок комнаты.
package gridconv

import (
	"errors"
	"fmt"
	"math"

	"deskmate-server/internal/domain"
	"deskmate-server/internal/spatial"
)

var (
	ErrInvalidLayout  = errors.New("invalid grid layout")
	ErrUnknownUnit    = errors.New("unknown coordinate unit")
	ErrFractionalGrid = errors.New("grid coordinate must be integral")
)

// Layout описывает обе системы координат.
type Layout struct {
	GridWidth        int                 `yaml:"grid_width"`
	GridHeight       int                 `yaml:"grid_height"`
	LegacyCellWidth  float64             `yaml:"legacy_cell_width"`
	LegacyCellHeight float64             `yaml:"legacy_cell_height"`
	Room             spatial.BoundingBox `yaml:"room"`
}

// DefaultLayout: 64x16 старых клеток по 20x30 px на комнате 1920x480 (30x30 px на клетку).
func DefaultLayout() Layout {
	return Layout{
		GridWidth:        domain.DefaultGridWidth,
		GridHeight:       domain.DefaultGridHeight,
		LegacyCellWidth:  domain.DefaultLegacyCellWidth,
		LegacyCellHeight: domain.DefaultLegacyCellHeight,
		Room: spatial.BoundingBox{
			Size: spatial.Size{Width: domain.DefaultRoomWidth, Height: domain.DefaultRoomHeight},
		},
	}
}

func (l Layout) Validate() error {
	if l.GridWidth <= 0 || l.GridHeight <= 0 {
		return fmt.Errorf("%w: grid %dx%d", ErrInvalidLayout, l.GridWidth, l.GridHeight)
	}
	if l.LegacyCellWidth <= 0 || l.LegacyCellHeight <= 0 {
		return fmt.Errorf("%w: legacy cell %vx%v", ErrInvalidLayout, l.LegacyCellWidth, l.LegacyCellHeight)
	}
	if l.Room.Size.Width <= 0 || l.Room.Size.Height <= 0 {
		return fmt.Errorf("%w: room %vx%v", ErrInvalidLayout, l.Room.Size.Width, l.Room.Size.Height)
	}
	return nil
}

// Converter не меняется после создания и безопасен для конкурентного использования.
type Converter struct {
	layout Layout
	// пикселей на клетку по каждой оси: размер старой клетки, умноженный на масштаб комнаты к старой сетке
	cellW, cellH float64
}

func NewConverter(layout Layout) (*Converter, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	scaleX := layout.Room.Size.Width / (float64(layout.GridWidth) * layout.LegacyCellWidth)
	scaleY := layout.Room.Size.Height / (float64(layout.GridHeight) * layout.LegacyCellHeight)
	return &Converter{
		layout: layout,
		cellW:  layout.LegacyCellWidth * scaleX,
		cellH:  layout.LegacyCellHeight * scaleY,
	}, nil
}

func (c *Converter) Layout() Layout { return c.layout }

// CellPixelSize - непрерывный размер одной клетки.
func (c *Converter) CellPixelSize() spatial.Size {
	return spatial.Size{Width: c.cellW, Height: c.cellH}
}

// GridToContinuous возвращает левый верхний пиксель клетки.
func (c *Converter) GridToContinuous(cell domain.Cell) spatial.Position {
	return spatial.Position{
		X: c.layout.Room.Origin.X + float64(cell.X)*c.cellW,
		Y: c.layout.Room.Origin.Y + float64(cell.Y)*c.cellH,
	}
}

// ContinuousToGrid возвращает клетку, содержащую p. Выход за диапазон
// прижимается к краю сетки, а не считается ошибкой.
func (c *Converter) ContinuousToGrid(p spatial.Position) domain.Cell {
	return domain.Cell{
		X: cellIndex(p.X, c.layout.Room.Origin.X, c.cellW, c.layout.GridWidth),
		Y: cellIndex(p.Y, c.layout.Room.Origin.Y, c.cellH, c.layout.GridHeight),
	}
}

// cellIndex выбирает i из [0, n) с line(i) <= v < line(i+1). Линии считаются
// ровно так же, как в GridToContinuous, поэтому начало клетки возвращается
// в свою клетку, а точки чуть ниже линии остаются в нижней клетке.
func cellIndex(v, origin, size float64, n int) int {
	f := math.Floor((v - origin) / size)
	if !(f >= 0) {
		return 0
	}
	if f >= float64(n) {
		return n - 1
	}
	line := func(i int) float64 { return origin + float64(i)*size }
	i := int(f)
	if i > 0 && v < line(i) {
		i--
	} else if v >= line(i+1) {
		i++
	}
	return clampInt(i, 0, n-1)
}

// CellBox - пиксельный прямоугольник, покрытый прямоугольником из клеток.
func (c *Converter) CellBox(origin domain.Cell, size domain.Footprint) spatial.BoundingBox {
	return spatial.BoundingBox{
		Origin: c.GridToContinuous(origin),
		Size:   spatial.Size{Width: float64(size.Width) * c.cellW, Height: float64(size.Height) * c.cellH},
	}
}

// CellCenter - пиксельный центр клетки.
func (c *Converter) CellCenter(cell domain.Cell) spatial.Position {
	return c.GridToContinuous(cell).Add(c.cellW/2, c.cellH/2)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
