// Package spatial - непрерывная (пиксельная) геометрия: позиции, размеры,
// прямоугольники и комната, в которой они живут.
package spatial

import (
	"errors"
	"math"
)

var (
	ErrNonFinite    = errors.New("coordinate must be finite")
	ErrNegativeSize = errors.New("size must be non-negative")
	ErrInvalidRoom  = errors.New("room extents must be positive")
)

// Position - точка в пикселях.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// NewPosition отвергает NaN и бесконечности.
func NewPosition(x, y float64) (Position, error) {
	if !finite(x) || !finite(y) {
		return Position{}, ErrNonFinite
	}
	return Position{X: x, Y: y}, nil
}

// Add возвращает p, сдвинутую на (dx, dy).
func (p Position) Add(dx, dy float64) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// IsInteger проверяет, что обе компоненты целые.
func (p Position) IsInteger() bool {
	return p.X == math.Trunc(p.X) && p.Y == math.Trunc(p.Y)
}

// Size - неотрицательный размер в пикселях.
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

func NewSize(w, h float64) (Size, error) {
	if !finite(w) || !finite(h) {
		return Size{}, ErrNonFinite
	}
	if w < 0 || h < 0 {
		return Size{}, ErrNegativeSize
	}
	return Size{Width: w, Height: h}, nil
}

// BoundingBox - полуоткрытый прямоугольник [Left, Right) x [Top, Bottom).
type BoundingBox struct {
	Origin Position `json:"origin" yaml:"origin"`
	Size   Size     `json:"size" yaml:"size"`
}

func (b BoundingBox) Left() float64   { return b.Origin.X }
func (b BoundingBox) Right() float64  { return b.Origin.X + b.Size.Width }
func (b BoundingBox) Top() float64    { return b.Origin.Y }
func (b BoundingBox) Bottom() float64 { return b.Origin.Y + b.Size.Height }

func (b BoundingBox) Center() Position {
	return Position{X: b.Origin.X + b.Size.Width/2, Y: b.Origin.Y + b.Size.Height/2}
}

// Contains полуоткрыт: точка на Right или Bottom снаружи.
func (b BoundingBox) Contains(p Position) bool {
	return p.X >= b.Left() && p.X < b.Right() && p.Y >= b.Top() && p.Y < b.Bottom()
}

// Overlaps строгий по обеим осям: прямоугольники с общей гранью не пересекаются.
func (b BoundingBox) Overlaps(o BoundingBox) bool {
	return b.Left() < o.Right() && o.Left() < b.Right() &&
		b.Top() < o.Bottom() && o.Top() < b.Bottom()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
