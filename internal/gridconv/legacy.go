package gridconv

import (
	"deskmate-server/internal/domain"
	"deskmate-server/internal/spatial"
)

// Совместимость со старыми сохраненными позициями без единиц измерения.
// Новый код должен использовать Coordinate с явным Unit.

// IsLegacyGridCoordinate считает p старой клеткой, если обе компоненты
// целые и лежат в диапазоне сетки. Малые целые пиксельные позиции
// вроде (10, 5) классифицируются неверно; сохраненные данные зависят ровно от этого правила.
func (c *Converter) IsLegacyGridCoordinate(p spatial.Position) bool {
	if !p.IsInteger() {
		return false
	}
	return p.X >= 0 && p.X < float64(c.layout.GridWidth) &&
		p.Y >= 0 && p.Y < float64(c.layout.GridHeight)
}

// NormalizeLegacyPosition переводит p в пиксели, если она похожа на старую клетку,
// иначе возвращает без изменений.
func (c *Converter) NormalizeLegacyPosition(p spatial.Position) spatial.Position {
	if c.IsLegacyGridCoordinate(p) {
		return c.GridToContinuous(domain.Cell{X: int(p.X), Y: int(p.Y)})
	}
	return p
}

// Classify возвращает единицы, которые выбрала бы эвристика для p.
func (c *Converter) Classify(p spatial.Position) Unit {
	if c.IsLegacyGridCoordinate(p) {
		return UnitGrid
	}
	return UnitPixel
}
