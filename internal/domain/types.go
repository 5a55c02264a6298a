package domain

import "errors"

// Типы объектов
const (
	ObjectKindFurniture  = "furniture"
	ObjectKindSeat       = "seat"
	ObjectKindDecoration = "decoration"
	ObjectKindDevice     = "device"
)

// Facing - куда смотрит ассистент после перемещения.
type Facing string

const (
	FacingUp    Facing = "up"
	FacingDown  Facing = "down"
	FacingLeft  Facing = "left"
	FacingRight Facing = "right"
)

var (
	ErrInvalidFootprint = errors.New("footprint must be at least 1x1")
	ErrUnknownFacing    = errors.New("unknown facing")
)

// ParseFacing превращает сохраненную строку в Facing. Пустая строка означает "down".
func ParseFacing(s string) (Facing, error) {
	switch Facing(s) {
	case FacingUp, FacingDown, FacingLeft, FacingRight:
		return Facing(s), nil
	case "":
		return FacingDown, nil
	}
	return "", ErrUnknownFacing
}

// FacingFromStep выводит направление из смещения:
// горизонталь побеждает только при строгом перевесе.
// Нулевое смещение оставляет fallback.
func FacingFromStep(dx, dy int, fallback Facing) Facing {
	return FacingFromDelta(float64(dx), float64(dy), fallback)
}

// FacingFromDelta - FacingFromStep для дробных смещений (например, к центру объекта).
func FacingFromDelta(dx, dy float64, fallback Facing) Facing {
	if dx == 0 && dy == 0 {
		return fallback
	}
	adx, ady := dx, dy
	if adx < 0 {
		adx = -adx
	}
	if ady < 0 {
		ady = -ady
	}
	if adx > ady {
		if dx > 0 {
			return FacingRight
		}
		return FacingLeft
	}
	if dy > 0 {
		return FacingDown
	}
	return FacingUp
}

// FacingFromPath берет первый шаг пути.
func FacingFromPath(path []Cell, fallback Facing) Facing {
	if len(path) < 2 {
		return fallback
	}
	return FacingFromStep(path[1].X-path[0].X, path[1].Y-path[0].Y, fallback)
}
