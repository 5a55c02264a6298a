package spatial

import "math"

// Бюджет кольцевого поиска для FindNearestValidPosition.
const (
	searchRadiusStep = 5.0
	searchAngleStep  = 15
	searchMaxRadius  = 200.0
)

// Room - непрерывная область [0, Width] x [0, Height].
type Room struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

func NewRoom(width, height float64) (Room, error) {
	if !finite(width) || !finite(height) {
		return Room{}, ErrNonFinite
	}
	if width <= 0 || height <= 0 {
		return Room{}, ErrInvalidRoom
	}
	return Room{Width: width, Height: height}, nil
}

func (r Room) Center() Position {
	return Position{X: r.Width / 2, Y: r.Height / 2}
}

// Bounds возвращает комнату как прямоугольник от начала координат.
func (r Room) Bounds() BoundingBox {
	return BoundingBox{Size: Size{Width: r.Width, Height: r.Height}}
}

// InBounds замкнут с обеих сторон, чтобы ClampToBounds всегда попадал внутрь.
func (r Room) InBounds(p Position) bool {
	return p.X >= 0 && p.X <= r.Width && p.Y >= 0 && p.Y <= r.Height
}

// ClampToBounds проецирует p на комнату.
func (r Room) ClampToBounds(p Position) Position {
	return Position{
		X: math.Max(0, math.Min(p.X, r.Width)),
		Y: math.Max(0, math.Min(p.Y, r.Height)),
	}
}

// IsValidPosition - в границах и вне всех прямоугольников препятствий.
func (r Room) IsValidPosition(p Position, obstacles []BoundingBox) bool {
	if !r.InBounds(p) {
		return false
	}
	for _, box := range obstacles {
		if box.Contains(p) {
			return false
		}
	}
	return true
}

// FindNearestValidPosition возвращает target, если он уже допустим. Иначе
// обходит концентрические кольца вокруг target и возвращает первую допустимую точку
// или центр комнаты, когда бюджет поиска исчерпан. Ответ - *какая-то* близкая
// допустимая точка, не обязательно ближайшая.
func (r Room) FindNearestValidPosition(target Position, obstacles []BoundingBox) Position {
	if r.IsValidPosition(target, obstacles) {
		return target
	}
	for radius := searchRadiusStep; radius <= searchMaxRadius; radius += searchRadiusStep {
		for deg := 0; deg < 360; deg += searchAngleStep {
			rad := float64(deg) * math.Pi / 180
			candidate := target.Add(radius*math.Cos(rad), radius*math.Sin(rad))
			if r.IsValidPosition(candidate, obstacles) {
				return candidate
			}
		}
	}
	return r.Center()
}
