package spatial

import "math"

// Политика взаимодействия, в пикселях. От размера комнаты не зависит.
const (
	InteractionDistance = 80.0
	NearbyDistance      = 150.0
)

// Distance - евклидово расстояние между двумя точками.
func Distance(a, b Position) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func IsWithinInteractionDistance(a, b Position) bool {
	return Distance(a, b) <= InteractionDistance
}

func IsNearby(a, b Position) bool {
	return Distance(a, b) <= NearbyDistance
}

// Locatable - все, у чего есть пиксельная позиция.
type Locatable interface {
	Location() Position
}

// ObjectsWithinDistance оставляет объекты, чье положение в пределах radius от center.
// Линейный проход: в комнате десятки объектов.
func ObjectsWithinDistance[T Locatable](center Position, objects []T, radius float64) []T {
	var out []T
	for _, obj := range objects {
		if Distance(center, obj.Location()) <= radius {
			out = append(out, obj)
		}
	}
	return out
}
