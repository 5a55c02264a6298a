package domain

// Размеры старой сетки и комнаты по умолчанию.
const (
	DefaultGridWidth  = 64
	DefaultGridHeight = 16

	DefaultLegacyCellWidth  = 20
	DefaultLegacyCellHeight = 30

	DefaultRoomWidth  = 1920
	DefaultRoomHeight = 480
)
