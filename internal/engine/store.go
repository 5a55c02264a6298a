package engine

import (
	"context"

	"deskmate-server/internal/domain"
)

// Snapshot - одно согласованное чтение комнаты: агент и объекты сняты вместе.
type Snapshot struct {
	Agent     domain.Cell         `json:"agent"`
	Facing    domain.Facing       `json:"facing"`
	Footprint domain.Footprint    `json:"footprint"`
	Objects   []domain.RoomObject `json:"objects"`
	Version   uint64              `json:"version"`
}

// FindObject ищет объект по ID.
func (s Snapshot) FindObject(id string) (domain.RoomObject, bool) {
	for _, obj := range s.Objects {
		if obj.ID == id {
			return obj, true
		}
	}
	return domain.RoomObject{}, false
}

// Store - внешний владелец состояния агента и объектов. Навигация
// только читает, сохранять результаты - забота вызывающего.
type Store interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}
