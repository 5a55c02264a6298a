package storage

import (
	"context"
	"errors"
	"slices"
	"sync"

	"deskmate-server/internal/domain"
	"deskmate-server/internal/engine"
)

var (
	ErrNotApplicable = errors.New("navigation result is not a successful move")
	ErrObjectMissing = errors.New("object not found")
)

// MemoryStore - владелец состояния агента и объектов внутри процесса. Чтения
// отдают копии, так что снапшот остается согласованным, пока писатели работают.
type MemoryStore struct {
	mu   sync.RWMutex
	snap engine.Snapshot
}

func NewMemoryStore(snap engine.Snapshot) *MemoryStore {
	s := &MemoryStore{}
	s.Replace(snap)
	return s
}

// Snapshot реализует engine.Store.
func (s *MemoryStore) Snapshot(ctx context.Context) (engine.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return engine.Snapshot{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked(), nil
}

func (s *MemoryStore) copyLocked() engine.Snapshot {
	out := s.snap
	out.Objects = slices.Clone(s.snap.Objects)
	return out
}

// Replace заменяет все состояние целиком (например, после загрузки layout-файла).
func (s *MemoryStore) Replace(snap engine.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	version := s.snap.Version + 1
	s.snap = snap
	s.snap.Objects = slices.Clone(snap.Objects)
	s.snap.Version = version
}

// ReplaceObjects заменяет мебель, но оставляет живое состояние агента.
func (s *MemoryStore) ReplaceObjects(objects []domain.RoomObject) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Objects = slices.Clone(objects)
	s.snap.Version++
}

// UpsertObject добавляет или двигает один объект и возвращает новое состояние.
func (s *MemoryStore) UpsertObject(obj domain.RoomObject) engine.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.snap.Objects, func(o domain.RoomObject) bool { return o.ID == obj.ID })
	if idx >= 0 {
		s.snap.Objects[idx] = obj
	} else {
		s.snap.Objects = append(s.snap.Objects, obj)
	}
	s.snap.Version++
	return s.copyLocked()
}

func (s *MemoryStore) RemoveObject(id string) (engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.snap.Objects, func(o domain.RoomObject) bool { return o.ID == id })
	if idx < 0 {
		return engine.Snapshot{}, ErrObjectMissing
	}
	s.snap.Objects = slices.Delete(s.snap.Objects, idx, idx+1)
	s.snap.Version++
	return s.copyLocked(), nil
}

// ApplyNavigation сохраняет успешный результат: агент встает на последнюю
// клетку пути и принимает выведенное направление. Результат по старому
// снапшоту все равно применяется, препятствия могли сдвинуться.
func (s *MemoryStore) ApplyNavigation(res engine.NavigationResult) (engine.Snapshot, error) {
	if !res.Success || len(res.Path) == 0 {
		return engine.Snapshot{}, ErrNotApplicable
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Agent = res.Destination()
	s.snap.Facing = res.Facing
	s.snap.Version++
	return s.copyLocked(), nil
}
