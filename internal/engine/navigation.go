package engine

import (
	"context"
	"fmt"
	"slices"

	"deskmate-server/internal/domain"
	"deskmate-server/internal/gridconv"
	"deskmate-server/internal/spatial"
	"deskmate-server/internal/systems"
	"deskmate-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// FailureReason объясняет неудачную навигацию. Это бизнес-исходы,
// которые вызывающий показывает пользователю, а не сбои.
type FailureReason string

const (
	ReasonNone          FailureReason = ""
	ReasonOutOfBounds   FailureReason = "out_of_bounds"
	ReasonGoalBlocked   FailureReason = "goal_blocked"
	ReasonNoPath        FailureReason = "no_path"
	ReasonUnknownObject FailureReason = "unknown_object"
)

// ApproachMode выбирает, где встать рядом с объектом.
type ApproachMode string

const (
	ApproachInteract ApproachMode = "interact"
	ApproachSit      ApproachMode = "sit"
)

// NavigateOptions - переключатели на один вызов.
type NavigateOptions struct {
	// ValidatePath=false пропускает поиск и возвращает [start, goal];
	// за столкновения отвечает вызывающий.
	ValidatePath bool
}

// NavigationResult - исход, который вызывающий сохраняет или показывает.
type NavigationResult struct {
	Success   bool          `json:"success"`
	Reason    FailureReason `json:"reason,omitempty"`
	Path      []domain.Cell `json:"path"`
	Facing    domain.Facing `json:"facing"`
	Current   domain.Cell   `json:"current"`
	Target    domain.Cell   `json:"target"`
	Validated bool          `json:"validated"`
	ObjectID  string        `json:"objectId,omitempty"`
	// Версия снапшота, по которому посчитан результат.
	Version uint64 `json:"version"`
}

// Destination - последняя клетка успешного пути.
func (r NavigationResult) Destination() domain.Cell {
	if len(r.Path) == 0 {
		return r.Current
	}
	return r.Path[len(r.Path)-1]
}

// NavigationService связывает pathfinder с хранилищем. Состояния между
// вызовами не держит, каждый метод работает со свежим снапшотом.
type NavigationService struct {
	store      Store
	pathfinder *systems.Pathfinder
	converter  *gridconv.Converter
	log        *logrus.Entry
}

func NewNavigationService(cfg Config, store Store) (*NavigationService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pf, err := systems.NewPathfinder(cfg.Grid.Width, cfg.Grid.Height)
	if err != nil {
		return nil, err
	}
	conv, err := gridconv.NewConverter(cfg.GridLayout())
	if err != nil {
		return nil, err
	}
	return &NavigationService{
		store:      store,
		pathfinder: pf,
		converter:  conv,
		log:        logger.For("navigation"),
	}, nil
}

func (s *NavigationService) Pathfinder() *systems.Pathfinder { return s.pathfinder }
func (s *NavigationService) Converter() *gridconv.Converter  { return s.converter }

// Snapshot читает хранилище и подставляет значения по умолчанию (footprint 1x1, взгляд вниз).
func (s *NavigationService) Snapshot(ctx context.Context) (Snapshot, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	if snap.Footprint == (domain.Footprint{}) {
		snap.Footprint = domain.DefaultFootprint
	}
	if snap.Facing == "" {
		snap.Facing = domain.FacingDown
	}
	return snap, nil
}

// Navigate ведет агента к target. Ошибка возвращается только при сбое
// хранилища и ошибке вызывающего (плохой footprint); недостижимая цель
// возвращается как Success=false с Reason.
func (s *NavigationService) Navigate(ctx context.Context, target domain.Cell, opts NavigateOptions) (NavigationResult, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return NavigationResult{}, err
	}
	return s.NavigateWith(snap, target, opts)
}

// NavigateWith планирует по снапшоту, который уже есть у вызывающего, чтобы
// несколько запросов опирались на одно согласованное чтение.
func (s *NavigationService) NavigateWith(snap Snapshot, target domain.Cell, opts NavigateOptions) (NavigationResult, error) {
	return s.navigate(snap, target, opts, systems.BuildObstacleSet(snap.Objects))
}

func (s *NavigationService) navigate(snap Snapshot, target domain.Cell, opts NavigateOptions, obstacles systems.CellSet) (NavigationResult, error) {
	res := NavigationResult{
		Current:   snap.Agent,
		Target:    target,
		Facing:    snap.Facing,
		Validated: opts.ValidatePath,
		Version:   snap.Version,
	}
	log := s.log.WithFields(logrus.Fields{"from": snap.Agent, "to": target})

	if !opts.ValidatePath {
		res.Success = true
		res.Path = []domain.Cell{snap.Agent, target}
		res.Facing = domain.FacingFromStep(target.X-snap.Agent.X, target.Y-snap.Agent.Y, snap.Facing)
		log.Debug("unvalidated move")
		return res, nil
	}

	if !s.pathfinder.InBounds(snap.Agent) || !s.pathfinder.InBounds(target) {
		res.Reason = ReasonOutOfBounds
		log.Info("navigation rejected: out of bounds")
		return res, nil
	}
	if snap.Agent != target && s.pathfinder.IsBlocked(target, obstacles, snap.Footprint) {
		res.Reason = ReasonGoalBlocked
		log.Info("navigation rejected: goal blocked")
		return res, nil
	}

	path, err := s.pathfinder.FindPath(snap.Agent, target, obstacles, snap.Footprint)
	if err != nil {
		return NavigationResult{}, err
	}
	if len(path) == 0 {
		res.Reason = ReasonNoPath
		log.Info("navigation failed: no path")
		return res, nil
	}

	res.Success = true
	res.Path = path
	res.Facing = domain.FacingFromPath(path, snap.Facing)
	log.WithField("steps", len(path)-1).Info("navigation planned")
	return res, nil
}

// Approach подводит агента к свободной клетке рядом с объектом и поворачивает к нему.
// Для sit сначала пробуются клетки прямо под объектом.
func (s *NavigationService) Approach(ctx context.Context, objectID string, mode ApproachMode) (NavigationResult, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return NavigationResult{}, err
	}
	obj, ok := snap.FindObject(objectID)
	if !ok {
		return NavigationResult{
			Reason:    ReasonUnknownObject,
			Current:   snap.Agent,
			Target:    snap.Agent,
			Facing:    snap.Facing,
			Validated: true,
			ObjectID:  objectID,
			Version:   snap.Version,
		}, nil
	}

	obstacles := systems.BuildObstacleSet(snap.Objects)
	candidates := s.approachCandidates(snap, obj, mode, obstacles)

	log := s.log.WithFields(logrus.Fields{"object": objectID, "mode": mode})
	last := NavigationResult{
		Reason:    ReasonNoPath,
		Current:   snap.Agent,
		Target:    snap.Agent,
		Facing:    snap.Facing,
		Validated: true,
		ObjectID:  objectID,
		Version:   snap.Version,
	}
	for _, cell := range candidates {
		res, err := s.navigate(snap, cell, NavigateOptions{ValidatePath: true}, obstacles)
		if err != nil {
			return NavigationResult{}, err
		}
		if res.Success {
			res.ObjectID = objectID
			res.Facing = systems.FacingToward(cell, snap.Footprint, obj, res.Facing)
			log.WithField("target", cell).Info("approach planned")
			return res, nil
		}
		last = res
		last.ObjectID = objectID
	}
	log.Info("approach failed")
	return last, nil
}

// approachCandidates возвращает свободные клетки в границах вокруг obj, ближайшие к агенту первыми.
func (s *NavigationService) approachCandidates(snap Snapshot, obj domain.RoomObject, mode ApproachMode, obstacles systems.CellSet) []domain.Cell {
	all := systems.ApproachCells(obj, snap.Footprint)
	var below []domain.Cell
	if mode == ApproachSit {
		below = append(below, all[:max(0, min(len(all), obj.Size.Width+snap.Footprint.Width-1))]...)
	}

	free := func(cells []domain.Cell) []domain.Cell {
		var out []domain.Cell
		for _, c := range cells {
			if !s.pathfinder.IsBlocked(c, obstacles, snap.Footprint) {
				out = append(out, c)
			}
		}
		slices.SortStableFunc(out, func(a, b domain.Cell) int {
			return a.ManhattanTo(snap.Agent) - b.ManhattanTo(snap.Agent)
		})
		return out
	}

	candidates := free(below)
	for _, c := range free(all) {
		if !slices.Contains(candidates, c) {
			candidates = append(candidates, c)
		}
	}
	return candidates
}

// Reachable перечисляет клетки, до которых агент дойдет не более чем за maxDistance шагов
// (systems.Unbounded - без ограничения), построчно.
func (s *NavigationService) Reachable(ctx context.Context, maxDistance int) ([]domain.Cell, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.ReachableWith(snap, maxDistance)
}

// ReachableWith - Reachable по снапшоту, который уже есть у вызывающего.
func (s *NavigationService) ReachableWith(snap Snapshot, maxDistance int) ([]domain.Cell, error) {
	set, err := s.pathfinder.Reachable(snap.Agent, systems.BuildObstacleSet(snap.Objects), snap.Footprint, maxDistance)
	if err != nil {
		return nil, err
	}
	return systems.SortedCells(set), nil
}

// NearestFree превращает пиксельную цель в пригодную клетку: точка выводится
// из коробок объектов кольцевым поиском, затем квантуется на сетку.
func (s *NavigationService) NearestFree(ctx context.Context, target spatial.Position) (spatial.Position, domain.Cell, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return spatial.Position{}, domain.Cell{}, err
	}
	layout := s.converter.Layout()
	room := spatial.Room{Width: layout.Room.Size.Width, Height: layout.Room.Size.Height}

	// Кольцевой поиск работает в пикселях относительно комнаты.
	origin := layout.Room.Origin
	local := target.Add(-origin.X, -origin.Y)
	var boxes []spatial.BoundingBox
	for _, obj := range snap.Objects {
		if !obj.Solid {
			continue
		}
		box := s.converter.CellBox(obj.Pos, obj.Size)
		box.Origin = box.Origin.Add(-origin.X, -origin.Y)
		boxes = append(boxes, box)
	}

	found := room.FindNearestValidPosition(local, boxes).Add(origin.X, origin.Y)
	return found, s.converter.ContinuousToGrid(found), nil
}
