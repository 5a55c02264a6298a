package agent

import (
	"context"
	"math/rand"
	"time"

	"deskmate-server/internal/domain"
	"deskmate-server/internal/engine"
	"deskmate-server/internal/network"
	"deskmate-server/pkg/logger"
	"deskmate-server/pkg/utils"

	"github.com/sirupsen/logrus"
)

const sourceWander = "wander"

// Wanderer занимает ассистента, пока он простаивает: на каждом тике выбирает
// случайную достижимую клетку не дальше MaxDistance шагов и идет туда.
//
// Ходит через тот же NavigationService и Publisher, что и внешние клиенты,
// поэтому websocket-клиенты видят эти перемещения как любые другие.
type Wanderer struct {
	nav         *engine.NavigationService
	pub         *network.Publisher
	interval    time.Duration
	maxDistance int
	rng         *rand.Rand
	log         *logrus.Entry
}

func NewWanderer(nav *engine.NavigationService, pub *network.Publisher, cfg engine.WanderConfig) *Wanderer {
	return &Wanderer{
		nav:         nav,
		pub:         pub,
		interval:    cfg.Interval,
		maxDistance: cfg.MaxDistance,
		rng:         utils.NewRand(cfg.Seed),
		log:         logger.For("wanderer"),
	}
}

// Run тикает, пока ctx не завершится. Нулевой интервал отключает блуждание.
func (w *Wanderer) Run(ctx context.Context) error {
	if w.interval <= 0 {
		w.log.Info("wandering disabled")
		return nil
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := w.Step(ctx); err != nil {
				// Сбой хранилища не должен ронять сервер, пробуем на следующем тике.
				w.log.WithError(err).Warn("wander step failed")
			}
		}
	}
}

// Step делает один шаг блуждания и сообщает, сдвинулся ли агент.
// Кандидаты, текущая клетка и план берутся из одного снапшота.
func (w *Wanderer) Step(ctx context.Context) (bool, error) {
	snap, err := w.nav.Snapshot(ctx)
	if err != nil {
		return false, err
	}
	cells, err := w.nav.ReachableWith(snap, w.maxDistance)
	if err != nil {
		return false, err
	}
	target, ok := w.pick(snap.Agent, cells)
	if !ok {
		w.log.Debug("nowhere to wander")
		return false, nil
	}

	res, err := w.nav.NavigateWith(snap, target, engine.NavigateOptions{ValidatePath: true})
	if err != nil {
		return false, err
	}
	view, err := w.pub.Commit(res, sourceWander)
	if err != nil {
		return false, err
	}
	w.log.WithFields(logrus.Fields{"target": target, "success": view.Success}).Debug("wander step")
	return view.Applied, nil
}

// pick выбирает достижимую клетку, отличную от текущей.
func (w *Wanderer) pick(current domain.Cell, cells []domain.Cell) (domain.Cell, bool) {
	candidates := make([]domain.Cell, 0, len(cells))
	for _, c := range cells {
		if c != current {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return domain.Cell{}, false
	}
	return candidates[w.rng.Intn(len(candidates))], true
}
