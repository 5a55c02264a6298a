package network

import (
	"fmt"

	"deskmate-server/internal/engine"
	"deskmate-server/pkg/api"
	"deskmate-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Applier сохраняет успешную навигацию и возвращает новое состояние.
type Applier interface {
	ApplyNavigation(res engine.NavigationResult) (engine.Snapshot, error)
}

// Publisher - сторона вызывающего: применяет успешные результаты
// к хранилищу и сообщает о перемещении всем подписчикам.
type Publisher struct {
	hub   *Broadcaster
	store Applier
	log   *logrus.Entry
}

func NewPublisher(hub *Broadcaster, store Applier) *Publisher {
	return &Publisher{hub: hub, store: store, log: logger.For("publisher")}
}

func (p *Publisher) Hub() *Broadcaster { return p.hub }

// Commit применяет res, если он успешен, и рассылает его. Неудачные результаты
// возвращаются как есть и до подписчиков не доходят.
func (p *Publisher) Commit(res engine.NavigationResult, source string) (*api.NavigationResponse, error) {
	if !res.Success {
		return NavigationView(res, false), nil
	}

	snap, err := p.store.ApplyNavigation(res)
	if err != nil {
		return nil, fmt.Errorf("apply navigation: %w", err)
	}
	view := NavigationView(res, true)
	view.Version = snap.Version

	ev := NewEvent(api.EventNavigation, source)
	ev.Navigation = view
	delivered := p.hub.Broadcast(ev)

	p.log.WithFields(logrus.Fields{
		"source":      source,
		"destination": res.Destination(),
		"version":     snap.Version,
		"subscribers": delivered,
	}).Debug("navigation committed")
	return view, nil
}
