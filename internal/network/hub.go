package network

import (
	"sync"

	"deskmate-server/pkg/api"
	"deskmate-server/pkg/logger"
)

const subscriberBuffer = 64

// Broadcaster рассылает события навигации подписчикам (websocket-клиентам,
// тестам). Медленные подписчики теряют события, а не блокируют отправителей.
type Broadcaster struct {
	mu sync.RWMutex
	// ID подписчика -> личный канал
	subscribers map[string]chan api.NavigationEvent
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]chan api.NavigationEvent),
	}
}

// Register создает личный канал для id, закрывая предыдущий, если он был.
func (b *Broadcaster) Register(id string) <-chan api.NavigationEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	if old, ok := b.subscribers[id]; ok {
		close(old)
	}

	ch := make(chan api.NavigationEvent, subscriberBuffer)
	b.subscribers[id] = ch
	return ch
}

// Unregister закрывает и забывает канал id. Неизвестные ID игнорируются.
func (b *Broadcaster) Unregister(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
}

// SendTo доставляет msg одному подписчику (Unicast).
func (b *Broadcaster) SendTo(id string, msg api.NavigationEvent) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ch, ok := b.subscribers[id]
	if !ok {
		return false
	}
	select {
	case ch <- msg:
		return true
	default:
		logger.Log.WithField("subscriber", id).Warn("hub: channel full, event dropped")
		return false
	}
}

// Broadcast доставляет msg всем и возвращает число получивших.
func (b *Broadcaster) Broadcast(msg api.NavigationEvent) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered := 0
	for id, ch := range b.subscribers {
		select {
		case ch <- msg:
			delivered++
		default:
			logger.Log.WithField("subscriber", id).Warn("hub: channel full, event dropped")
		}
	}
	return delivered
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
