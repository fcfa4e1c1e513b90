package auth

import (
	"log/slog"
	"sync"
	"time"
)

// EventType тип события сессии.
type EventType string

const (
	EventSignedUp         EventType = "signed_up"
	EventSignedIn         EventType = "signed_in"
	EventSignedOut        EventType = "signed_out"
	EventSessionRefreshed EventType = "session_refreshed"
)

// Event событие жизненного цикла сессии.
type Event struct {
	Type      EventType
	AccountID string
	Email     string
	At        time.Time
}

// Broker рассылает события подписчикам через каналы.
// Публикация не блокируется: если буфер подписчика заполнен, событие для него теряется.
type Broker struct {
	mu     sync.RWMutex
	subs   map[int]chan Event
	nextID int
	closed bool
	log    *slog.Logger
}

// NewBroker создаёт Broker.
func NewBroker(log *slog.Logger) *Broker {
	return &Broker{
		subs: make(map[int]chan Event),
		log:  log,
	}
}

// Subscribe регистрирует подписчика с буфером заданного размера.
// Возвращённая функция отписывает и закрывает канал.
func (b *Broker) Subscribe(buffer int) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
}

// Publish отправляет событие всем подписчикам.
func (b *Broker) Publish(e Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
			b.log.Warn("auth event dropped, subscriber is slow", slog.String("event", string(e.Type)))
		}
	}
}

// Close закрывает все подписки.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
