// Package session owns the transient identity state: issued token pairs,
// refresh-token revocation, and the change-event bus the auth orchestrator
// subscribes to.
package session

import (
	"log"
	"sync"

	"internmatch/internal/domain/identity"
)

type EventKind string

const (
	EventSignedIn       EventKind = "SIGNED_IN"
	EventTokenRefreshed EventKind = "TOKEN_REFRESHED"
	EventUserUpdated    EventKind = "USER_UPDATED"
	EventSignedOut      EventKind = "SIGNED_OUT"
)

type Event struct {
	Kind    EventKind
	Session identity.Session
}

// Events is an in-process fan-out bus for session lifecycle changes.
// Subscribers get a buffered channel and an unsubscribe func; publishes
// never block, a full subscriber buffer drops the event with a log line.
type Events struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
	logger *log.Logger
}

func NewEvents(logger *log.Logger) *Events {
	if logger == nil {
		logger = log.Default()
	}
	return &Events{subs: make(map[int]chan Event), logger: logger}
}

func (e *Events) Subscribe() (<-chan Event, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextID
	e.nextID++
	ch := make(chan Event, 16)
	e.subs[id] = ch

	return ch, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if c, ok := e.subs[id]; ok {
			delete(e.subs, id)
			close(c)
		}
	}
}

func (e *Events) Publish(ev Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, ch := range e.subs {
		select {
		case ch <- ev:
		default:
			e.logger.Printf("session event dropped | kind=%s reason=subscriber_buffer_full", ev.Kind)
		}
	}
}
