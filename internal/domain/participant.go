package domain

import (
	"sync"
	"time"
)

const eventQueueSize = 16

// Participant is the state of one live transport connection: the identifier
// the transport layer assigned to it, the display name the server picked at
// join time, and the room it currently occupies (empty until a join
// succeeds).
type Participant struct {
	ID          string
	ConnectedAt time.Time

	mu       sync.RWMutex
	username string
	roomID   string
	closed   bool
	events   chan Event
}

func NewParticipant(id string) *Participant {
	return &Participant{
		ID:          id,
		ConnectedAt: time.Now().UTC(),
		events:      make(chan Event, eventQueueSize),
	}
}

func (p *Participant) Username() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.username
}

func (p *Participant) SetUsername(name string) {
	p.mu.Lock()
	p.username = name
	p.mu.Unlock()
}

func (p *Participant) Room() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.roomID
}

func (p *Participant) SetRoom(roomID string) {
	p.mu.Lock()
	p.roomID = roomID
	p.mu.Unlock()
}

// Events is drained by the single writer goroutine of the connection.
func (p *Participant) Events() <-chan Event {
	return p.events
}

// Enqueue delivers an event best-effort: a full queue or an already closed
// participant drops the event silently. Reports whether the event was queued.
func (p *Participant) Enqueue(event Event) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return false
	}

	select {
	case p.events <- event:
		return true
	default:
		return false
	}
}

// Close shuts the event queue down. Safe to call more than once.
func (p *Participant) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	close(p.events)
}
