package registry

import (
	"errors"
	"sync"

	"anoncall/internal/domain"
)

var ErrParticipantNotFound = errors.New("participant not found")

// Registry maps live connection identifiers to participant state. It is the
// single source of truth for "which connections exist right now"; rooms hold
// pointers into it but never outlive its entries.
type Registry struct {
	mu           sync.RWMutex
	participants map[string]*domain.Participant
}

func New() *Registry {
	return &Registry{
		participants: make(map[string]*domain.Participant),
	}
}

// Register allocates participant state for a fresh connection. The
// transport layer guarantees identifier uniqueness, so an existing entry is
// simply returned as-is.
func (r *Registry) Register(connID string) *domain.Participant {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.participants[connID]; ok {
		return p
	}

	p := domain.NewParticipant(connID)
	r.participants[connID] = p
	return p
}

// AssignName generates and stores a display name for the connection.
func (r *Registry) AssignName(connID string) (string, error) {
	r.mu.RLock()
	p, ok := r.participants[connID]
	r.mu.RUnlock()

	if !ok {
		return "", ErrParticipantNotFound
	}

	name := RandomName()
	p.SetUsername(name)
	return name, nil
}

// SetRoom updates the participant's room pointer; an empty roomID clears it.
// Callers must keep this in lockstep with room membership changes.
func (r *Registry) SetRoom(connID, roomID string) error {
	r.mu.RLock()
	p, ok := r.participants[connID]
	r.mu.RUnlock()

	if !ok {
		return ErrParticipantNotFound
	}

	p.SetRoom(roomID)
	return nil
}

// Remove deletes the participant and closes its event queue. It returns the
// room the participant last occupied so the caller can clean it up.
// Removing an unknown connection is a no-op with ok=false.
func (r *Registry) Remove(connID string) (lastRoom string, ok bool) {
	r.mu.Lock()
	p, exists := r.participants[connID]
	delete(r.participants, connID)
	r.mu.Unlock()

	if !exists {
		return "", false
	}

	lastRoom = p.Room()
	p.Close()
	return lastRoom, true
}

func (r *Registry) Lookup(connID string) (*domain.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.participants[connID]
	return p, ok
}

// Len reports the number of live connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.participants)
}
