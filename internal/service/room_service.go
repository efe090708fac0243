package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/samber/lo"

	"anoncall/internal/domain"
	"anoncall/internal/registry"
	"anoncall/lib/logger/sl"
)

var (
	ErrRoomFull     = errors.New("room is full")
	ErrRoomNotFound = errors.New("room not found")
	ErrEmptyRoomID  = errors.New("room id is empty")
)

// RoomService owns the set of active rooms and applies every membership
// rule against the connection registry. The room map and all membership
// mutations are guarded by one mutex so that concurrent joins cannot both
// observe a half-full room; critical sections are short in-memory sequences,
// all event delivery happens after unlock.
type RoomService struct {
	registry *registry.Registry
	log      *slog.Logger

	mu    sync.Mutex
	rooms map[string]*domain.Room
}

func NewRoomService(reg *registry.Registry, log *slog.Logger) *RoomService {
	if log == nil {
		log = slog.Default()
	}
	return &RoomService{
		registry: reg,
		log:      log,
		rooms:    make(map[string]*domain.Room),
	}
}

// Join puts the connection into the room, creating the room lazily on first
// use. A full room rejects the joiner with ErrRoomFull and stays untouched.
// A participant that is already in a different room leaves it first, with
// the usual departure notifications to whoever stayed behind.
//
// On success the joiner gets a joined-room event and every member of the
// room (joiner included) gets a fresh room-users view.
func (s *RoomService) Join(ctx context.Context, connID, roomID string) (*domain.JoinedRoomPayload, error) {
	const op = "service.room.join"

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if roomID == "" {
		return nil, ErrEmptyRoomID
	}

	log := s.log.With(
		slog.String("op", op),
		slog.String("room_id", roomID),
		slog.String("conn_id", connID),
	)

	p, ok := s.registry.Lookup(connID)
	if !ok {
		return nil, registry.ErrParticipantNotFound
	}

	s.mu.Lock()

	room, exists := s.rooms[roomID]
	if exists && room.Has(connID) {
		// Rejoining the current room is a no-op success.
		members := snapshot(room)
		s.mu.Unlock()

		s.broadcastMembers(members)
		return &domain.JoinedRoomPayload{
			RoomID:   roomID,
			Username: p.Username(),
			UserID:   connID,
		}, nil
	}

	if exists && room.Full() {
		s.mu.Unlock()

		log.Info("join rejected, room at capacity")
		return nil, ErrRoomFull
	}

	// Switching rooms performs an implicit leave first. This runs only
	// after the capacity check: a rejected join must leave the requester's
	// prior membership untouched.
	var departed *departure
	if p.Room() != "" {
		departed = s.removeFromRoomLocked(p)
	}

	if !exists {
		room = domain.NewRoom(roomID)
		s.rooms[roomID] = room
	}

	username := p.Username()
	if username == "" {
		name, err := s.registry.AssignName(connID)
		if err != nil {
			if room.Empty() {
				delete(s.rooms, roomID)
			}
			s.mu.Unlock()

			if departed != nil {
				s.notifyDeparture(departed)
			}
			return nil, err
		}
		username = name
	}

	room.Add(p)
	p.SetRoom(roomID)

	members := snapshot(room)
	s.mu.Unlock()

	if departed != nil {
		s.notifyDeparture(departed)
	}

	joined := &domain.JoinedRoomPayload{
		RoomID:   roomID,
		Username: username,
		UserID:   connID,
	}

	if event, err := domain.NewEvent(domain.EventJoinedRoom, joined); err == nil {
		p.Enqueue(event)
	} else {
		log.Error("failed to encode joined-room event", sl.Err(err))
	}

	s.broadcastMembers(members)

	log.Info("participant joined", slog.String("username", username))
	return joined, nil
}

// Leave takes the connection out of its current room, notifies the
// remaining member and garbage-collects the room when it empties. A
// connection that is in no room is a no-op, which also makes duplicate
// leave/disconnect events harmless.
func (s *RoomService) Leave(ctx context.Context, connID string) error {
	const op = "service.room.leave"

	if err := ctx.Err(); err != nil {
		return err
	}

	p, ok := s.registry.Lookup(connID)
	if !ok {
		return nil
	}

	s.mu.Lock()
	departed := s.removeFromRoomLocked(p)
	s.mu.Unlock()

	if departed == nil {
		return nil
	}

	s.notifyDeparture(departed)

	s.log.Info("participant left room",
		slog.String("op", op),
		slog.String("room_id", departed.roomID),
		slog.String("conn_id", connID),
	)
	return nil
}

// Disconnect runs the full teardown for a closed connection: leave the
// room, then drop the registry entry. Idempotent.
func (s *RoomService) Disconnect(ctx context.Context, connID string) error {
	const op = "service.room.disconnect"

	if err := s.Leave(ctx, connID); err != nil {
		return err
	}

	if _, ok := s.registry.Remove(connID); ok {
		s.log.Info("connection removed",
			slog.String("op", op),
			slog.String("conn_id", connID),
		)
	}
	return nil
}

// Members returns the full membership of the room, in join order.
func (s *RoomService) Members(ctx context.Context, roomID string) ([]domain.RoomUser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	room, ok := s.rooms[roomID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrRoomNotFound
	}
	members := snapshot(room)
	s.mu.Unlock()

	return lo.Map(members, func(m *domain.Participant, _ int) domain.RoomUser {
		return domain.RoomUser{ID: m.ID, Username: m.Username()}
	}), nil
}

// departure captures everything notifyDeparture needs after the lock is
// released.
type departure struct {
	roomID    string
	userID    string
	username  string
	remaining []*domain.Participant
}

// removeFromRoomLocked unlinks the participant from its room and clears the
// room pointer, both inside the caller-held lock so the registry and the
// member list never disagree. Empty rooms are deleted on the spot.
func (s *RoomService) removeFromRoomLocked(p *domain.Participant) *departure {
	roomID := p.Room()
	if roomID == "" {
		return nil
	}

	p.SetRoom("")

	room, ok := s.rooms[roomID]
	if !ok {
		return nil
	}

	if room.Remove(p.ID) == nil {
		return nil
	}

	if room.Empty() {
		delete(s.rooms, roomID)
		s.log.Info("room deleted", slog.String("room_id", roomID))
	}

	return &departure{
		roomID:    roomID,
		userID:    p.ID,
		username:  p.Username(),
		remaining: snapshot(room),
	}
}

// notifyDeparture tells whoever stayed behind that the peer is gone, then
// refreshes their membership view.
func (s *RoomService) notifyDeparture(d *departure) {
	gone, err := domain.NewEvent(domain.EventUserDisconnected, domain.UserDisconnectedPayload{
		UserID:   d.userID,
		Username: d.username,
	})
	if err != nil {
		s.log.Error("failed to encode user-disconnected event", sl.Err(err))
		return
	}

	for _, member := range d.remaining {
		member.Enqueue(gone)
	}

	s.broadcastMembers(d.remaining)
}

// broadcastMembers sends each member its own view of the room: every other
// member, never itself.
func (s *RoomService) broadcastMembers(members []*domain.Participant) {
	for _, member := range members {
		others := lo.Filter(members, func(m *domain.Participant, _ int) bool {
			return m.ID != member.ID
		})
		view := lo.Map(others, func(m *domain.Participant, _ int) domain.RoomUser {
			return domain.RoomUser{ID: m.ID, Username: m.Username()}
		})

		event, err := domain.NewEvent(domain.EventRoomUsers, view)
		if err != nil {
			s.log.Error("failed to encode room-users event", sl.Err(err))
			continue
		}

		if !member.Enqueue(event) {
			s.log.Debug("dropping room-users event", slog.String("conn_id", member.ID))
		}
	}
}

func snapshot(room *domain.Room) []*domain.Participant {
	members := make([]*domain.Participant, len(room.Members))
	copy(members, room.Members)
	return members
}
