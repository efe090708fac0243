package domain

import (
	"encoding/json"

	"github.com/pion/webrtc/v3"
)

type EventType string

// The closed set of websocket events. Every inbound message is dispatched
// through a single switch over these values; anything else is dropped.
const (
	// client -> server
	EventJoinRoom     EventType = "join-room"
	EventLeaveRoom    EventType = "leave-room"
	EventCallUser     EventType = "call-user"
	EventCallAnswer   EventType = "call-answer"
	EventICECandidate EventType = "ice-candidate"

	// server -> client
	EventJoinedRoom       EventType = "joined-room"
	EventRoomFull         EventType = "room-full"
	EventRoomUsers        EventType = "room-users"
	EventUserDisconnected EventType = "user-disconnected"
	EventCallIncoming     EventType = "call-incoming"
	EventCallAnswered     EventType = "call-answered"
)

// Event is the wire envelope for every message in either direction.
type Event struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEvent wraps payload into an envelope of the given type.
func NewEvent(t EventType, payload any) (Event, error) {
	if payload == nil {
		return Event{Type: t}, nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}

	return Event{Type: t, Payload: raw}, nil
}

type JoinRoomPayload struct {
	RoomID string `json:"roomId" validate:"required"`
}

type JoinedRoomPayload struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
	UserID   string `json:"userId"`
}

// RoomUser is one entry of the room-users list. The list is always computed
// relative to its receiver and never contains the receiver itself.
type RoomUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type UserDisconnectedPayload struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

type CallUserPayload struct {
	To    string                     `json:"to" validate:"required"`
	Offer *webrtc.SessionDescription `json:"offer" validate:"required"`
}

type CallIncomingPayload struct {
	From         string                     `json:"from"`
	FromUsername string                     `json:"fromUsername"`
	Offer        *webrtc.SessionDescription `json:"offer"`
}

type CallAnswerPayload struct {
	To     string                     `json:"to" validate:"required"`
	Answer *webrtc.SessionDescription `json:"answer" validate:"required"`
}

type CallAnsweredPayload struct {
	From   string                     `json:"from"`
	Answer *webrtc.SessionDescription `json:"answer"`
}

type ICECandidateInPayload struct {
	To        string                   `json:"to" validate:"required"`
	Candidate *webrtc.ICECandidateInit `json:"candidate" validate:"required"`
}

type ICECandidateOutPayload struct {
	From      string                   `json:"from"`
	Candidate *webrtc.ICECandidateInit `json:"candidate"`
}
