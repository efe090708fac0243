package http

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pion/webrtc/v3"
	"github.com/stretchr/testify/require"

	"anoncall/internal/domain"
	"anoncall/internal/registry"
	"anoncall/internal/service"
)

func newControllerFixture(t *testing.T) (*SignalController, *registry.Registry) {
	t.Helper()
	reg := registry.New()
	rooms := service.NewRoomService(reg, nil)
	relay := service.NewRelayService(reg, nil)
	return NewSignalController(reg, rooms, relay, nil), reg
}

func drainEvents(p *domain.Participant) []domain.Event {
	var events []domain.Event
	for {
		select {
		case e, ok := <-p.Events():
			if !ok {
				return events
			}
			events = append(events, e)
		default:
			return events
		}
	}
}

func event(t *testing.T, eventType domain.EventType, payload any) domain.Event {
	t.Helper()
	e, err := domain.NewEvent(eventType, payload)
	require.NoError(t, err)
	return e
}

func TestDispatch_JoinRoom(t *testing.T) {
	c, reg := newControllerFixture(t)
	ctx := context.Background()

	a := reg.Register("a")

	c.dispatch(ctx, "a", a, event(t, domain.EventJoinRoom, domain.JoinRoomPayload{RoomID: "123"}))

	events := drainEvents(a)
	require.Len(t, events, 2)
	require.Equal(t, domain.EventJoinedRoom, events[0].Type)
	require.Equal(t, domain.EventRoomUsers, events[1].Type)
	require.Equal(t, "123", a.Room())
}

func TestDispatch_RoomFullSignaledToRequesterOnly(t *testing.T) {
	c, reg := newControllerFixture(t)
	ctx := context.Background()

	a := reg.Register("a")
	b := reg.Register("b")
	x := reg.Register("x")

	join := event(t, domain.EventJoinRoom, domain.JoinRoomPayload{RoomID: "123"})
	c.dispatch(ctx, "a", a, join)
	c.dispatch(ctx, "b", b, join)
	drainEvents(a)
	drainEvents(b)

	c.dispatch(ctx, "x", x, join)

	events := drainEvents(x)
	require.Len(t, events, 1)
	require.Equal(t, domain.EventRoomFull, events[0].Type)
	require.Empty(t, events[0].Payload)

	require.Empty(t, drainEvents(a))
	require.Empty(t, drainEvents(b))
}

func TestDispatch_LeaveRoom(t *testing.T) {
	c, reg := newControllerFixture(t)
	ctx := context.Background()

	a := reg.Register("a")
	b := reg.Register("b")

	join := event(t, domain.EventJoinRoom, domain.JoinRoomPayload{RoomID: "123"})
	c.dispatch(ctx, "a", a, join)
	c.dispatch(ctx, "b", b, join)
	drainEvents(a)
	drainEvents(b)

	c.dispatch(ctx, "b", b, domain.Event{Type: domain.EventLeaveRoom})

	events := drainEvents(a)
	require.Len(t, events, 2)
	require.Equal(t, domain.EventUserDisconnected, events[0].Type)
	require.Equal(t, domain.EventRoomUsers, events[1].Type)
	require.Empty(t, b.Room())
}

func TestDispatch_RelayFlow(t *testing.T) {
	c, reg := newControllerFixture(t)
	ctx := context.Background()

	a := reg.Register("a")
	b := reg.Register("b")

	join := event(t, domain.EventJoinRoom, domain.JoinRoomPayload{RoomID: "123"})
	c.dispatch(ctx, "a", a, join)
	c.dispatch(ctx, "b", b, join)
	drainEvents(a)
	drainEvents(b)

	offer := &webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: "v=0\r\n"}
	c.dispatch(ctx, "a", a, event(t, domain.EventCallUser, domain.CallUserPayload{To: "b", Offer: offer}))

	events := drainEvents(b)
	require.Len(t, events, 1)
	require.Equal(t, domain.EventCallIncoming, events[0].Type)

	answer := &webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer, SDP: "v=0\r\n"}
	c.dispatch(ctx, "b", b, event(t, domain.EventCallAnswer, domain.CallAnswerPayload{To: "a", Answer: answer}))

	events = drainEvents(a)
	require.Len(t, events, 1)
	require.Equal(t, domain.EventCallAnswered, events[0].Type)

	candidate := &webrtc.ICECandidateInit{Candidate: "candidate:1"}
	c.dispatch(ctx, "b", b, event(t, domain.EventICECandidate, domain.ICECandidateInPayload{To: "a", Candidate: candidate}))

	events = drainEvents(a)
	require.Len(t, events, 1)
	require.Equal(t, domain.EventICECandidate, events[0].Type)
}

func TestDispatch_MalformedPayloadIsDropped(t *testing.T) {
	c, reg := newControllerFixture(t)
	ctx := context.Background()

	a := reg.Register("a")

	for _, raw := range []json.RawMessage{
		nil,
		json.RawMessage(`"nope"`),
		json.RawMessage(`{"roomId": 5}`),
		json.RawMessage(`{`),
	} {
		c.dispatch(ctx, "a", a, domain.Event{Type: domain.EventJoinRoom, Payload: raw})
	}

	require.Empty(t, drainEvents(a))
	require.Empty(t, a.Room())
}

func TestDispatch_MissingFieldsAreDropped(t *testing.T) {
	c, reg := newControllerFixture(t)
	ctx := context.Background()

	a := reg.Register("a")
	b := reg.Register("b")

	// Offer without a target, candidate without a candidate: both fail
	// validation and reach nobody.
	c.dispatch(ctx, "a", a, domain.Event{
		Type:    domain.EventCallUser,
		Payload: json.RawMessage(`{"offer": {"type": "offer", "sdp": "v=0"}}`),
	})
	c.dispatch(ctx, "a", a, domain.Event{
		Type:    domain.EventICECandidate,
		Payload: json.RawMessage(`{"to": "b"}`),
	})

	require.Empty(t, drainEvents(a))
	require.Empty(t, drainEvents(b))
}

func TestDispatch_UnknownTypeIsDropped(t *testing.T) {
	c, reg := newControllerFixture(t)
	ctx := context.Background()

	a := reg.Register("a")

	c.dispatch(ctx, "a", a, domain.Event{Type: "mystery", Payload: json.RawMessage(`{}`)})

	require.Empty(t, drainEvents(a))
}
