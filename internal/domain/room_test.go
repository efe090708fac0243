package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoom_MembershipOrderAndCapacity(t *testing.T) {
	room := NewRoom("123")
	require.True(t, room.Empty())
	require.False(t, room.Full())

	a := NewParticipant("a")
	b := NewParticipant("b")

	room.Add(a)
	require.False(t, room.Empty())
	require.False(t, room.Full())
	require.True(t, room.Has("a"))
	require.False(t, room.Has("b"))

	room.Add(b)
	require.True(t, room.Full())

	// Join order is preserved.
	require.Equal(t, []*Participant{a, b}, room.Members)
}

func TestRoom_Remove(t *testing.T) {
	room := NewRoom("123")
	a := NewParticipant("a")
	b := NewParticipant("b")
	room.Add(a)
	room.Add(b)

	removed := room.Remove("a")
	require.Same(t, a, removed)
	require.Equal(t, []*Participant{b}, room.Members)

	require.Nil(t, room.Remove("a"))

	require.Same(t, b, room.Remove("b"))
	require.True(t, room.Empty())
}
