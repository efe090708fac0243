package domain

// RoomCapacity is the hard membership limit of every room.
const RoomCapacity = 2

// Room pairs up to two signaling participants under a caller-chosen code.
// The code is opaque: the only constraint the server applies is that it is
// non-empty. Members are kept in join order.
//
// Room carries no lock of its own: all access goes through the room
// service, which guards the whole room map and every membership mutation
// with a single mutex.
type Room struct {
	Code    string
	Members []*Participant
}

func NewRoom(code string) *Room {
	return &Room{
		Code:    code,
		Members: make([]*Participant, 0, RoomCapacity),
	}
}

func (r *Room) Full() bool {
	return len(r.Members) >= RoomCapacity
}

func (r *Room) Empty() bool {
	return len(r.Members) == 0
}

func (r *Room) Has(participantID string) bool {
	for _, m := range r.Members {
		if m.ID == participantID {
			return true
		}
	}
	return false
}

func (r *Room) Add(p *Participant) {
	r.Members = append(r.Members, p)
}

// Remove takes the participant out of the member list and returns it,
// or nil when it was not a member.
func (r *Room) Remove(participantID string) *Participant {
	for i, m := range r.Members {
		if m.ID == participantID {
			r.Members = append(r.Members[:i], r.Members[i+1:]...)
			return m
		}
	}
	return nil
}
