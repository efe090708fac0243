package converter

import "anoncall/internal/domain"

type RoomResponse struct {
	Code    string           `json:"code"`
	Members []MemberResponse `json:"members"`
}

type MemberResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func RoomToApi(code string, members []domain.RoomUser) *RoomResponse {
	out := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, MemberResponse{
			ID:       m.ID,
			Username: m.Username,
		})
	}

	return &RoomResponse{
		Code:    code,
		Members: out,
	}
}
