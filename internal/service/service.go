package service

import (
	"context"

	"anoncall/internal/domain"
)

type RoomInteractor interface {
	Join(ctx context.Context, connID, roomID string) (*domain.JoinedRoomPayload, error)
	Leave(ctx context.Context, connID string) error
	Disconnect(ctx context.Context, connID string) error
	Members(ctx context.Context, roomID string) ([]domain.RoomUser, error)
}

type RelayInteractor interface {
	Offer(ctx context.Context, senderID string, msg domain.CallUserPayload) error
	Answer(ctx context.Context, senderID string, msg domain.CallAnswerPayload) error
	Candidate(ctx context.Context, senderID string, msg domain.ICECandidateInPayload) error
}
