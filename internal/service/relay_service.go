package service

import (
	"context"
	"log/slog"

	"anoncall/internal/domain"
	"anoncall/internal/registry"
	"anoncall/lib/logger/sl"
)

// unknownSender is what the receiving side sees when the offering
// connection vanished between sending and delivery.
const unknownSender = "Unknown"

// RelayService forwards offer/answer/candidate messages to the connection
// named in their "to" field, untouched. Delivery is fire-and-forget: a
// target that already disconnected is a race, not an error, and the message
// is dropped silently.
//
// The relay does not check that sender and target share a room; it trusts
// the client to address only its room-mate, the same way the rest of the
// protocol trusts unauthenticated clients.
type RelayService struct {
	registry *registry.Registry
	log      *slog.Logger
}

func NewRelayService(reg *registry.Registry, log *slog.Logger) *RelayService {
	if log == nil {
		log = slog.Default()
	}
	return &RelayService{registry: reg, log: log}
}

// Offer delivers a negotiation offer as call-incoming, enriched with the
// sender's display name so the callee can show who is calling.
func (s *RelayService) Offer(ctx context.Context, senderID string, msg domain.CallUserPayload) error {
	const op = "service.relay.offer"

	if err := ctx.Err(); err != nil {
		return err
	}

	fromUsername := unknownSender
	if sender, ok := s.registry.Lookup(senderID); ok && sender.Username() != "" {
		fromUsername = sender.Username()
	}

	return s.deliver(op, senderID, msg.To, domain.EventCallIncoming, domain.CallIncomingPayload{
		From:         senderID,
		FromUsername: fromUsername,
		Offer:        msg.Offer,
	})
}

// Answer delivers a negotiation answer back to the offering connection.
func (s *RelayService) Answer(ctx context.Context, senderID string, msg domain.CallAnswerPayload) error {
	const op = "service.relay.answer"

	if err := ctx.Err(); err != nil {
		return err
	}

	return s.deliver(op, senderID, msg.To, domain.EventCallAnswered, domain.CallAnsweredPayload{
		From:   senderID,
		Answer: msg.Answer,
	})
}

// Candidate delivers one ICE candidate; any number may flow in either
// direction for the lifetime of a negotiation.
func (s *RelayService) Candidate(ctx context.Context, senderID string, msg domain.ICECandidateInPayload) error {
	const op = "service.relay.candidate"

	if err := ctx.Err(); err != nil {
		return err
	}

	return s.deliver(op, senderID, msg.To, domain.EventICECandidate, domain.ICECandidateOutPayload{
		From:      senderID,
		Candidate: msg.Candidate,
	})
}

func (s *RelayService) deliver(op, senderID, targetID string, eventType domain.EventType, payload any) error {
	log := s.log.With(
		slog.String("op", op),
		slog.String("from", senderID),
		slog.String("to", targetID),
	)

	target, ok := s.registry.Lookup(targetID)
	if !ok {
		log.Debug("relay target gone, dropping message")
		return nil
	}

	event, err := domain.NewEvent(eventType, payload)
	if err != nil {
		log.Error("failed to encode relay event", sl.Err(err))
		return err
	}

	if !target.Enqueue(event) {
		log.Debug("relay target queue unavailable, dropping message")
	}
	return nil
}
