package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"anoncall/internal/domain"
	"anoncall/internal/registry"
	"anoncall/internal/service"
	"anoncall/lib/logger/sl"
)

// SignalController is the transport adapter: one websocket per client,
// multiplexing the whole event contract. It assigns the opaque connection
// identifier at upgrade time, reads the inbound event stream and dispatches
// each message through a single switch over the closed event set.
type SignalController struct {
	registry *registry.Registry
	rooms    service.RoomInteractor
	relay    service.RelayInteractor
	log      *slog.Logger
	validate *validator.Validate
	upgrader websocket.Upgrader
}

func NewSignalController(reg *registry.Registry, rooms service.RoomInteractor, relay service.RelayInteractor, log *slog.Logger) *SignalController {
	if log == nil {
		log = slog.Default()
	}
	return &SignalController{
		registry: reg,
		rooms:    rooms,
		relay:    relay,
		log:      log,
		validate: validator.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (c *SignalController) Connect(ctx *gin.Context) {
	conn, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		ctx.String(http.StatusInternalServerError, "failed to upgrade connection")
		return
	}

	connID := uuid.New().String()
	participant := c.registry.Register(connID)

	log := c.log.With(slog.String("conn_id", connID))
	log.Info("connection established")

	go forwardParticipantEvents(conn, participant)

	for {
		var event domain.Event
		if err := conn.ReadJSON(&event); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Info("connection read failed", sl.Err(err))
			}
			break
		}

		c.dispatch(context.Background(), connID, participant, event)
	}

	_ = c.rooms.Disconnect(context.Background(), connID)
	conn.Close()
	log.Info("connection closed")
}

// dispatch routes one inbound event. A malformed or unknown message is
// dropped with a log line; it never tears the connection down and never
// touches any other connection's state.
func (c *SignalController) dispatch(ctx context.Context, connID string, participant *domain.Participant, event domain.Event) {
	log := c.log.With(
		slog.String("conn_id", connID),
		slog.String("type", string(event.Type)),
	)

	switch event.Type {
	case domain.EventJoinRoom:
		var msg domain.JoinRoomPayload
		if !c.decode(log, event.Payload, &msg) {
			return
		}
		if _, err := c.rooms.Join(ctx, connID, msg.RoomID); err != nil {
			if errors.Is(err, service.ErrRoomFull) {
				if full, err := domain.NewEvent(domain.EventRoomFull, nil); err == nil {
					participant.Enqueue(full)
				}
				return
			}
			log.Error("join failed", sl.Err(err))
		}

	case domain.EventLeaveRoom:
		if err := c.rooms.Leave(ctx, connID); err != nil {
			log.Error("leave failed", sl.Err(err))
		}

	case domain.EventCallUser:
		var msg domain.CallUserPayload
		if !c.decode(log, event.Payload, &msg) {
			return
		}
		if err := c.relay.Offer(ctx, connID, msg); err != nil {
			log.Error("offer relay failed", sl.Err(err))
		}

	case domain.EventCallAnswer:
		var msg domain.CallAnswerPayload
		if !c.decode(log, event.Payload, &msg) {
			return
		}
		if err := c.relay.Answer(ctx, connID, msg); err != nil {
			log.Error("answer relay failed", sl.Err(err))
		}

	case domain.EventICECandidate:
		var msg domain.ICECandidateInPayload
		if !c.decode(log, event.Payload, &msg) {
			return
		}
		if err := c.relay.Candidate(ctx, connID, msg); err != nil {
			log.Error("candidate relay failed", sl.Err(err))
		}

	default:
		log.Warn("unknown event type, dropping message")
	}
}

func (c *SignalController) decode(log *slog.Logger, raw json.RawMessage, dst any) bool {
	if len(raw) == 0 {
		log.Warn("missing payload, dropping message")
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Warn("malformed payload, dropping message", sl.Err(err))
		return false
	}
	if err := c.validate.Struct(dst); err != nil {
		log.Warn("invalid payload, dropping message", sl.Err(err))
		return false
	}
	return true
}

// forwardParticipantEvents drains the participant's queue into the socket.
// It is the only writer on the connection. When the registry closes the
// queue the socket is closed too, which unblocks the read loop.
func forwardParticipantEvents(conn *websocket.Conn, participant *domain.Participant) {
	for event := range participant.Events() {
		if err := conn.WriteJSON(event); err != nil {
			return
		}
	}
	conn.Close()
}
