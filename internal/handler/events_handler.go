package handler

import (
	"context"
	"net/http"
	"time"

	"deckboard/internal/middleware"
	"deckboard/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

type Subscriber interface {
	Subscribe(ctx context.Context, boardID uuid.UUID) (<-chan realtime.Event, func())
}

type EventsHandler struct {
	decks    DeckService
	events   Subscriber
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewEventsHandler accepts upgrades from the given origins; an empty list
// accepts any origin.
func NewEventsHandler(decks DeckService, events Subscriber, allowedOrigins []string, logger *zap.Logger) *EventsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &EventsHandler{
		decks:  decks,
		events: events,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin] || allowed["*"]
			},
		},
	}
}

// Stream godoc
// @Summary      Stream board events over a websocket
// @Description  Sends deck-created, deck-renamed, deck-deleted and decks-reordered events for the board.
// @Tags         Events
// @Security     BearerAuth
// @Param        board_id      path   string  true   "Board ID"
// @Param        workspace_id  query  string  true   "Workspace ID"
// @Param        access_token  query  string  false  "JWT when the Authorization header cannot be set"
// @Success      101
// @Failure      404  {object}  ErrorResponse
// @Router       /boards/{board_id}/events [get]
func (h *EventsHandler) Stream(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: ErrorBody{Code: "AUTH_FAILURE", Message: "Not authenticated"}})
		return
	}
	boardID, err := uuid.Parse(c.Param("board_id"))
	if err != nil {
		badRequest(c, "Invalid board ID format")
		return
	}
	workspaceID, err := uuid.Parse(c.Query("workspace_id"))
	if err != nil {
		badRequest(c, "Invalid workspace ID format")
		return
	}
	if err := h.decks.Authorize(c.Request.Context(), userID, boardID, workspaceID); err != nil {
		respondError(c, err, false)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	stream, unsubscribe := h.events.Subscribe(ctx, boardID)
	defer unsubscribe()

	go h.readPump(conn, cancel)
	h.writePump(ctx, conn, stream)
}

// readPump only handles control frames; it cancels ctx once the peer goes
// away.
func (h *EventsHandler) readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *EventsHandler) writePump(ctx context.Context, conn *websocket.Conn, stream <-chan realtime.Event) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case event, ok := <-stream:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(event); err != nil {
				h.logger.Debug("websocket write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
