package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"deckboard/internal/apperr"
	"deckboard/internal/auth"
	"deckboard/internal/handler"
	"deckboard/internal/middleware"
	"deckboard/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAuthHandler_ProviderURL(t *testing.T) {
	gin.SetMode(gin.TestMode)
	providers := auth.NewProviders("https://deckboard.test/auth/callback", map[auth.Provider]auth.Credentials{
		auth.ProviderGoogle: {ClientID: "google-client", ClientSecret: "secret"},
	})
	h := handler.NewAuthHandler(providers)
	r := gin.New()
	r.GET("/auth/providers/:provider/url", h.ProviderURL)

	t.Run("configured provider", func(t *testing.T) {
		resp := perform(r, http.MethodGet, "/auth/providers/google/url", nil)

		require.Equal(t, http.StatusOK, resp.Code)
		var body handler.ProviderURLResponse
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, "google", body.Provider)
		assert.True(t, strings.HasPrefix(body.URL, "https://accounts.google.com/"))
		assert.Contains(t, body.URL, "state="+body.State)
		_, err := uuid.Parse(body.State)
		assert.NoError(t, err)
	})

	t.Run("unknown provider", func(t *testing.T) {
		resp := perform(r, http.MethodGet, "/auth/providers/myspace/url", nil)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("provider without credentials", func(t *testing.T) {
		resp := perform(r, http.MethodGet, "/auth/providers/github/url", nil)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

type stubCache struct {
	err         error
	invalidated []uuid.UUID
}

func (s *stubCache) Invalidate(_ context.Context, userID uuid.UUID) error {
	s.invalidated = append(s.invalidated, userID)
	return s.err
}

func TestWorkspaceHandler_InvalidateCache(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()

	setup := func(c *stubCache) *gin.Engine {
		r := gin.New()
		r.Use(func(ctx *gin.Context) { ctx.Set(middleware.UserIDKey, userID) })
		r.POST("/workspaces/cache/invalidate", handler.NewWorkspaceHandler(c).InvalidateCache)
		return r
	}

	cache := &stubCache{}
	resp := perform(setup(cache), http.MethodPost, "/workspaces/cache/invalidate", nil)
	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, []uuid.UUID{userID}, cache.invalidated)

	resp = perform(setup(&stubCache{err: errors.New("redis: connection refused")}), http.MethodPost, "/workspaces/cache/invalidate", nil)
	assert.Equal(t, http.StatusBadGateway, resp.Code)
	assert.Equal(t, "redis: connection refused", decodeError(t, resp).Error.Message)
}

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	healthy := handler.NewHealthHandler(map[string]handler.Pinger{
		"database": func(context.Context) error { return nil },
	})
	r := gin.New()
	r.GET("/health", healthy.Health)
	resp := perform(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"status":"ok","dependencies":{"database":"ok"}}`, resp.Body.String())

	degraded := handler.NewHealthHandler(map[string]handler.Pinger{
		"database": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("dial tcp: refused") },
	})
	r = gin.New()
	r.GET("/health", degraded.Health)
	resp = perform(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.JSONEq(t, `{"status":"degraded","dependencies":{"database":"ok","redis":"dial tcp: refused"}}`, resp.Body.String())
}

func setupEventsServer(t *testing.T, s scope, svc *MockDeckService, dispatcher *realtime.Dispatcher) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(middleware.UserIDKey, s.userID) })
	r.GET("/boards/:board_id/events", handler.NewEventsHandler(svc, dispatcher, nil, zap.NewNop()).Stream)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestEventsHandler_StreamsBoardEvents(t *testing.T) {
	// Arrange
	s := newScope()
	svc := new(MockDeckService)
	svc.On("Authorize", mock.Anything, s.userID, s.boardID, s.workspaceID).Return(nil)
	dispatcher := realtime.NewDispatcher()
	srv := setupEventsServer(t, s, svc, dispatcher)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/boards/" + s.boardID.String() + "/events?workspace_id=" + s.workspaceID.String()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return dispatcher.Subscribers(s.boardID) == 1 }, time.Second, 10*time.Millisecond)

	// Act
	deckID := uuid.New()
	dispatcher.Publish(realtime.Event{Type: realtime.EventDecksReordered, BoardID: s.boardID, WorkspaceID: s.workspaceID, DeckIDs: []uuid.UUID{deckID}})

	// Assert
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event realtime.Event
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, realtime.EventDecksReordered, event.Type)
	assert.Equal(t, []uuid.UUID{deckID}, event.DeckIDs)

	conn.Close()
	assert.Eventually(t, func() bool { return dispatcher.Subscribers(s.boardID) == 0 }, time.Second, 10*time.Millisecond)
}

func TestEventsHandler_RejectsOutsiders(t *testing.T) {
	s := newScope()
	svc := new(MockDeckService)
	svc.On("Authorize", mock.Anything, s.userID, s.boardID, s.workspaceID).
		Return(apperr.NotFound("deck.watch", "Board not found"))
	srv := setupEventsServer(t, s, svc, realtime.NewDispatcher())

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/boards/" + s.boardID.String() + "/events?workspace_id=" + s.workspaceID.String()
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEventsHandler_RequiresWorkspace(t *testing.T) {
	s := newScope()
	svc := new(MockDeckService)
	srv := setupEventsServer(t, s, svc, realtime.NewDispatcher())

	resp, err := http.Get(srv.URL + "/boards/" + s.boardID.String() + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	svc.AssertNotCalled(t, "Authorize", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
