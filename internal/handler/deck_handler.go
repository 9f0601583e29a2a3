package handler

import (
	"context"
	"net/http"
	"time"

	"deckboard/internal/middleware"
	"deckboard/internal/model"
	"deckboard/internal/ordering"
	"deckboard/internal/reconcile"
	"deckboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DeckService is implemented by *service.DeckService.
type DeckService interface {
	List(ctx context.Context, userID, boardID, workspaceID uuid.UUID) ([]model.Deck, error)
	Create(ctx context.Context, userID, boardID, workspaceID uuid.UUID, name string) (*model.Deck, error)
	Rename(ctx context.Context, userID, deckID uuid.UUID, name string) (*model.Deck, error)
	Delete(ctx context.Context, userID, deckID uuid.UUID) error
	Move(ctx context.Context, userID, boardID, workspaceID uuid.UUID, move ordering.Move) (service.MoveResult, error)
	Reorder(ctx context.Context, userID, boardID, workspaceID uuid.UUID, deckIDs []uuid.UUID) (service.MoveResult, error)
	Resync(ctx context.Context, userID, boardID, workspaceID uuid.UUID) (service.ResyncResult, error)
	Authorize(ctx context.Context, userID, boardID, workspaceID uuid.UUID) error
	Status(boardID uuid.UUID) reconcile.Status
}

type DeckHandler struct {
	decks DeckService
}

func NewDeckHandler(decks DeckService) *DeckHandler {
	return &DeckHandler{decks: decks}
}

type CreateDeckRequest struct {
	Name string `json:"name" binding:"required"`
}

type RenameDeckRequest struct {
	Name string `json:"name" binding:"required"`
}

type MoveDeckRequest struct {
	SourceID  string `json:"source_id" binding:"required"`
	TargetID  string `json:"target_id"`
	Placement string `json:"placement" enums:"before,after,end"`
}

type ReorderDecksRequest struct {
	DeckIDs []string `json:"deck_ids" binding:"required"`
}

type DeckResponse struct {
	ID          string    `json:"id"`
	BoardID     string    `json:"board_id"`
	WorkspaceID string    `json:"workspace_id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type BoardDecksResponse struct {
	Decks    []DeckResponse `json:"decks"`
	Moved    bool           `json:"moved"`
	Desynced bool           `json:"desynced"`
}

type DriftResponse struct {
	Reordered []string `json:"reordered"`
	Missing   []string `json:"missing"`
	Added     []string `json:"added"`
}

type ResyncResponse struct {
	Decks []DeckResponse `json:"decks"`
	Drift DriftResponse  `json:"drift"`
}

func toDeckResponse(d model.Deck) DeckResponse {
	return DeckResponse{
		ID:          d.ID.String(),
		BoardID:     d.BoardID.String(),
		WorkspaceID: d.WorkspaceID.String(),
		UserID:      d.UserID.String(),
		Name:        d.Name,
		Order:       d.Order,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func toDeckResponses(decks []model.Deck) []DeckResponse {
	out := make([]DeckResponse, len(decks))
	for i, d := range decks {
		out[i] = toDeckResponse(d)
	}
	return out
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// boardScope reads the caller and the workspace/board path parameters. It
// writes the error response itself and returns false on failure.
func boardScope(c *gin.Context) (userID, boardID, workspaceID uuid.UUID, ok bool) {
	userID, ok = middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: ErrorBody{Code: "AUTH_FAILURE", Message: "Not authenticated"}})
		return uuid.Nil, uuid.Nil, uuid.Nil, false
	}
	workspaceID, err := uuid.Parse(c.Param("workspace_id"))
	if err != nil {
		badRequest(c, "Invalid workspace ID format")
		return uuid.Nil, uuid.Nil, uuid.Nil, false
	}
	boardID, err = uuid.Parse(c.Param("board_id"))
	if err != nil {
		badRequest(c, "Invalid board ID format")
		return uuid.Nil, uuid.Nil, uuid.Nil, false
	}
	return userID, boardID, workspaceID, true
}

// List godoc
// @Summary      List decks of a board
// @Tags         Decks
// @Produce      json
// @Security     BearerAuth
// @Param        workspace_id  path  string  true  "Workspace ID"
// @Param        board_id      path  string  true  "Board ID"
// @Success      200  {object}  BoardDecksResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /workspaces/{workspace_id}/boards/{board_id}/decks [get]
func (h *DeckHandler) List(c *gin.Context) {
	userID, boardID, workspaceID, ok := boardScope(c)
	if !ok {
		return
	}

	decks, err := h.decks.List(c.Request.Context(), userID, boardID, workspaceID)
	if err != nil {
		respondError(c, err, false)
		return
	}

	c.JSON(http.StatusOK, BoardDecksResponse{
		Decks:    toDeckResponses(decks),
		Desynced: h.decks.Status(boardID).Desynced,
	})
}

// Create godoc
// @Summary      Append a deck to a board
// @Tags         Decks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        workspace_id  path  string             true  "Workspace ID"
// @Param        board_id      path  string             true  "Board ID"
// @Param        request       body  CreateDeckRequest  true  "Deck name (1-26 characters)"
// @Success      201  {object}  DeckResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /workspaces/{workspace_id}/boards/{board_id}/decks [post]
func (h *DeckHandler) Create(c *gin.Context) {
	userID, boardID, workspaceID, ok := boardScope(c)
	if !ok {
		return
	}

	var req CreateDeckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	deck, err := h.decks.Create(c.Request.Context(), userID, boardID, workspaceID, req.Name)
	if err != nil {
		respondError(c, err, false)
		return
	}

	c.JSON(http.StatusCreated, toDeckResponse(*deck))
}

// Rename godoc
// @Summary      Rename a deck
// @Tags         Decks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string             true  "Deck ID"
// @Param        request  body  RenameDeckRequest  true  "New name"
// @Success      200  {object}  DeckResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /decks/{id} [patch]
func (h *DeckHandler) Rename(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: ErrorBody{Code: "AUTH_FAILURE", Message: "Not authenticated"}})
		return
	}

	deckID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid deck ID format")
		return
	}

	var req RenameDeckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	deck, err := h.decks.Rename(c.Request.Context(), userID, deckID, req.Name)
	if err != nil {
		respondError(c, err, false)
		return
	}

	c.JSON(http.StatusOK, toDeckResponse(*deck))
}

// Delete godoc
// @Summary      Delete a deck you own
// @Description  Remaining decks of the board are renumbered 1..N.
// @Tags         Decks
// @Security     BearerAuth
// @Param        id  path  string  true  "Deck ID"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Router       /decks/{id} [delete]
func (h *DeckHandler) Delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: ErrorBody{Code: "AUTH_FAILURE", Message: "Not authenticated"}})
		return
	}

	deckID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid deck ID format")
		return
	}

	if err := h.decks.Delete(c.Request.Context(), userID, deckID); err != nil {
		respondError(c, err, false)
		return
	}

	c.Status(http.StatusNoContent)
}

// Move godoc
// @Summary      Move a deck relative to another
// @Description  Applies one drag-and-drop gesture and stores the renumbered board.
// @Tags         Decks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        workspace_id  path  string           true  "Workspace ID"
// @Param        board_id      path  string           true  "Board ID"
// @Param        request       body  MoveDeckRequest  true  "Move"
// @Success      200  {object}  BoardDecksResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /workspaces/{workspace_id}/boards/{board_id}/decks/move [post]
func (h *DeckHandler) Move(c *gin.Context) {
	userID, boardID, workspaceID, ok := boardScope(c)
	if !ok {
		return
	}

	var req MoveDeckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	placement, err := ordering.ParsePlacement(req.Placement)
	if err != nil {
		badRequest(c, "placement must be one of before, after, end")
		return
	}
	sourceID, err := uuid.Parse(req.SourceID)
	if err != nil {
		badRequest(c, "Invalid source deck ID format")
		return
	}
	var targetID uuid.UUID
	if req.TargetID != "" {
		if targetID, err = uuid.Parse(req.TargetID); err != nil {
			badRequest(c, "Invalid target deck ID format")
			return
		}
	}

	result, err := h.decks.Move(c.Request.Context(), userID, boardID, workspaceID, ordering.Move{
		SourceID:  sourceID,
		TargetID:  targetID,
		Placement: placement,
	})
	if err != nil {
		respondError(c, err, result.Desynced)
		return
	}

	c.JSON(http.StatusOK, BoardDecksResponse{
		Decks:    toDeckResponses(result.Decks),
		Moved:    result.Moved,
		Desynced: result.Desynced,
	})
}

// Reorder godoc
// @Summary      Store a complete deck order
// @Tags         Decks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        workspace_id  path  string               true  "Workspace ID"
// @Param        board_id      path  string               true  "Board ID"
// @Param        request       body  ReorderDecksRequest  true  "Every deck id of the board in the new order"
// @Success      200  {object}  BoardDecksResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /workspaces/{workspace_id}/boards/{board_id}/decks/order [put]
func (h *DeckHandler) Reorder(c *gin.Context) {
	userID, boardID, workspaceID, ok := boardScope(c)
	if !ok {
		return
	}

	var req ReorderDecksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	ids := make([]uuid.UUID, 0, len(req.DeckIDs))
	for _, raw := range req.DeckIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(c, "Invalid deck ID format")
			return
		}
		ids = append(ids, id)
	}

	result, err := h.decks.Reorder(c.Request.Context(), userID, boardID, workspaceID, ids)
	if err != nil {
		respondError(c, err, result.Desynced)
		return
	}

	c.JSON(http.StatusOK, BoardDecksResponse{
		Decks:    toDeckResponses(result.Decks),
		Moved:    result.Moved,
		Desynced: result.Desynced,
	})
}

// Resync godoc
// @Summary      Reload a board's deck order from the store
// @Description  Reports which decks differed from the server's working order.
// @Tags         Decks
// @Produce      json
// @Security     BearerAuth
// @Param        workspace_id  path  string  true  "Workspace ID"
// @Param        board_id      path  string  true  "Board ID"
// @Success      200  {object}  ResyncResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /workspaces/{workspace_id}/boards/{board_id}/decks/resync [post]
func (h *DeckHandler) Resync(c *gin.Context) {
	userID, boardID, workspaceID, ok := boardScope(c)
	if !ok {
		return
	}

	result, err := h.decks.Resync(c.Request.Context(), userID, boardID, workspaceID)
	if err != nil {
		respondError(c, err, h.decks.Status(boardID).Desynced)
		return
	}

	c.JSON(http.StatusOK, ResyncResponse{
		Decks: toDeckResponses(result.Decks),
		Drift: DriftResponse{
			Reordered: idStrings(result.Drift.Reordered),
			Missing:   idStrings(result.Drift.Missing),
			Added:     idStrings(result.Drift.Added),
		},
	})
}
