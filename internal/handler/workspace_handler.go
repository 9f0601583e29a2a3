package handler

import (
	"context"
	"net/http"

	"deckboard/internal/apperr"
	"deckboard/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WorkspaceCache interface {
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

type WorkspaceHandler struct {
	cache WorkspaceCache
}

func NewWorkspaceHandler(cache WorkspaceCache) *WorkspaceHandler {
	return &WorkspaceHandler{cache: cache}
}

// InvalidateCache godoc
// @Summary      Forget the caller's cached workspace list
// @Description  Call after joining or leaving a workspace.
// @Tags         Workspaces
// @Security     BearerAuth
// @Success      204
// @Failure      502  {object}  ErrorResponse
// @Router       /workspaces/cache/invalidate [post]
func (h *WorkspaceHandler) InvalidateCache(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: ErrorBody{Code: "AUTH_FAILURE", Message: "Not authenticated"}})
		return
	}

	if err := h.cache.Invalidate(c.Request.Context(), userID); err != nil {
		respondError(c, apperr.Store("workspace.invalidate_cache", err), false)
		return
	}

	c.Status(http.StatusNoContent)
}
