package handler

import (
	"context"
	"net/http"
	"time"

	"deckboard/internal/middleware"
	"deckboard/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MemberService is implemented by *service.MemberService.
type MemberService interface {
	Add(ctx context.Context, ownerID, workspaceID, userID uuid.UUID) error
	Remove(ctx context.Context, ownerID, workspaceID, userID uuid.UUID) error
	List(ctx context.Context, userID, workspaceID uuid.UUID) ([]model.WorkspaceMember, error)
}

type MemberHandler struct {
	members MemberService
}

func NewMemberHandler(members MemberService) *MemberHandler {
	return &MemberHandler{members: members}
}

type AddMemberRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type MemberResponse struct {
	UserID    string    `json:"user_id"`
	AddedBy   string    `json:"added_by"`
	CreatedAt time.Time `json:"created_at"`
}

// workspaceScope reads the caller and the workspace path parameter.
func workspaceScope(c *gin.Context) (userID, workspaceID uuid.UUID, ok bool) {
	userID, ok = middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: ErrorBody{Code: "AUTH_FAILURE", Message: "Not authenticated"}})
		return uuid.Nil, uuid.Nil, false
	}
	workspaceID, err := uuid.Parse(c.Param("workspace_id"))
	if err != nil {
		badRequest(c, "Invalid workspace ID format")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, workspaceID, true
}

// List godoc
// @Summary      List workspace members
// @Tags         Workspaces
// @Produce      json
// @Security     BearerAuth
// @Param        workspace_id  path  string  true  "Workspace ID"
// @Success      200  {array}   MemberResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /workspaces/{workspace_id}/members [get]
func (h *MemberHandler) List(c *gin.Context) {
	userID, workspaceID, ok := workspaceScope(c)
	if !ok {
		return
	}

	members, err := h.members.List(c.Request.Context(), userID, workspaceID)
	if err != nil {
		respondError(c, err, false)
		return
	}

	resp := make([]MemberResponse, len(members))
	for i, m := range members {
		resp[i] = MemberResponse{UserID: m.UserID.String(), AddedBy: m.AddedBy.String(), CreatedAt: m.CreatedAt}
	}
	c.JSON(http.StatusOK, resp)
}

// Add godoc
// @Summary      Share a workspace with a user
// @Description  Only the workspace owner can add members.
// @Tags         Workspaces
// @Accept       json
// @Security     BearerAuth
// @Param        workspace_id  path  string            true  "Workspace ID"
// @Param        request       body  AddMemberRequest  true  "Member"
// @Success      204
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /workspaces/{workspace_id}/members [post]
func (h *MemberHandler) Add(c *gin.Context) {
	userID, workspaceID, ok := workspaceScope(c)
	if !ok {
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	memberID, err := uuid.Parse(req.UserID)
	if err != nil {
		badRequest(c, "Invalid user ID format")
		return
	}

	if err := h.members.Add(c.Request.Context(), userID, workspaceID, memberID); err != nil {
		respondError(c, err, false)
		return
	}
	c.Status(http.StatusNoContent)
}

// Remove godoc
// @Summary      Revoke a user's access to a workspace
// @Tags         Workspaces
// @Security     BearerAuth
// @Param        workspace_id  path  string  true  "Workspace ID"
// @Param        user_id       path  string  true  "Member user ID"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Router       /workspaces/{workspace_id}/members/{user_id} [delete]
func (h *MemberHandler) Remove(c *gin.Context) {
	userID, workspaceID, ok := workspaceScope(c)
	if !ok {
		return
	}
	memberID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		badRequest(c, "Invalid user ID format")
		return
	}

	if err := h.members.Remove(c.Request.Context(), userID, workspaceID, memberID); err != nil {
		respondError(c, err, false)
		return
	}
	c.Status(http.StatusNoContent)
}
