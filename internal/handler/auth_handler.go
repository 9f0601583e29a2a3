package handler

import (
	"net/http"

	"deckboard/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProviderURLs interface {
	AuthCodeURL(provider auth.Provider, state string) (string, error)
}

type AuthHandler struct {
	providers ProviderURLs
}

func NewAuthHandler(providers ProviderURLs) *AuthHandler {
	return &AuthHandler{providers: providers}
}

type ProviderURLResponse struct {
	Provider string `json:"provider"`
	URL      string `json:"url"`
	State    string `json:"state"`
}

// ProviderURL godoc
// @Summary      Social sign-in URL
// @Tags         Auth
// @Produce      json
// @Param        provider  path  string  true  "google, apple or github"
// @Success      200  {object}  ProviderURLResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /auth/providers/{provider}/url [get]
func (h *AuthHandler) ProviderURL(c *gin.Context) {
	provider, err := auth.ParseProvider(c.Param("provider"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	state := uuid.NewString()
	url, err := h.providers.AuthCodeURL(provider, state)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, ProviderURLResponse{Provider: provider.String(), URL: url, State: state})
}
