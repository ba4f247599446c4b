package auth

import (
	"net/http"

	"healthwatch/internal/apperr"
	"healthwatch/internal/httpx"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// CurrentUser handles GET /api/auth/user.
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		httpx.Error(w, r, apperr.Unauthorized("authentication required"))
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}
