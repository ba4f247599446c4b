package alert

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"healthwatch/internal/apperr"
	"healthwatch/internal/httpx"
	"healthwatch/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetActive handles GET /api/alerts/active?region=.
func (h *Handler) GetActive(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.service.ListActive(r.Context(), r.URL.Query().Get("region"))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, alerts)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.AlertInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.Error(w, r, err)
		return
	}

	alert, err := h.service.Create(r.Context(), in)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, alert)
}

func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		httpx.Error(w, r, apperr.Validation("invalid alert id"))
		return
	}

	alert, err := h.service.Deactivate(r.Context(), uint(id))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, alert)
}

// GetAdminAlerts handles GET /api/admin/alerts.
func (h *Handler) GetAdminAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.service.ListForAdmin(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, alerts)
}
