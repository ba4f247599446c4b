package admin

import (
	"net/http"

	"healthwatch/internal/httpx"
	"healthwatch/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}

func (h *Handler) GetRecentActivity(w http.ResponseWriter, r *http.Request) {
	ps, err := h.service.RecentActivity(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if ps == nil {
		ps = []models.Prescription{}
	}
	httpx.JSON(w, http.StatusOK, ps)
}
