package outbreak

import (
	"net/http"

	"healthwatch/internal/apperr"
	"healthwatch/internal/auth"
	"healthwatch/internal/httpx"
	"healthwatch/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) SubmitPrescription(w http.ResponseWriter, r *http.Request) {
	doctor, ok := auth.UserFromContext(r.Context())
	if !ok {
		httpx.Error(w, r, apperr.Unauthorized("authentication required"))
		return
	}

	var in models.PrescriptionInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.Error(w, r, err)
		return
	}

	p, err := h.service.Submit(r.Context(), doctor, in)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *Handler) GetRecent(w http.ResponseWriter, r *http.Request) {
	doctor, ok := auth.UserFromContext(r.Context())
	if !ok {
		httpx.Error(w, r, apperr.Unauthorized("authentication required"))
		return
	}

	ps, err := h.service.Recent(r.Context(), doctor)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if ps == nil {
		ps = []models.Prescription{}
	}
	httpx.JSON(w, http.StatusOK, ps)
}

func (h *Handler) GetDoctorStats(w http.ResponseWriter, r *http.Request) {
	doctor, ok := auth.UserFromContext(r.Context())
	if !ok {
		httpx.Error(w, r, apperr.Unauthorized("authentication required"))
		return
	}

	stats, err := h.service.Stats(r.Context(), doctor)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}
