package quiz

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

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

func pathID(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("invalid %s", name)
	}
	return uint(id), nil
}

func (h *Handler) ListDiseases(w http.ResponseWriter, r *http.Request) {
	diseases, err := h.service.ListDiseases(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if diseases == nil {
		diseases = []models.Disease{}
	}
	httpx.JSON(w, http.StatusOK, diseases)
}

func (h *Handler) GetDisease(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	disease, err := h.service.GetDisease(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, disease)
}

func (h *Handler) CreateDisease(w http.ResponseWriter, r *http.Request) {
	var in models.DiseaseInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.Error(w, r, err)
		return
	}
	disease, err := h.service.CreateDisease(r.Context(), in)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, disease)
}

func (h *Handler) GetQuestions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "diseaseId")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	questions, err := h.service.Questions(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if questions == nil {
		questions = []models.QuizQuestion{}
	}
	httpx.JSON(w, http.StatusOK, questions)
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		httpx.Error(w, r, apperr.Unauthorized("authentication required"))
		return
	}

	var in models.AnswerInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.Error(w, r, err)
		return
	}
	result, err := h.service.SubmitAnswer(r.Context(), user, in)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		httpx.Error(w, r, apperr.Unauthorized("authentication required"))
		return
	}
	progress, err := h.service.Progress(r.Context(), user)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if progress == nil {
		progress = []models.UserProgress{}
	}
	httpx.JSON(w, http.StatusOK, progress)
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.Leaderboard(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}
	httpx.JSON(w, http.StatusOK, entries)
}
