// Package quiz owns the disease catalogue, its quiz questions and learner scoring.
package quiz

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"healthwatch/internal/apperr"
	"healthwatch/internal/models"
	"healthwatch/internal/textgen"
)

type QuizRepository interface {
	CreateDisease(ctx context.Context, disease *models.Disease) error
	ListDiseases(ctx context.Context) ([]models.Disease, error)
	GetDisease(ctx context.Context, id uint) (*models.Disease, error)
	CreateQuestions(ctx context.Context, questions []models.QuizQuestion) error
	ListQuestions(ctx context.Context, diseaseID uint) ([]models.QuizQuestion, error)
	GetQuestion(ctx context.Context, id uint) (*models.QuizQuestion, error)
	ListProgress(ctx context.Context, userID uint) ([]models.UserProgress, error)
	RecordAttempt(ctx context.Context, attempt *models.QuizAttempt, diseaseID uint) (*models.User, error)
	Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error)
}

type QuestionDrafter interface {
	DraftQuizQuestions(ctx context.Context, in textgen.QuizRequest) []textgen.QuestionDraft
}

// LeaderboardCache holds the ranked top entries between scoring updates.
type LeaderboardCache interface {
	GetLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error)
	SetLeaderboard(ctx context.Context, entries []models.LeaderboardEntry) error
	InvalidateLeaderboard(ctx context.Context) error
}

type Service struct {
	repo    QuizRepository
	drafter QuestionDrafter
	cache   LeaderboardCache
	log     zerolog.Logger
}

// NewService builds the quiz service. cache may be nil.
func NewService(repo QuizRepository, drafter QuestionDrafter, cache LeaderboardCache, log zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		drafter: drafter,
		cache:   cache,
		log:     log.With().Str("component", "quiz").Logger(),
	}
}

// CreateDisease stores a disease and asks the drafter for its questions.
// A disease with no drafted questions is still created.
func (s *Service) CreateDisease(ctx context.Context, in models.DiseaseInput) (*models.Disease, error) {
	disease := &models.Disease{
		Name:               strings.TrimSpace(in.Name),
		Category:           strings.TrimSpace(in.Category),
		Description:        strings.TrimSpace(in.Description),
		Symptoms:           in.Symptoms,
		PreventiveMeasures: in.PreventiveMeasures,
		Treatment:          in.Treatment,
		Severity:           in.Severity,
		Season:             in.Season,
	}
	switch {
	case disease.Name == "":
		return nil, apperr.Validation("name is required")
	case disease.Category == "":
		return nil, apperr.Validation("category is required")
	case disease.Description == "":
		return nil, apperr.Validation("description is required")
	}

	if err := s.repo.CreateDisease(ctx, disease); err != nil {
		return nil, err
	}

	drafts := s.drafter.DraftQuizQuestions(ctx, textgen.QuizRequest{
		Disease:            disease.Name,
		Description:        disease.Description,
		Symptoms:           disease.Symptoms,
		PreventiveMeasures: disease.PreventiveMeasures,
	})
	if len(drafts) == 0 {
		s.log.Warn().Str("disease", disease.Name).Msg("disease created without quiz questions")
		return disease, nil
	}

	questions := make([]models.QuizQuestion, 0, len(drafts))
	for _, d := range drafts {
		questions = append(questions, models.QuizQuestion{
			DiseaseID:     disease.ID,
			Question:      d.Question,
			Options:       d.Options,
			CorrectAnswer: d.CorrectAnswer,
			Explanation:   d.Explanation,
			Difficulty:    d.Difficulty,
			Points:        d.Points,
		})
	}
	if err := s.repo.CreateQuestions(ctx, questions); err != nil {
		s.log.Error().Err(err).Str("disease", disease.Name).Msg("failed to store drafted questions")
		return disease, nil
	}
	disease.Questions = questions
	return disease, nil
}

func (s *Service) ListDiseases(ctx context.Context) ([]models.Disease, error) {
	return s.repo.ListDiseases(ctx)
}

func (s *Service) GetDisease(ctx context.Context, id uint) (*models.Disease, error) {
	return s.repo.GetDisease(ctx, id)
}

func (s *Service) Questions(ctx context.Context, diseaseID uint) ([]models.QuizQuestion, error) {
	return s.repo.ListQuestions(ctx, diseaseID)
}

// SubmitAnswer grades an answer and credits the learner.
func (s *Service) SubmitAnswer(ctx context.Context, user *models.User, in models.AnswerInput) (*models.AnswerResult, error) {
	if in.QuestionID == 0 {
		return nil, apperr.Validation("questionId is required")
	}
	if in.SelectedAnswer == nil || *in.SelectedAnswer < 0 || *in.SelectedAnswer >= models.OptionsPerQuestion {
		return nil, apperr.Validation("selectedAnswer must be between 0 and %d", models.OptionsPerQuestion-1)
	}

	question, err := s.repo.GetQuestion(ctx, in.QuestionID)
	if err != nil {
		return nil, err
	}

	correct, points := question.Score(*in.SelectedAnswer)
	attempt := &models.QuizAttempt{
		UserID:         user.ID,
		QuestionID:     question.ID,
		SelectedAnswer: *in.SelectedAnswer,
		IsCorrect:      correct,
		PointsEarned:   points,
	}
	updated, err := s.repo.RecordAttempt(ctx, attempt, question.DiseaseID)
	if err != nil {
		return nil, err
	}

	s.log.Debug().
		Uint("user_id", user.ID).
		Uint("question_id", question.ID).
		Bool("correct", correct).
		Int("total_points", updated.TotalPoints).
		Msg("answer recorded")

	if s.cache != nil {
		if err := s.cache.InvalidateLeaderboard(ctx); err != nil {
			s.log.Warn().Err(err).Msg("failed to invalidate leaderboard cache")
		}
	}
	return &models.AnswerResult{IsCorrect: correct, PointsEarned: points}, nil
}

func (s *Service) Progress(ctx context.Context, user *models.User) ([]models.UserProgress, error) {
	return s.repo.ListProgress(ctx, user.ID)
}

// Leaderboard serves the cached ranking when present and refills it otherwise.
func (s *Service) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	if s.cache != nil {
		entries, err := s.cache.GetLeaderboard(ctx)
		if err == nil {
			return entries, nil
		}
		s.log.Debug().Err(err).Msg("leaderboard cache unavailable")
	}

	entries, err := s.repo.Leaderboard(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetLeaderboard(ctx, entries); err != nil {
			s.log.Warn().Err(err).Msg("failed to cache leaderboard")
		}
	}
	return entries, nil
}
