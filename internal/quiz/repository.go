package quiz

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"healthwatch/internal/apperr"
	"healthwatch/internal/models"
)

const leaderboardSize = 10

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateDisease(ctx context.Context, disease *models.Disease) error {
	err := r.db.WithContext(ctx).Omit("Questions").Create(disease).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict("disease %q already exists", disease.Name)
	}
	return err
}

func (r *Repository) ListDiseases(ctx context.Context) ([]models.Disease, error) {
	var diseases []models.Disease
	err := r.db.WithContext(ctx).Order("name ASC").Find(&diseases).Error
	return diseases, err
}

func (r *Repository) GetDisease(ctx context.Context, id uint) (*models.Disease, error) {
	var disease models.Disease
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&disease, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("disease %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &disease, nil
}

func (r *Repository) GetDiseaseByName(ctx context.Context, name string) (*models.Disease, error) {
	var disease models.Disease
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&disease).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("disease %q not found", name)
	}
	if err != nil {
		return nil, err
	}
	return &disease, nil
}

func (r *Repository) CreateQuestions(ctx context.Context, questions []models.QuizQuestion) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&questions).Error
}

func (r *Repository) ListQuestions(ctx context.Context, diseaseID uint) ([]models.QuizQuestion, error) {
	var questions []models.QuizQuestion
	err := r.db.WithContext(ctx).Where("disease_id = ?", diseaseID).Order("id ASC").Find(&questions).Error
	return questions, err
}

func (r *Repository) GetQuestion(ctx context.Context, id uint) (*models.QuizQuestion, error) {
	var question models.QuizQuestion
	err := r.db.WithContext(ctx).First(&question, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("question %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *Repository) ListProgress(ctx context.Context, userID uint) ([]models.UserProgress, error) {
	var progress []models.UserProgress
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("disease_id ASC").Find(&progress).Error
	return progress, err
}

// RecordAttempt writes the attempt, folds it into the user's progress for the
// question's disease and credits the user, all in one transaction. Progress and
// user rows are locked so concurrent answers from one user serialise.
func (r *Repository) RecordAttempt(ctx context.Context, attempt *models.QuizAttempt, diseaseID uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(attempt).Error; err != nil {
			return err
		}

		var questionCount int64
		if err := tx.Model(&models.QuizQuestion{}).Where("disease_id = ?", diseaseID).Count(&questionCount).Error; err != nil {
			return err
		}

		seed := models.UserProgress{UserID: attempt.UserID, DiseaseID: diseaseID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return err
		}

		var progress models.UserProgress
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND disease_id = ?", attempt.UserID, diseaseID).
			First(&progress).Error; err != nil {
			return err
		}
		progress.Record(attempt.IsCorrect, attempt.PointsEarned, int(questionCount), time.Now())
		if err := tx.Save(&progress).Error; err != nil {
			return err
		}

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, attempt.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("user %d not found", attempt.UserID)
			}
			return err
		}
		user.ApplyScore(attempt.PointsEarned, attempt.IsCorrect)
		return tx.Model(&user).Updates(map[string]interface{}{
			"total_points": user.TotalPoints,
			"level":        user.Level,
			"streak":       user.Streak,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Leaderboard ranks every user by points, then level.
func (r *Repository) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("id AS user_id, first_name, last_name, region, total_points, level, streak").
		Order("total_points DESC").
		Order("level DESC").
		Order("id ASC").
		Limit(leaderboardSize).
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Level = models.LevelForPoints(entries[i].TotalPoints)
	}
	return entries, nil
}
