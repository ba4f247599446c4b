package auth

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"healthwatch/internal/apperr"
	"healthwatch/internal/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetUserBySubject(ctx context.Context, subject string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("subject = ?", subject).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts user unless another request already provisioned the
// same subject, in which case the stored row is returned.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "subject"}}, DoNothing: true}).
		Create(user).Error; err != nil {
		return nil, err
	}
	var stored models.User
	if err := db.Where("subject = ?", user.Subject).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}
