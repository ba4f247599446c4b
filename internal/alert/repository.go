package alert

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"healthwatch/internal/apperr"
	"healthwatch/internal/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateAlert(ctx context.Context, alert *models.HealthAlert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

func (r *Repository) GetAlert(ctx context.Context, id uint) (*models.HealthAlert, error) {
	var alert models.HealthAlert
	err := r.db.WithContext(ctx).First(&alert, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("alert %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

// ListActiveAlerts returns active alerts newest first; an empty region means all regions.
func (r *Repository) ListActiveAlerts(ctx context.Context, region string, limit int) ([]models.HealthAlert, error) {
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if region != "" {
		q = q.Where("region = ?", region)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var alerts []models.HealthAlert
	err := q.Order("created_at DESC").Order("id DESC").Find(&alerts).Error
	return alerts, err
}

func (r *Repository) FindActiveAlert(ctx context.Context, disease, region string) (*models.HealthAlert, error) {
	var alert models.HealthAlert
	res := r.db.WithContext(ctx).
		Where("is_active = ? AND region = ? AND LOWER(disease) = LOWER(?)", true, region, disease).
		Order("created_at DESC").
		Limit(1).
		Find(&alert)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("no active alert")
	}
	return &alert, nil
}

// DeactivateAlert clears is_active and reports whether this call changed it.
func (r *Repository) DeactivateAlert(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.HealthAlert{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
