package admin

import (
	"context"
	"time"

	"gorm.io/gorm"

	"healthwatch/internal/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CountPrescriptions(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Prescription{}).Count(&n).Error
	return n, err
}

func (r *Repository) CountActiveAlerts(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.HealthAlert{}).Where("is_active = ?", true).Count(&n).Error
	return n, err
}

func (r *Repository) CountUsersByRole(ctx context.Context, role string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", role).Count(&n).Error
	return n, err
}

// DiagnosisCounts groups every prescription by diagnosis, most frequent first.
func (r *Repository) DiagnosisCounts(ctx context.Context, limit int) ([]models.DiseaseCount, error) {
	var out []models.DiseaseCount
	err := r.db.WithContext(ctx).Model(&models.Prescription{}).
		Select("diagnosis AS disease, COUNT(*) AS count").
		Group("diagnosis").
		Order("count DESC").
		Order("diagnosis ASC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}

// PrescriptionTimes returns creation times of prescriptions at or after since.
func (r *Repository) PrescriptionTimes(ctx context.Context, since time.Time) ([]time.Time, error) {
	var times []time.Time
	err := r.db.WithContext(ctx).Model(&models.Prescription{}).
		Where("created_at >= ?", since).
		Pluck("created_at", &times).Error
	return times, err
}

type regionCount struct {
	Region string
	Count  int64
}

func (r *Repository) countByRegion(ctx context.Context, model interface{}) (map[string]int64, error) {
	var rows []regionCount
	err := r.db.WithContext(ctx).Model(model).
		Select("region, COUNT(*) AS count").
		Group("region").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Region] = row.Count
	}
	return out, nil
}

func (r *Repository) CasesByRegion(ctx context.Context) (map[string]int64, error) {
	return r.countByRegion(ctx, &models.Prescription{})
}

func (r *Repository) AlertsByRegion(ctx context.Context) (map[string]int64, error) {
	return r.countByRegion(ctx, &models.HealthAlert{})
}

func (r *Repository) RecentPrescriptions(ctx context.Context, limit int) ([]models.Prescription, error) {
	var ps []models.Prescription
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Limit(limit).Find(&ps).Error
	return ps, err
}
