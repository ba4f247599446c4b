package outbreak

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

func (r *Repository) CreatePrescription(ctx context.Context, p *models.Prescription) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *Repository) sameCase(ctx context.Context, region, diagnosis string, since time.Time) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Prescription{}).
		Where("region = ? AND LOWER(diagnosis) = LOWER(?) AND created_at >= ?", region, diagnosis, since)
}

// CountCases counts prescriptions in region whose diagnosis matches case-insensitively.
func (r *Repository) CountCases(ctx context.Context, region, diagnosis string, since time.Time) (int64, error) {
	var n int64
	err := r.sameCase(ctx, region, diagnosis, since).Count(&n).Error
	return n, err
}

// CaseSymptoms returns the symptom lists of the matching cases, oldest first.
func (r *Repository) CaseSymptoms(ctx context.Context, region, diagnosis string, since time.Time) ([][]string, error) {
	var rows []models.Prescription
	err := r.sameCase(ctx, region, diagnosis, since).
		Select("id", "symptoms").
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(rows))
	for i, p := range rows {
		out[i] = p.Symptoms
	}
	return out, nil
}

func (r *Repository) ListByDoctor(ctx context.Context, doctorID uint, limit int) ([]models.Prescription, error) {
	var ps []models.Prescription
	err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("created_at DESC").
		Limit(limit).
		Find(&ps).Error
	return ps, err
}

func (r *Repository) CountByDoctorSince(ctx context.Context, doctorID uint, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Prescription{}).
		Where("doctor_id = ? AND created_at >= ?", doctorID, since).
		Count(&n).Error
	return n, err
}

// TopDiseases groups by diagnosis; an empty region means all regions.
func (r *Repository) TopDiseases(ctx context.Context, region string, limit int) ([]models.DiseaseCount, error) {
	q := r.db.WithContext(ctx).Model(&models.Prescription{}).
		Select("diagnosis AS disease, COUNT(*) AS count")
	if region != "" {
		q = q.Where("region = ?", region)
	}
	var out []models.DiseaseCount
	err := q.Group("diagnosis").Order("count DESC").Limit(limit).Scan(&out).Error
	return out, err
}
