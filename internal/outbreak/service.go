// Package outbreak records prescriptions and turns threshold crossings into alerts.
package outbreak

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"healthwatch/internal/apperr"
	"healthwatch/internal/models"
	"healthwatch/internal/textgen"
	"healthwatch/pkg/cache"
)

const (
	// CaseThreshold same-diagnosis cases in one region within Window mint an alert.
	CaseThreshold = 10
	Window        = 7 * 24 * time.Hour

	recentLimit   = 20
	topDiseaseMax = 5
	lockTTL       = 2 * time.Minute
)

type PrescriptionRepository interface {
	CreatePrescription(ctx context.Context, p *models.Prescription) error
	CountCases(ctx context.Context, region, diagnosis string, since time.Time) (int64, error)
	CaseSymptoms(ctx context.Context, region, diagnosis string, since time.Time) ([][]string, error)
	ListByDoctor(ctx context.Context, doctorID uint, limit int) ([]models.Prescription, error)
	CountByDoctorSince(ctx context.Context, doctorID uint, since time.Time) (int64, error)
	TopDiseases(ctx context.Context, region string, limit int) ([]models.DiseaseCount, error)
}

type AlertManager interface {
	Create(ctx context.Context, in models.AlertInput) (*models.HealthAlert, error)
	ListActive(ctx context.Context, region string) ([]models.HealthAlert, error)
	HasActive(ctx context.Context, disease, region string) (bool, error)
}

type AlertDrafter interface {
	DraftAlert(ctx context.Context, in textgen.AlertRequest) textgen.AlertDraft
}

// Locker serialises threshold handling for one region and diagnosis.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, func(), error)
}

type Service struct {
	repo    PrescriptionRepository
	alerts  AlertManager
	drafter AlertDrafter
	locker  Locker
	now     func() time.Time
	log     zerolog.Logger
}

func NewService(repo PrescriptionRepository, alerts AlertManager, drafter AlertDrafter, locker Locker, log zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		alerts:  alerts,
		drafter: drafter,
		locker:  locker,
		now:     time.Now,
		log:     log.With().Str("component", "outbreak").Logger(),
	}
}

// Submit stores a doctor's prescription and runs outbreak detection for it.
// Detection failures are logged; the stored prescription is still returned.
func (s *Service) Submit(ctx context.Context, doctor *models.User, in models.PrescriptionInput) (*models.Prescription, error) {
	p, err := newPrescription(doctor, in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreatePrescription(ctx, p); err != nil {
		return nil, err
	}

	if _, err := s.Detect(ctx, p); err != nil {
		s.log.Error().Err(err).
			Uint("prescription_id", p.ID).
			Str("region", p.Region).
			Str("diagnosis", p.Diagnosis).
			Msg("outbreak detection failed")
	}
	return p, nil
}

func newPrescription(doctor *models.User, in models.PrescriptionInput) (*models.Prescription, error) {
	p := &models.Prescription{
		DoctorID:  doctor.ID,
		Region:    strings.TrimSpace(in.Region),
		Diagnosis: strings.TrimSpace(in.Diagnosis),
		AgeGroup:  strings.TrimSpace(in.AgeGroup),
		Gender:    strings.TrimSpace(in.Gender),
		Severity:  strings.TrimSpace(in.Severity),
	}
	for _, field := range []struct{ name, value string }{
		{"ageGroup", p.AgeGroup},
		{"gender", p.Gender},
		{"diagnosis", p.Diagnosis},
		{"severity", p.Severity},
		{"region", p.Region},
	} {
		if field.value == "" {
			return nil, apperr.Validation("%s is required", field.name)
		}
	}
	for _, sym := range in.Symptoms {
		if sym = strings.TrimSpace(sym); sym != "" {
			p.Symptoms = append(p.Symptoms, sym)
		}
	}
	return p, nil
}

// Detect counts same-diagnosis cases in p's region over the trailing window
// (p included) and creates an alert when the threshold is met, unless an
// active alert for that disease and region already exists.
func (s *Service) Detect(ctx context.Context, p *models.Prescription) (*models.HealthAlert, error) {
	since := p.CreatedAt.Add(-Window)
	count, err := s.repo.CountCases(ctx, p.Region, p.Diagnosis, since)
	if err != nil {
		return nil, err
	}
	if count < CaseThreshold {
		return nil, nil
	}

	log := s.log.With().Str("region", p.Region).Str("diagnosis", p.Diagnosis).Int64("case_count", count).Logger()

	if s.locker != nil {
		ok, release, err := s.locker.Acquire(ctx, cache.OutbreakLockKey(p.Region, p.Diagnosis), lockTTL)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("outbreak lock unavailable; relying on active-alert check")
		case !ok:
			log.Debug().Msg("another request is handling this crossing")
			return nil, nil
		}
		if release != nil {
			defer release()
		}
	}

	exists, err := s.alerts.HasActive(ctx, p.Diagnosis, p.Region)
	if err != nil {
		return nil, err
	}
	if exists {
		log.Debug().Msg("active alert already present")
		return nil, nil
	}

	symptomLists, err := s.repo.CaseSymptoms(ctx, p.Region, p.Diagnosis, since)
	if err != nil {
		return nil, err
	}
	symptoms := unionSymptoms(symptomLists)

	draft := s.drafter.DraftAlert(ctx, textgen.AlertRequest{
		Disease:   p.Diagnosis,
		CaseCount: int(count),
		Region:    p.Region,
		Symptoms:  symptoms,
	})

	log.Info().Msg("threshold crossed; creating alert")
	return s.alerts.Create(ctx, models.AlertInput{
		Disease:            p.Diagnosis,
		Region:             p.Region,
		Severity:           draft.Severity,
		CaseCount:          int(count),
		Message:            draft.Message,
		PreventiveMeasures: draft.PreventiveMeasures,
		Symptoms:           symptoms,
	})
}

// unionSymptoms keeps the first spelling of each symptom, compared case-insensitively.
func unionSymptoms(lists [][]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, s := range list {
			key := strings.ToLower(s)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, s)
		}
	}
	return out
}

func (s *Service) Recent(ctx context.Context, doctor *models.User) ([]models.Prescription, error) {
	return s.repo.ListByDoctor(ctx, doctor.ID, recentLimit)
}

type DoctorStats struct {
	models.PrescriptionStats
	ActiveAlerts int                   `json:"activeAlerts"`
	TopDiseases  []models.DiseaseCount `json:"topDiseases"`
}

// Stats summarises a doctor's activity and the state of the doctor's region.
func (s *Service) Stats(ctx context.Context, doctor *models.User) (*DoctorStats, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	todayCount, err := s.repo.CountByDoctorSince(ctx, doctor.ID, today)
	if err != nil {
		return nil, err
	}
	weekCount, err := s.repo.CountByDoctorSince(ctx, doctor.ID, now.Add(-Window))
	if err != nil {
		return nil, err
	}
	top, err := s.repo.TopDiseases(ctx, doctor.Region, topDiseaseMax)
	if err != nil {
		return nil, err
	}
	active, err := s.alerts.ListActive(ctx, doctor.Region)
	if err != nil {
		return nil, err
	}

	if top == nil {
		top = []models.DiseaseCount{}
	}
	return &DoctorStats{
		PrescriptionStats: models.PrescriptionStats{TodayEntries: todayCount, WeekEntries: weekCount},
		ActiveAlerts:      len(active),
		TopDiseases:       top,
	}, nil
}
