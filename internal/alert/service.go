package alert

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"healthwatch/internal/apperr"
	"healthwatch/internal/models"
	"healthwatch/pkg/websocket"
)

type AlertRepository interface {
	CreateAlert(ctx context.Context, alert *models.HealthAlert) error
	GetAlert(ctx context.Context, id uint) (*models.HealthAlert, error)
	ListActiveAlerts(ctx context.Context, region string, limit int) ([]models.HealthAlert, error)
	FindActiveAlert(ctx context.Context, disease, region string) (*models.HealthAlert, error)
	DeactivateAlert(ctx context.Context, id uint) (bool, error)
}

// Notifier pushes alert lifecycle events to live displays.
type Notifier interface {
	BroadcastAlert(messageType string, alert *models.HealthAlert)
}

const adminListLimit = 100

type Service struct {
	repo     AlertRepository
	notifier Notifier
	log      zerolog.Logger
}

func NewService(repo AlertRepository, notifier Notifier, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		log:      log.With().Str("component", "alerts").Logger(),
	}
}

// Create validates and persists a new active alert.
func (s *Service) Create(ctx context.Context, in models.AlertInput) (*models.HealthAlert, error) {
	in.Disease = strings.TrimSpace(in.Disease)
	in.Region = strings.TrimSpace(in.Region)
	in.Severity = strings.ToLower(strings.TrimSpace(in.Severity))
	switch {
	case in.Disease == "":
		return nil, apperr.Validation("disease is required")
	case in.Region == "":
		return nil, apperr.Validation("region is required")
	case strings.TrimSpace(in.Message) == "":
		return nil, apperr.Validation("message is required")
	case !models.ValidSeverity(in.Severity):
		return nil, apperr.Validation("severity must be one of low, medium, high, critical")
	case in.CaseCount < 0:
		return nil, apperr.Validation("caseCount must not be negative")
	}

	alert := &models.HealthAlert{
		Disease:            in.Disease,
		Region:             in.Region,
		Severity:           in.Severity,
		CaseCount:          in.CaseCount,
		Message:            in.Message,
		PreventiveMeasures: in.PreventiveMeasures,
		Symptoms:           in.Symptoms,
		IsActive:           true,
	}
	if err := s.repo.CreateAlert(ctx, alert); err != nil {
		return nil, err
	}

	s.log.Info().
		Uint("alert_id", alert.ID).
		Str("disease", alert.Disease).
		Str("region", alert.Region).
		Str("severity", alert.Severity).
		Int("case_count", alert.CaseCount).
		Msg("alert created")
	if s.notifier != nil {
		s.notifier.BroadcastAlert(websocket.MessageAlertCreated, alert)
	}
	return alert, nil
}

// ListActive returns active alerts newest first, optionally for one region.
func (s *Service) ListActive(ctx context.Context, region string) ([]models.HealthAlert, error) {
	return s.repo.ListActiveAlerts(ctx, strings.TrimSpace(region), 0)
}

// ListForAdmin returns the latest active alerts across all regions.
func (s *Service) ListForAdmin(ctx context.Context) ([]models.HealthAlert, error) {
	return s.repo.ListActiveAlerts(ctx, "", adminListLimit)
}

// HasActive reports whether disease (case-insensitive) already has an active alert in region.
func (s *Service) HasActive(ctx context.Context, disease, region string) (bool, error) {
	_, err := s.repo.FindActiveAlert(ctx, disease, region)
	if errors.Is(err, apperr.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Deactivate is idempotent: deactivating an inactive alert succeeds.
func (s *Service) Deactivate(ctx context.Context, id uint) (*models.HealthAlert, error) {
	changed, err := s.repo.DeactivateAlert(ctx, id)
	if err != nil {
		return nil, err
	}
	alert, err := s.repo.GetAlert(ctx, id)
	if err != nil {
		return nil, err
	}
	if changed {
		s.log.Info().Uint("alert_id", id).Msg("alert deactivated")
		if s.notifier != nil {
			s.notifier.BroadcastAlert(websocket.MessageAlertDeactivated, alert)
		}
	}
	return alert, nil
}
