package alert

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"healthwatch/internal/apperr"
	"healthwatch/internal/models"
	"healthwatch/pkg/websocket"
)

type mockAlertRepo struct {
	alerts []*models.HealthAlert
	clock  time.Time
}

func newMockAlertRepo() *mockAlertRepo {
	return &mockAlertRepo{clock: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
}

func (m *mockAlertRepo) CreateAlert(_ context.Context, a *models.HealthAlert) error {
	m.clock = m.clock.Add(time.Minute)
	a.ID = uint(len(m.alerts) + 1)
	a.CreatedAt = m.clock
	m.alerts = append(m.alerts, a)
	return nil
}

func (m *mockAlertRepo) GetAlert(_ context.Context, id uint) (*models.HealthAlert, error) {
	for _, a := range m.alerts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, apperr.NotFound("alert %d not found", id)
}

func (m *mockAlertRepo) ListActiveAlerts(_ context.Context, region string, limit int) ([]models.HealthAlert, error) {
	var out []models.HealthAlert
	for i := len(m.alerts) - 1; i >= 0; i-- {
		a := m.alerts[i]
		if !a.IsActive || (region != "" && a.Region != region) {
			continue
		}
		out = append(out, *a)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *mockAlertRepo) FindActiveAlert(_ context.Context, disease, region string) (*models.HealthAlert, error) {
	for _, a := range m.alerts {
		if a.IsActive && a.Region == region && strings.EqualFold(a.Disease, disease) {
			return a, nil
		}
	}
	return nil, apperr.NotFound("no active alert")
}

func (m *mockAlertRepo) DeactivateAlert(_ context.Context, id uint) (bool, error) {
	for _, a := range m.alerts {
		if a.ID == id && a.IsActive {
			a.IsActive = false
			return true, nil
		}
	}
	return false, nil
}

type recordingNotifier struct {
	events []string
}

func (n *recordingNotifier) BroadcastAlert(messageType string, a *models.HealthAlert) {
	n.events = append(n.events, messageType)
}

func newTestService() (*Service, *mockAlertRepo, *recordingNotifier) {
	repo := newMockAlertRepo()
	n := &recordingNotifier{}
	return NewService(repo, n, zerolog.Nop()), repo, n
}

func validInput() models.AlertInput {
	return models.AlertInput{
		Disease:  "Dengue",
		Region:   "District-A",
		Severity: "High",
		Message:  "Dengue cases are rising.",
	}
}

func TestCreateActivatesAndNotifies(t *testing.T) {
	svc, _, n := newTestService()

	a, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.IsActive || a.Severity != "high" {
		t.Errorf("unexpected alert %+v", a)
	}
	if len(n.events) != 1 || n.events[0] != websocket.MessageAlertCreated {
		t.Errorf("expected one created event, got %v", n.events)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newTestService()
	mutations := map[string]func(*models.AlertInput){
		"disease":  func(in *models.AlertInput) { in.Disease = " " },
		"region":   func(in *models.AlertInput) { in.Region = "" },
		"message":  func(in *models.AlertInput) { in.Message = "" },
		"severity": func(in *models.AlertInput) { in.Severity = "severe" },
		"count":    func(in *models.AlertInput) { in.CaseCount = -1 },
	}
	for name, mutate := range mutations {
		in := validInput()
		mutate(&in)
		if _, err := svc.Create(context.Background(), in); !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestListActiveFiltersAndOrders(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	first, _ := svc.Create(ctx, validInput())
	other := validInput()
	other.Region = "District-B"
	svc.Create(ctx, other)
	second, _ := svc.Create(ctx, validInput())

	all, _ := svc.ListActive(ctx, "")
	if len(all) != 3 {
		t.Fatalf("expected 3 alerts, got %d", len(all))
	}
	regional, _ := svc.ListActive(ctx, "District-A")
	if len(regional) != 2 || regional[0].ID != second.ID || regional[1].ID != first.ID {
		t.Errorf("expected newest-first District-A alerts, got %+v", regional)
	}
}

func TestDeactivateIsIdempotent(t *testing.T) {
	svc, _, n := newTestService()
	ctx := context.Background()
	a, _ := svc.Create(ctx, validInput())

	for i := 0; i < 2; i++ {
		got, err := svc.Deactivate(ctx, a.ID)
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i+1, err)
		}
		if got.IsActive {
			t.Errorf("call %d: alert still active", i+1)
		}
	}
	if len(n.events) != 2 || n.events[1] != websocket.MessageAlertDeactivated {
		t.Errorf("expected a single deactivation event, got %v", n.events)
	}
	active, _ := svc.ListActive(ctx, "")
	if len(active) != 0 {
		t.Errorf("expected no active alerts, got %d", len(active))
	}
}

func TestDeactivateUnknown(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.Deactivate(context.Background(), 42); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestHasActiveIsCaseInsensitive(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	svc.Create(ctx, validInput())

	if ok, _ := svc.HasActive(ctx, "DENGUE", "District-A"); !ok {
		t.Error("expected active alert for DENGUE")
	}
	if ok, _ := svc.HasActive(ctx, "Dengue", "District-B"); ok {
		t.Error("did not expect alert in District-B")
	}
}
