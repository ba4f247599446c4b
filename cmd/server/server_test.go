package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/rs/zerolog"

	"healthwatch/internal/admin"
	"healthwatch/internal/alert"
	"healthwatch/internal/apperr"
	"healthwatch/internal/auth"
	"healthwatch/internal/config"
	"healthwatch/internal/models"
	"healthwatch/internal/outbreak"
	"healthwatch/internal/quiz"
	"healthwatch/pkg/websocket"
)

const testSecret = "router-secret"

type stubUsers struct{ users map[string]*models.User }

func (s *stubUsers) GetUserBySubject(_ context.Context, subject string) (*models.User, error) {
	if u, ok := s.users[subject]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("user not found")
}

func (s *stubUsers) CreateUser(_ context.Context, u *models.User) (*models.User, error) {
	u.ID = uint(len(s.users) + 1)
	s.users[u.Subject] = u
	return u, nil
}

func token(t *testing.T, role string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  role + "-subject",
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// Services are nil: every request here must be rejected before a handler runs.
func testRouter() http.Handler {
	authService := auth.NewService(&stubUsers{users: map[string]*models.User{}}, zerolog.Nop())
	return newRouter(testSecret, authService, handlers{
		auth:     auth.NewHandler(),
		alerts:   alert.NewHandler(nil),
		outbreak: outbreak.NewHandler(nil),
		quiz:     quiz.NewHandler(nil),
		admin:    admin.NewHandler(nil),
		hub:      websocket.NewHub(zerolog.Nop()),
		health:   func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) },
	})
}

func TestRouterEnforcesRoles(t *testing.T) {
	router := testRouter()

	tests := []struct {
		method, path, role string
		want               int
	}{
		{http.MethodPost, "/api/prescriptions", "", http.StatusUnauthorized},
		{http.MethodPost, "/api/prescriptions", models.RolePublic, http.StatusForbidden},
		{http.MethodGet, "/api/prescriptions/recent", models.RoleAdmin, http.StatusForbidden},
		{http.MethodGet, "/api/doctor/stats", models.RolePublic, http.StatusForbidden},
		{http.MethodPost, "/api/alerts", models.RoleDoctor, http.StatusForbidden},
		{http.MethodPatch, "/api/alerts/1/deactivate", models.RoleDoctor, http.StatusForbidden},
		{http.MethodPost, "/api/diseases", models.RolePublic, http.StatusForbidden},
		{http.MethodPost, "/api/diseases", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/admin/stats", models.RoleDoctor, http.StatusForbidden},
		{http.MethodGet, "/api/admin/alerts", models.RolePublic, http.StatusForbidden},
		{http.MethodGet, "/api/admin/recent-activity", models.RoleDoctor, http.StatusForbidden},
		{http.MethodPost, "/api/quiz/answer", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/progress", "", http.StatusUnauthorized},
		{http.MethodGet, "/health", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path+" as "+tt.role, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.role != "" {
				req.Header.Set("Authorization", "Bearer "+token(t, tt.role))
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCurrentUserIsProvisioned(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, models.RoleDoctor))
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestNewLoggerFollowsEnvironment(t *testing.T) {
	var buf bytes.Buffer
	prodLogger := newLogger(&config.Config{Env: "production"}, &buf)
	prodLogger.Info().Msg("ready")
	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil || line["message"] != "ready" {
		t.Errorf("expected JSON output outside development, got %q", buf.String())
	}

	buf.Reset()
	devLogger := newLogger(&config.Config{Env: "development"}, &buf)
	devLogger.Info().Msg("ready")
	if json.Valid(buf.Bytes()) || !strings.Contains(buf.String(), "ready") {
		t.Errorf("expected console output in development, got %q", buf.String())
	}
}

func TestSetupReadsEnvironmentFromDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("ENV=staging\nJWT_SECRET=s3cret\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// t.Setenv restores the variables afterwards; unsetting lets .env supply them.
	for _, k := range []string{"ENV", "JWT_SECRET"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, _, err := setup()
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if cfg.IsDev() || cfg.Env != "staging" {
		t.Errorf("expected ENV from .env, got %q", cfg.Env)
	}
}
