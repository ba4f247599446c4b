package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/rs/zerolog"

	"healthwatch/internal/apperr"
	"healthwatch/internal/models"
)

const testSecret = "test-secret"

type mockUserRepo struct {
	users  map[string]*models.User
	nextID uint
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*models.User)}
}

func (m *mockUserRepo) GetUserBySubject(_ context.Context, subject string) (*models.User, error) {
	u, ok := m.users[subject]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return u, nil
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	if existing, ok := m.users[user.Subject]; ok {
		return existing, nil
	}
	m.nextID++
	user.ID = m.nextID
	m.users[user.Subject] = user
	return user, nil
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestResolveProvisionsOnFirstAuthentication(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo, zerolog.Nop())

	u, err := svc.Resolve(context.Background(), Identity{Subject: "idp|1", Role: "doctor", Region: "District-A"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Role != models.RoleDoctor || u.Region != "District-A" || u.Level != 1 {
		t.Errorf("unexpected user %+v", u)
	}

	// Later tokens do not override the stored role.
	again, _ := svc.Resolve(context.Background(), Identity{Subject: "idp|1", Role: "admin"})
	if again.ID != u.ID || again.Role != models.RoleDoctor {
		t.Errorf("expected stored doctor, got %+v", again)
	}
}

func TestResolveDefaultsUnknownRoleToPublic(t *testing.T) {
	svc := NewService(newMockUserRepo(), zerolog.Nop())
	u, err := svc.Resolve(context.Background(), Identity{Subject: "idp|2", Role: "superuser"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Role != models.RolePublic {
		t.Errorf("expected public, got %s", u.Role)
	}
}

func TestJWTMiddleware(t *testing.T) {
	svc := NewService(newMockUserRepo(), zerolog.Nop())
	var seen *models.User
	h := JWTMiddleware(testSecret, svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
	}))

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"malformed", "Token abc", http.StatusUnauthorized},
		{"bad signature", "Bearer " + func() string {
			s, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x"}).SignedString([]byte("other"))
			return s
		}(), http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, jwt.MapClaims{"sub": "x", "exp": time.Now().Add(-time.Hour).Unix()}), http.StatusUnauthorized},
		{"valid", "Bearer " + signToken(t, jwt.MapClaims{"sub": "idp|9", "role": "admin"}), http.StatusOK},
	}
	for _, tc := range cases {
		seen = nil
		req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.want, rec.Code)
		}
		if tc.want == http.StatusOK && (seen == nil || seen.Role != models.RoleAdmin) {
			t.Errorf("%s: expected admin user in context, got %+v", tc.name, seen)
		}
	}
}

func TestRequireRole(t *testing.T) {
	h := RequireRole(models.RoleDoctor, models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		user *models.User
		want int
	}{
		{nil, http.StatusUnauthorized},
		{&models.User{Role: models.RolePublic}, http.StatusForbidden},
		{&models.User{Role: models.RoleDoctor}, http.StatusNoContent},
		{&models.User{Role: models.RoleAdmin}, http.StatusNoContent},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/prescriptions", nil)
		if tc.user != nil {
			req = req.WithContext(WithUser(req.Context(), tc.user))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Errorf("user %+v: expected %d, got %d", tc.user, tc.want, rec.Code)
		}
	}
}

func TestCurrentUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	req = req.WithContext(WithUser(req.Context(), &models.User{ID: 3, Role: models.RolePublic, TotalPoints: 250, Level: 3}))
	rec := httptest.NewRecorder()

	NewHandler().CurrentUser(rec, req)

	var got models.User
	json.Unmarshal(rec.Body.Bytes(), &got)
	if rec.Code != http.StatusOK || got.ID != 3 || got.Level != 3 {
		t.Errorf("unexpected response %d %+v", rec.Code, got)
	}
}
