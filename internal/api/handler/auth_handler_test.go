package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/nagrathcare/clinic-api/internal/core/domain"
	"github.com/nagrathcare/clinic-api/internal/core/ports"
)

// stubAuthService returns canned results and records the last credentials.
type stubAuthService struct {
	result *ports.AuthResult
	err    error
	creds  ports.Credentials
}

func (s *stubAuthService) BootstrapSuperAdmin(_ context.Context, creds ports.Credentials) (*ports.AuthResult, error) {
	s.creds = creds
	return s.result, s.err
}

func (s *stubAuthService) CreateAdmin(_ context.Context, _ *domain.User, creds ports.Credentials) (*ports.AuthResult, error) {
	s.creds = creds
	return s.result, s.err
}

func (s *stubAuthService) Login(context.Context, string, string) (*ports.AuthResult, error) {
	return s.result, s.err
}

func (s *stubAuthService) ListAdmins(context.Context) ([]*domain.User, error) {
	return []*domain.User{{ID: "a1", Name: "Doc", Email: "doc@clinic.test", Role: domain.RoleAdmin}}, nil
}

func (s *stubAuthService) DeleteAdmin(context.Context, *domain.User, string) error { return s.err }

func (s *stubAuthService) Profile(context.Context, string) (*domain.User, error) {
	return s.result.User, s.err
}

func (s *stubAuthService) UpdateProfile(context.Context, string, ports.ProfileUpdate) (*domain.User, error) {
	return s.result.User, s.err
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func postJSON(e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCreateSuperAdmin(t *testing.T) {
	svc := &stubAuthService{result: &ports.AuthResult{
		User:  &domain.User{ID: "sa-1", Name: "Root", Email: "root@clinic.test", Role: domain.RoleSuperAdmin},
		Token: "token-123",
	}}
	h := NewAuthHandler(svc)

	c, rec := postJSON(newEcho(), "/api/auth/createSuperAdmin",
		`{"name":"Root","email":"root@clinic.test","password":"secret123"}`)
	if err := h.CreateSuperAdmin(c); err != nil {
		t.Fatalf("handler: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID != "sa-1" || resp.Role != domain.RoleSuperAdmin || resp.Token != "token-123" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if svc.creds.Email != "root@clinic.test" {
		t.Fatalf("credentials not forwarded: %+v", svc.creds)
	}
}

func TestCreateSuperAdmin_ValidationErrors(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})
	e := newEcho()

	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"email":"root@clinic.test","password":"secret123"}`},
		{"bad email", `{"name":"Root","email":"nope","password":"secret123"}`},
		{"short password", `{"name":"Root","email":"root@clinic.test","password":"abc"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := postJSON(e, "/api/auth/createSuperAdmin", tc.body)
			err := h.CreateSuperAdmin(c)
			he, ok := err.(*echo.HTTPError)
			if !ok || he.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 HTTPError, got %v", err)
			}
		})
	}
}

func TestCreateSuperAdmin_AlreadyExists(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{err: domain.ErrSuperAdminExists})

	c, _ := postJSON(newEcho(), "/api/auth/createSuperAdmin",
		`{"name":"Root","email":"root@clinic.test","password":"secret123"}`)
	err := h.CreateSuperAdmin(c)
	if err == nil || !strings.Contains(err.Error(), domain.ErrSuperAdminExists.Error()) {
		// The sentinel passes through untouched; the central handler maps it.
		t.Fatalf("expected ErrSuperAdminExists, got %v", err)
	}
}

func TestLogin_InvalidCredentialsPassThrough(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{err: domain.ErrInvalidCredentials})

	c, _ := postJSON(newEcho(), "/api/auth/login",
		`{"email":"root@clinic.test","password":"wrong"}`)
	if err := h.Login(c); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestListAdmins(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	e := newEcho()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/admins", nil)
	rec := httptest.NewRecorder()
	if err := h.ListAdmins(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler: %v", err)
	}

	var resp []profileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp) != 1 || resp[0].Role != domain.RoleAdmin {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
