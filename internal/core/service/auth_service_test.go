package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/nagrathcare/clinic-api/internal/core/domain"
	"github.com/nagrathcare/clinic-api/internal/core/ports"
)

// stubUserRepo keeps users in a map and mimics the store's uniqueness
// behaviour: one super-admin ever, one account per email.
type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if user.Role == domain.RoleSuperAdmin && u.Role == domain.RoleSuperAdmin {
			return nil, domain.ErrSuperAdminExists
		}
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.nextID++
	cp := *user
	cp.ID = "user-" + strconv.Itoa(r.nextID)
	r.users[cp.ID] = &cp
	return &cp, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *user
	r.users[cp.ID] = &cp
	return &cp, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) ListByRole(_ context.Context, role string) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

// stubRecorder captures audit entries synchronously.
type stubRecorder struct {
	entries []domain.AuditEntry
}

func (r *stubRecorder) Record(entry domain.AuditEntry) {
	r.entries = append(r.entries, entry)
}

func newAuthService(repo ports.UserRepository, audit ports.AuditRecorder) *AuthService {
	return NewAuthService(repo, audit, "test-secret", time.Hour, zerolog.Nop())
}

func TestBootstrapSuperAdmin(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, nil)

	result, err := svc.BootstrapSuperAdmin(context.Background(), ports.Credentials{
		Name: "Root", Email: "root@clinic.test", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if result.User.Role != domain.RoleSuperAdmin {
		t.Fatalf("expected role %q, got %q", domain.RoleSuperAdmin, result.User.Role)
	}
	if result.Token == "" {
		t.Fatalf("expected a token")
	}
	if result.User.PasswordHash == "secret123" {
		t.Fatalf("password stored in plaintext")
	}
	if bcrypt.CompareHashAndPassword([]byte(result.User.PasswordHash), []byte("secret123")) != nil {
		t.Fatalf("stored hash does not verify the password")
	}
}

func TestBootstrapSuperAdmin_SecondAttemptFails(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, nil)

	creds := ports.Credentials{Name: "Root", Email: "root@clinic.test", Password: "secret123"}
	if _, err := svc.BootstrapSuperAdmin(context.Background(), creds); err != nil {
		t.Fatalf("first bootstrap: %v", err)
	}

	creds.Email = "other@clinic.test"
	_, err := svc.BootstrapSuperAdmin(context.Background(), creds)
	if !errors.Is(err, domain.ErrSuperAdminExists) {
		t.Fatalf("expected ErrSuperAdminExists, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), nil)

	cases := []struct {
		name  string
		creds ports.Credentials
	}{
		{"missing name", ports.Credentials{Email: "a@b.test", Password: "secret123"}},
		{"missing email", ports.Credentials{Name: "A", Password: "secret123"}},
		{"missing password", ports.Credentials{Name: "A", Email: "a@b.test"}},
		{"malformed email", ports.Credentials{Name: "A", Email: "not-an-email", Password: "secret123"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.BootstrapSuperAdmin(context.Background(), tc.creds)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, nil)

	if _, err := svc.BootstrapSuperAdmin(context.Background(), ports.Credentials{
		Name: "Root", Email: "root@clinic.test", Password: "secret123",
	}); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	result, err := svc.Login(context.Background(), "root@clinic.test", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// The token must verify with the shared secret and carry the subject id.
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(result.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !tkn.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims["id"] != result.User.ID {
		t.Fatalf("token subject %v, want %s", claims["id"], result.User.ID)
	}
	if _, ok := claims["exp"]; !ok {
		t.Fatalf("token has no expiry")
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, nil)

	if _, err := svc.BootstrapSuperAdmin(context.Background(), ports.Credentials{
		Name: "Root", Email: "root@clinic.test", Password: "secret123",
	}); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	// Wrong password and unknown account look identical to the caller.
	if _, err := svc.Login(context.Background(), "root@clinic.test", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "nobody@clinic.test", "secret123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestCreateAdmin_RecordsAudit(t *testing.T) {
	repo := newStubUserRepo()
	audit := &stubRecorder{}
	svc := newAuthService(repo, audit)

	actor := &domain.User{ID: "sa-1", Role: domain.RoleSuperAdmin}
	result, err := svc.CreateAdmin(context.Background(), actor, ports.Credentials{
		Name: "Doc", Email: "doc@clinic.test", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if result.User.Role != domain.RoleAdmin {
		t.Fatalf("expected role %q, got %q", domain.RoleAdmin, result.User.Role)
	}

	if len(audit.entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(audit.entries))
	}
	e := audit.entries[0]
	if e.Action != domain.AuditAdminCreated || e.ActorID != "sa-1" || e.EntityID != result.User.ID {
		t.Fatalf("unexpected audit entry: %+v", e)
	}
}

func TestCreateAdmin_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, nil)

	actor := &domain.User{ID: "sa-1", Role: domain.RoleSuperAdmin}
	creds := ports.Credentials{Name: "Doc", Email: "doc@clinic.test", Password: "secret123"}
	if _, err := svc.CreateAdmin(context.Background(), actor, creds); err != nil {
		t.Fatalf("create admin: %v", err)
	}

	if _, err := svc.CreateAdmin(context.Background(), actor, creds); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestDeleteAdmin_RefusesSuperAdmin(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, nil)

	boot, err := svc.BootstrapSuperAdmin(context.Background(), ports.Credentials{
		Name: "Root", Email: "root@clinic.test", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	err = svc.DeleteAdmin(context.Background(), boot.User, boot.User.ID)
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := repo.FindByID(context.Background(), boot.User.ID); err != nil {
		t.Fatalf("super admin was deleted")
	}
}

func TestUpdateProfile_RehashesPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, nil)

	boot, err := svc.BootstrapSuperAdmin(context.Background(), ports.Credentials{
		Name: "Root", Email: "root@clinic.test", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	updated, err := svc.UpdateProfile(context.Background(), boot.User.ID, ports.ProfileUpdate{
		Name:     "Rooter",
		Password: "newsecret",
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.Name != "Rooter" {
		t.Fatalf("name not updated: %q", updated.Name)
	}
	if updated.Email != "root@clinic.test" {
		t.Fatalf("email should be unchanged, got %q", updated.Email)
	}

	if _, err := svc.Login(context.Background(), "root@clinic.test", "newsecret"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, err := svc.Login(context.Background(), "root@clinic.test", "secret123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password still works")
	}
}
