package ports

import (
	"context"

	"github.com/nagrathcare/clinic-api/internal/core/domain"
)

// Credentials carries the plaintext registration/login payload. The
// plaintext password never travels further than the auth service.
type Credentials struct {
	Name     string
	Email    string
	Password string
}

// AuthResult pairs a persisted user with a freshly issued token.
type AuthResult struct {
	User  *domain.User
	Token string
}

// ProfileUpdate is a partial self-service profile edit; empty fields are
// left unchanged. A non-empty Password is re-hashed before persistence.
type ProfileUpdate struct {
	Name     string
	Email    string
	Password string
}

// AuthService implements account bootstrap, admin management and login.
type AuthService interface {
	BootstrapSuperAdmin(ctx context.Context, creds Credentials) (*AuthResult, error)
	CreateAdmin(ctx context.Context, actor *domain.User, creds Credentials) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	ListAdmins(ctx context.Context) ([]*domain.User, error)
	DeleteAdmin(ctx context.Context, actor *domain.User, id string) error
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*domain.User, error)
}
