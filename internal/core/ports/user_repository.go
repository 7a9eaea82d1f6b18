package ports

import (
	"context"

	"github.com/nagrathcare/clinic-api/internal/core/domain"
)

// UserRepository defines persistence for credential records. Uniqueness of
// email and of the super-admin role is enforced at this boundary (unique
// indexes), not by application-level existence checks.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	ListByRole(ctx context.Context, role string) ([]*domain.User, error)
}
