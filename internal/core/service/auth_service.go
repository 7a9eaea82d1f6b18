package service

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/nagrathcare/clinic-api/internal/core/domain"
	"github.com/nagrathcare/clinic-api/internal/core/ports"
)

const defaultTokenTTL = 30 * 24 * time.Hour

// AuthService implements bootstrap, admin management, login and profile
// editing. Tokens are stateless HS256 with a fixed validity window; there is
// no revocation list, so a password change does not invalidate old tokens.
type AuthService struct {
	repo      ports.UserRepository
	audit     ports.AuditRecorder
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, audit ports.AuditRecorder, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthService{repo: repo, audit: audit, jwtSecret: jwtSecret, tokenTTL: tokenTTL, logger: logger}
}

// BootstrapSuperAdmin creates the one super-admin account. There is no
// existence pre-check: the insert runs unconditionally and the partial
// unique index on the role turns a concurrent second attempt into
// ErrSuperAdminExists, so exactly one can ever win.
func (s *AuthService) BootstrapSuperAdmin(ctx context.Context, creds ports.Credentials) (*ports.AuthResult, error) {
	user, err := s.register(ctx, creds, domain.RoleSuperAdmin)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("email", user.Email).Msg("super admin created")
	return s.withToken(user)
}

// CreateAdmin registers a new admin account on behalf of the super-admin.
func (s *AuthService) CreateAdmin(ctx context.Context, actor *domain.User, creds ports.Credentials) (*ports.AuthResult, error) {
	user, err := s.register(ctx, creds, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}

	s.record(actor, domain.AuditAdminCreated, user.ID)
	s.logger.Info().Str("email", user.Email).Msg("admin created")
	return s.withToken(user)
}

func (s *AuthService) register(ctx context.Context, creds ports.Credentials, role string) (*domain.User, error) {
	if creds.Name == "" || creds.Email == "" || creds.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(creds.Email); err != nil {
		return nil, fmt.Errorf("%w: malformed email", domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	return s.repo.Create(ctx, &domain.User{
		Name:         creds.Name,
		Email:        creds.Email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// Login verifies the credentials and issues a fresh token. A missing account
// and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.withToken(user)
}

func (s *AuthService) ListAdmins(ctx context.Context) ([]*domain.User, error) {
	return s.repo.ListByRole(ctx, domain.RoleAdmin)
}

// DeleteAdmin removes an admin account. Super-admin accounts cannot be
// deleted through this path.
func (s *AuthService) DeleteAdmin(ctx context.Context, actor *domain.User, id string) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Role != domain.RoleAdmin {
		return fmt.Errorf("%w: not an admin account", domain.ErrUserNotFound)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.record(actor, domain.AuditAdminDeleted, id)
	s.logger.Info().Str("admin_id", id).Msg("admin deleted")
	return nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

// UpdateProfile applies a partial self edit. A supplied password is
// irreversibly re-hashed; the plaintext is never persisted.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, update ports.ProfileUpdate) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Name != "" {
		user.Name = update.Name
	}
	if update.Email != "" {
		if _, err := mail.ParseAddress(update.Email); err != nil {
			return nil, fmt.Errorf("%w: malformed email", domain.ErrInvalidInput)
		}
		user.Email = update.Email
	}
	if update.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(update.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = time.Now().UTC()

	return s.repo.Update(ctx, user)
}

func (s *AuthService) withToken(user *domain.User) (*ports.AuthResult, error) {
	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &ports.AuthResult{User: user, Token: token}, nil
}

// issueToken signs an HS256 token carrying the subject id, valid for the
// configured window from issuance.
func (s *AuthService) issueToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"id":  userID,
		"exp": time.Now().Add(s.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) record(actor *domain.User, action, entityID string) {
	if s.audit == nil || actor == nil {
		return
	}
	s.audit.Record(domain.AuditEntry{
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		Action:    action,
		EntityID:  entityID,
		At:        time.Now().UTC(),
	})
}
