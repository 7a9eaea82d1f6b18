package ports

import (
	"context"

	"github.com/nagrathcare/clinic-api/internal/core/domain"
)

// SearchFilter holds the optional patient search criteria. Each non-empty
// field is matched as a case-insensitive substring; set fields combine
// conjunctively.
type SearchFilter struct {
	Name     string
	City     string
	District string
	State    string
	Country  string
}

// PatientRepository defines persistence for patient records.
type PatientRepository interface {
	// NewID reserves an identifier so the QR code can be derived before the
	// record is ever written, keeping creation a single insert.
	NewID() string
	Create(ctx context.Context, p *domain.Patient) error
	FindByID(ctx context.Context, id string) (*domain.Patient, error)
	List(ctx context.Context) ([]*domain.Patient, error)
	Search(ctx context.Context, filter SearchFilter) ([]*domain.Patient, error)
	// Update applies the patch field-by-field, stores the recomputed QR code
	// and refreshes updated_at. It returns the post-update record.
	Update(ctx context.Context, id string, patch *domain.PatientPatch, qrCode string) (*domain.Patient, error)
	Delete(ctx context.Context, id string) error
}
