package ports

import (
	"context"
	"time"

	"github.com/nagrathcare/clinic-api/internal/core/domain"
)

// PatientFields carries the typed demographic and lab-panel data for a new
// record. Lab sections are optional; nil means "not supplied".
type PatientFields struct {
	Name         string
	Age          int
	Mobile       string
	BloodGroup   string
	AddressLine1 string
	Address      string
	Pincode      string
	District     string
	City         string
	State        string
	Country      string
	Gender       string
	DateOfBirth  time.Time
	AadharNumber string

	Hemoglobin        *domain.LabResult
	BloodPressure     *domain.LabResult
	HeartRate         *domain.LabResult
	FastingBloodSugar *domain.LabResult
	Calcium           *domain.LabResult
	BloodCBC          domain.LabPanel
	UrineTest         domain.LabPanel
	LipidProfile      domain.LabPanel
	TSHTest           domain.LabPanel
}

// CreatePatientInput is everything needed to create a record in one request:
// the owning admin, the typed fields, and the not-yet-uploaded files.
type CreatePatientInput struct {
	Actor     *domain.User
	Fields    PatientFields
	Photo     *UploadFile
	Documents []UploadFile
}

// UpdatePatientInput is a partial update plus optional replacement files.
type UpdatePatientInput struct {
	Actor     *domain.User
	ID        string
	Patch     *domain.PatientPatch
	Photo     *UploadFile
	Documents []UploadFile
}

// PatientService defines the patient-record use cases.
type PatientService interface {
	CreatePatient(ctx context.Context, in CreatePatientInput) (*domain.Patient, error)
	GetPatient(ctx context.Context, id string) (*domain.Patient, error)
	ListPatients(ctx context.Context) ([]*domain.Patient, error)
	SearchPatients(ctx context.Context, filter SearchFilter) ([]*domain.Patient, error)
	UpdatePatient(ctx context.Context, in UpdatePatientInput) (*domain.Patient, error)
	DeletePatient(ctx context.Context, actor *domain.User, id string) error
	// PatientQRCode returns the scannable data URL for the public lookup
	// link, served through the cache when warm.
	PatientQRCode(ctx context.Context, id string) (string, error)
	PublicPatient(ctx context.Context, id string) (*domain.PublicView, error)
}
