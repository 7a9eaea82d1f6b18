package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/nagrathcare/clinic-api/internal/core/domain"
	"github.com/nagrathcare/clinic-api/internal/core/ports"
)

const (
	maxFileSize  = 5 << 20 // 5 MiB per file
	maxDocuments = 5
	maxFiles     = 6
)

// allowedContentTypes lists the declared MIME types accepted for uploads.
var allowedContentTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"application/pdf": {},
}

// PatientService implements the patient-record lifecycle: validated create
// with attachments and QR linkage, explicit partial update, search, public
// projection. Uploads always complete before the record is written; the QR
// code is derived from a store-reserved id so creation is a single insert.
type PatientService struct {
	repo          ports.PatientRepository
	uploader      ports.Uploader
	qr            ports.QRGenerator
	cache         ports.QRCache
	audit         ports.AuditRecorder
	publicBaseURL string
	logger        zerolog.Logger
}

func NewPatientService(
	repo ports.PatientRepository,
	uploader ports.Uploader,
	qr ports.QRGenerator,
	cache ports.QRCache,
	audit ports.AuditRecorder,
	publicBaseURL string,
	logger zerolog.Logger,
) *PatientService {
	return &PatientService{
		repo:          repo,
		uploader:      uploader,
		qr:            qr,
		cache:         cache,
		audit:         audit,
		publicBaseURL: publicBaseURL,
		logger:        logger,
	}
}

func (s *PatientService) CreatePatient(ctx context.Context, in ports.CreatePatientInput) (*domain.Patient, error) {
	if err := validateFields(in.Fields); err != nil {
		return nil, err
	}
	if err := validateBatch(in.Photo, in.Documents); err != nil {
		return nil, err
	}

	photoURL, documents, err := s.uploadAll(ctx, in.Photo, in.Documents)
	if err != nil {
		return nil, err
	}

	// The id is reserved up front so the QR code exists before the insert;
	// a QR failure therefore aborts the create with nothing persisted.
	id := s.repo.NewID()
	qrCode, err := s.qr.DataURL(s.publicURL(id))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrQREncodingFailed, err)
	}

	now := time.Now().UTC()
	f := in.Fields
	patient := &domain.Patient{
		ID:           id,
		AdminID:      in.Actor.ID,
		Name:         f.Name,
		Age:          f.Age,
		Mobile:       f.Mobile,
		BloodGroup:   f.BloodGroup,
		AddressLine1: f.AddressLine1,
		Address:      f.Address,
		Pincode:      f.Pincode,
		District:     f.District,
		City:         f.City,
		State:        f.State,
		Country:      f.Country,
		Gender:       f.Gender,
		DateOfBirth:  f.DateOfBirth,
		AadharNumber: f.AadharNumber,

		Hemoglobin:        f.Hemoglobin,
		BloodPressure:     f.BloodPressure,
		HeartRate:         f.HeartRate,
		FastingBloodSugar: f.FastingBloodSugar,
		Calcium:           f.Calcium,
		BloodCBC:          f.BloodCBC,
		UrineTest:         f.UrineTest,
		LipidProfile:      f.LipidProfile,
		TSHTest:           f.TSHTest,

		Photo:     photoURL,
		Documents: documents,
		QRCode:    qrCode,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		// Uploads that already landed are orphaned here, not rolled back.
		return nil, err
	}

	s.cache.Set(ctx, id, qrCode)
	s.record(in.Actor, domain.AuditPatientCreated, id)
	s.logger.Info().Str("patient_id", id).Str("admin_id", in.Actor.ID).Msg("patient created")

	return patient, nil
}

func (s *PatientService) GetPatient(ctx context.Context, id string) (*domain.Patient, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *PatientService) ListPatients(ctx context.Context) ([]*domain.Patient, error) {
	return s.repo.List(ctx)
}

func (s *PatientService) SearchPatients(ctx context.Context, filter ports.SearchFilter) ([]*domain.Patient, error) {
	return s.repo.Search(ctx, filter)
}

func (s *PatientService) UpdatePatient(ctx context.Context, in ports.UpdatePatientInput) (*domain.Patient, error) {
	patch := in.Patch
	if patch == nil {
		patch = &domain.PatientPatch{}
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	if err := validateBatch(in.Photo, in.Documents); err != nil {
		return nil, err
	}

	photoURL, documents, err := s.uploadAll(ctx, in.Photo, in.Documents)
	if err != nil {
		return nil, err
	}
	if in.Photo != nil {
		patch.Photo = &photoURL
	}
	if len(documents) > 0 {
		patch.Documents = documents
	}
	if patch.IsZero() {
		// Legal but unusual: the update still refreshes the QR code.
		s.logger.Debug().Str("patient_id", in.ID).Msg("empty patch, qr refresh only")
	}

	// The encoded URL only depends on the id, but regenerating keeps the
	// stored code correct across public-base-URL changes.
	qrCode, err := s.qr.DataURL(s.publicURL(in.ID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrQREncodingFailed, err)
	}

	patient, err := s.repo.Update(ctx, in.ID, patch, qrCode)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, in.ID, qrCode)
	s.record(in.Actor, domain.AuditPatientUpdated, in.ID)
	s.logger.Info().Str("patient_id", in.ID).Msg("patient updated")

	return patient, nil
}

func (s *PatientService) DeletePatient(ctx context.Context, actor *domain.User, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, id)
	s.record(actor, domain.AuditPatientDeleted, id)
	s.logger.Info().Str("patient_id", id).Msg("patient deleted")
	return nil
}

func (s *PatientService) PatientQRCode(ctx context.Context, id string) (string, error) {
	if code, ok := s.cache.Get(ctx, id); ok {
		return code, nil
	}

	// Cold path: confirm the record exists, then regenerate.
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return "", err
	}
	code, err := s.qr.DataURL(s.publicURL(id))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrQREncodingFailed, err)
	}

	s.cache.Set(ctx, id, code)
	return code, nil
}

func (s *PatientService) PublicPatient(ctx context.Context, id string) (*domain.PublicView, error) {
	patient, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return patient.Public(), nil
}

// uploadAll streams the already-validated batch to blob storage. Documents
// keep their original filename and declared content type.
func (s *PatientService) uploadAll(ctx context.Context, photo *ports.UploadFile, docs []ports.UploadFile) (string, []domain.Document, error) {
	var photoURL string
	if photo != nil {
		url, err := s.uploader.Upload(ctx, ports.FolderPhotos, *photo)
		if err != nil {
			return "", nil, fmt.Errorf("%w: photo: %v", domain.ErrUploadFailed, err)
		}
		photoURL = url
	}

	var documents []domain.Document
	for _, doc := range docs {
		url, err := s.uploader.Upload(ctx, ports.FolderDocuments, doc)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %s: %v", domain.ErrUploadFailed, doc.FileName, err)
		}
		documents = append(documents, domain.Document{
			FileName: doc.FileName,
			FileURL:  url,
			FileType: doc.ContentType,
		})
	}

	return photoURL, documents, nil
}

func (s *PatientService) publicURL(id string) string {
	return s.publicBaseURL + "/public-patient/" + id
}

func (s *PatientService) record(actor *domain.User, action, entityID string) {
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

// validateFields checks the required demographics for a new record.
func validateFields(f ports.PatientFields) error {
	switch {
	case f.Name == "":
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	case f.Age <= 0:
		return fmt.Errorf("%w: age must be positive", domain.ErrInvalidInput)
	case f.Mobile == "":
		return fmt.Errorf("%w: mobile is required", domain.ErrInvalidInput)
	case f.BloodGroup == "":
		return fmt.Errorf("%w: bloodGroup is required", domain.ErrInvalidInput)
	case !domain.ValidGender(f.Gender):
		return fmt.Errorf("%w: gender must be Male, Female or Other", domain.ErrInvalidInput)
	case f.DateOfBirth.IsZero():
		return fmt.Errorf("%w: dateOfBirth is required", domain.ErrInvalidInput)
	case f.AadharNumber == "":
		return fmt.Errorf("%w: aadharNumber is required", domain.ErrInvalidInput)
	}
	return nil
}

// validatePatch checks only the fields a partial update supplies.
func validatePatch(p *domain.PatientPatch) error {
	switch {
	case p.Name != nil && *p.Name == "":
		return fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidInput)
	case p.Age != nil && *p.Age <= 0:
		return fmt.Errorf("%w: age must be positive", domain.ErrInvalidInput)
	case p.Gender != nil && !domain.ValidGender(*p.Gender):
		return fmt.Errorf("%w: gender must be Male, Female or Other", domain.ErrInvalidInput)
	case p.AadharNumber != nil && *p.AadharNumber == "":
		return fmt.Errorf("%w: aadharNumber cannot be empty", domain.ErrInvalidInput)
	}
	return nil
}

// validateBatch rejects the whole upload set before any byte is sent to
// storage, so a bad file never leaves partial uploads behind.
func validateBatch(photo *ports.UploadFile, docs []ports.UploadFile) error {
	total := len(docs)
	if photo != nil {
		total++
	}
	if total > maxFiles {
		return fmt.Errorf("%w: at most %d files per request", domain.ErrInvalidUpload, maxFiles)
	}
	if len(docs) > maxDocuments {
		return fmt.Errorf("%w: at most %d documents per request", domain.ErrInvalidUpload, maxDocuments)
	}

	if photo != nil {
		if err := validateFile(*photo); err != nil {
			return err
		}
	}
	for _, doc := range docs {
		if err := validateFile(doc); err != nil {
			return err
		}
	}
	return nil
}

func validateFile(f ports.UploadFile) error {
	if _, ok := allowedContentTypes[f.ContentType]; !ok {
		return fmt.Errorf("%w: %s: content type %q not allowed", domain.ErrInvalidUpload, f.FileName, f.ContentType)
	}
	if f.Size > maxFileSize {
		return fmt.Errorf("%w: %s exceeds the 5 MiB limit", domain.ErrInvalidUpload, f.FileName)
	}
	return nil
}
