package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/nagrathcare/clinic-api/internal/api/middleware"
	"github.com/nagrathcare/clinic-api/internal/core/domain"
	"github.com/nagrathcare/clinic-api/internal/core/ports"
)

// stubPatientService records inputs and replies with canned values.
type stubPatientService struct {
	createIn ports.CreatePatientInput
	updateIn ports.UpdatePatientInput
	patient  *domain.Patient
	err      error
}

func (s *stubPatientService) CreatePatient(_ context.Context, in ports.CreatePatientInput) (*domain.Patient, error) {
	s.createIn = in
	return s.patient, s.err
}

func (s *stubPatientService) GetPatient(context.Context, string) (*domain.Patient, error) {
	return s.patient, s.err
}

func (s *stubPatientService) ListPatients(context.Context) ([]*domain.Patient, error) {
	return []*domain.Patient{s.patient}, s.err
}

func (s *stubPatientService) SearchPatients(context.Context, ports.SearchFilter) ([]*domain.Patient, error) {
	return []*domain.Patient{s.patient}, s.err
}

func (s *stubPatientService) UpdatePatient(_ context.Context, in ports.UpdatePatientInput) (*domain.Patient, error) {
	s.updateIn = in
	return s.patient, s.err
}

func (s *stubPatientService) DeletePatient(context.Context, *domain.User, string) error {
	return s.err
}

func (s *stubPatientService) PatientQRCode(context.Context, string) (string, error) {
	return s.patient.QRCode, s.err
}

func (s *stubPatientService) PublicPatient(context.Context, string) (*domain.PublicView, error) {
	if s.patient == nil {
		return nil, s.err
	}
	return s.patient.Public(), s.err
}

// multipartBody builds a form with text fields and optional file parts.
type filePart struct {
	field       string
	name        string
	contentType string
	content     string
}

func multipartBody(t *testing.T, fields map[string]string, files []filePart) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for _, f := range files {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition",
			`form-data; name="`+f.field+`"; filename="`+f.name+`"`)
		hdr.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(hdr)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write([]byte(f.content)); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, w.FormDataContentType()
}

func patientContext(t *testing.T, method string, fields map[string]string, files []filePart) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	body, contentType := multipartBody(t, fields, files)
	req := httptest.NewRequest(method, "/api/patients", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.Set(middleware.UserContextKey, &domain.User{ID: "admin-1", Role: domain.RoleAdmin})
	return c, rec
}

func validForm() map[string]string {
	return map[string]string{
		"name":         "Asha Rao",
		"age":          "34",
		"mobile":       "9876543210",
		"bloodGroup":   "O+",
		"gender":       "Female",
		"dateOfBirth":  "1991-04-12",
		"aadharNumber": "123412341234",
		"city":         "New Delhi",
	}
}

func TestPatientCreate(t *testing.T) {
	svc := &stubPatientService{patient: &domain.Patient{ID: "p1", Name: "Asha Rao"}}
	h := NewPatientHandler(svc)

	fields := validForm()
	fields["hemoglobin"] = `{"value":"13.5","unit":"g/dL","range":"12-15"}`
	fields["bloodCbc"] = `{"rbcCount":{"value":"4.7","unit":"mill/cumm"}}`

	c, rec := patientContext(t, http.MethodPost, fields, []filePart{
		{field: "photo", name: "face.jpg", contentType: "image/jpeg", content: "jpegbytes"},
		{field: "documentFiles", name: "report.pdf", contentType: "application/pdf", content: "pdfbytes"},
	})
	if err := h.Create(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	in := svc.createIn
	if in.Actor == nil || in.Actor.ID != "admin-1" {
		t.Fatalf("actor not forwarded: %+v", in.Actor)
	}
	if in.Fields.Name != "Asha Rao" || in.Fields.Age != 34 {
		t.Fatalf("fields not mapped: %+v", in.Fields)
	}
	if in.Fields.DateOfBirth.Year() != 1991 {
		t.Fatalf("dateOfBirth not parsed: %v", in.Fields.DateOfBirth)
	}
	if in.Fields.Hemoglobin == nil || in.Fields.Hemoglobin.Value != "13.5" {
		t.Fatalf("hemoglobin not parsed: %+v", in.Fields.Hemoglobin)
	}
	if got := in.Fields.BloodCBC["rbcCount"]; got.Value != "4.7" {
		t.Fatalf("bloodCbc not parsed: %+v", in.Fields.BloodCBC)
	}
	if in.Photo == nil || in.Photo.ContentType != "image/jpeg" {
		t.Fatalf("photo not mapped: %+v", in.Photo)
	}
	if len(in.Documents) != 1 || in.Documents[0].FileName != "report.pdf" {
		t.Fatalf("documents not mapped: %+v", in.Documents)
	}
}

func TestPatientCreate_BadSectionNamed(t *testing.T) {
	h := NewPatientHandler(&stubPatientService{})

	fields := validForm()
	fields["lipidProfile"] = `{"cholesterol":{"value":"180","bogus":true}}`

	c, _ := patientContext(t, http.MethodPost, fields, nil)
	err := h.Create(c)
	if !errors.Is(err, domain.ErrInvalidSection) {
		t.Fatalf("expected ErrInvalidSection, got %v", err)
	}
	if !strings.Contains(err.Error(), "lipidProfile") {
		t.Fatalf("error does not name the failing section: %v", err)
	}
}

func TestPatientCreate_BadAge(t *testing.T) {
	h := NewPatientHandler(&stubPatientService{})

	fields := validForm()
	fields["age"] = "thirty"

	c, _ := patientContext(t, http.MethodPost, fields, nil)
	if err := h.Create(c); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPatientCreate_TwoPhotosRejected(t *testing.T) {
	h := NewPatientHandler(&stubPatientService{})

	c, _ := patientContext(t, http.MethodPost, validForm(), []filePart{
		{field: "photo", name: "a.jpg", contentType: "image/jpeg", content: "x"},
		{field: "photo", name: "b.jpg", contentType: "image/jpeg", content: "y"},
	})
	if err := h.Create(c); !errors.Is(err, domain.ErrInvalidUpload) {
		t.Fatalf("expected ErrInvalidUpload, got %v", err)
	}
}

func TestPatientUpdate_PatchOnlySuppliedFields(t *testing.T) {
	svc := &stubPatientService{patient: &domain.Patient{ID: "p1"}}
	h := NewPatientHandler(svc)

	c, rec := patientContext(t, http.MethodPut, map[string]string{"city": "Mumbai"}, nil)
	c.SetParamNames("id")
	c.SetParamValues("p1")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	patch := svc.updateIn.Patch
	if patch == nil || patch.City == nil || *patch.City != "Mumbai" {
		t.Fatalf("city not patched: %+v", patch)
	}
	if patch.Name != nil || patch.Age != nil || patch.AadharNumber != nil {
		t.Fatalf("absent fields leaked into the patch: %+v", patch)
	}
	if svc.updateIn.ID != "p1" {
		t.Fatalf("id not forwarded: %q", svc.updateIn.ID)
	}
}

func TestPatientSearch_ForwardsFilters(t *testing.T) {
	svc := &stubPatientService{patient: &domain.Patient{ID: "p1"}}
	h := NewPatientHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/patients/search?name=asha&city=delhi", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	if err := h.Search(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestPatientPublic_OmitsSensitiveKeys(t *testing.T) {
	svc := &stubPatientService{patient: &domain.Patient{
		ID:     "p1",
		Name:   "Asha Rao",
		Photo:  "https://cdn.test/face.jpg",
		QRCode: "data:image/png;base64,xyz",
		Documents: []domain.Document{
			{FileName: "report.pdf", FileURL: "https://cdn.test/report.pdf", FileType: "application/pdf"},
		},
	}}
	h := NewPatientHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/patients/public/p1", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("p1")

	if err := h.Public(c); err != nil {
		t.Fatalf("handler: %v", err)
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := payload["qrCode"]; ok {
		t.Fatalf("public view leaks qrCode")
	}
	if _, ok := payload["documentFiles"]; ok {
		t.Fatalf("public view leaks documentFiles")
	}
	if _, ok := payload["photo"]; !ok {
		t.Fatalf("public view should keep the photo")
	}
}

func TestPatientQRCode(t *testing.T) {
	svc := &stubPatientService{patient: &domain.Patient{ID: "p1", QRCode: "data:image/png;base64,xyz"}}
	h := NewPatientHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/patients/p1/qrcode", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("p1")

	if err := h.QRCode(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	var resp qrCodeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.QRCode != "data:image/png;base64,xyz" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestPatientDelete_NotFoundPassThrough(t *testing.T) {
	h := NewPatientHandler(&stubPatientService{err: domain.ErrPatientNotFound})

	c, _ := patientContext(t, http.MethodDelete, nil, nil)
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := h.Delete(c); !errors.Is(err, domain.ErrPatientNotFound) {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}
}
