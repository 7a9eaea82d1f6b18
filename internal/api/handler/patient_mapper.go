package handler

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/nagrathcare/clinic-api/internal/core/domain"
	"github.com/nagrathcare/clinic-api/internal/core/ports"
)

// Multipart field names, shared with the web client.
const (
	fieldPhoto     = "photo"
	fieldDocuments = "documentFiles"
)

// dobFormats are the accepted encodings for the dateOfBirth field.
var dobFormats = []string{time.RFC3339, "2006-01-02"}

type formValues map[string][]string

// get returns the first value for key and whether the field was present at
// all. Partial updates need the distinction: absence means "leave unchanged"
// while an empty string is a real value.
func (v formValues) get(key string) (string, bool) {
	vals, ok := v[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// collectFields builds the typed create payload from multipart text fields.
func collectFields(vals formValues) (ports.PatientFields, error) {
	var f ports.PatientFields

	f.Name, _ = vals.get("name")
	f.Mobile, _ = vals.get("mobile")
	f.BloodGroup, _ = vals.get("bloodGroup")
	f.AddressLine1, _ = vals.get("addressLine1")
	f.Address, _ = vals.get("address")
	f.Pincode, _ = vals.get("pincode")
	f.District, _ = vals.get("district")
	f.City, _ = vals.get("city")
	f.State, _ = vals.get("state")
	f.Country, _ = vals.get("country")
	f.Gender, _ = vals.get("gender")
	f.AadharNumber, _ = vals.get("aadharNumber")

	if raw, ok := vals.get("age"); ok && raw != "" {
		age, err := strconv.Atoi(raw)
		if err != nil {
			return f, fmt.Errorf("%w: age must be a number", domain.ErrInvalidInput)
		}
		f.Age = age
	}
	if raw, ok := vals.get("dateOfBirth"); ok && raw != "" {
		dob, err := parseDOB(raw)
		if err != nil {
			return f, err
		}
		f.DateOfBirth = dob
	}

	var err error
	if f.Hemoglobin, err = resultField(vals, "hemoglobin"); err != nil {
		return f, err
	}
	if f.BloodPressure, err = resultField(vals, "bloodPressure"); err != nil {
		return f, err
	}
	if f.HeartRate, err = resultField(vals, "heartRate"); err != nil {
		return f, err
	}
	if f.FastingBloodSugar, err = resultField(vals, "fastingBloodSugar"); err != nil {
		return f, err
	}
	if f.Calcium, err = resultField(vals, "calcium"); err != nil {
		return f, err
	}
	if f.BloodCBC, err = panelField(vals, "bloodCbc"); err != nil {
		return f, err
	}
	if f.UrineTest, err = panelField(vals, "urineTest"); err != nil {
		return f, err
	}
	if f.LipidProfile, err = panelField(vals, "lipidProfile"); err != nil {
		return f, err
	}
	if f.TSHTest, err = panelField(vals, "tshTest"); err != nil {
		return f, err
	}

	return f, nil
}

// collectPatch builds the explicit patch from only the supplied fields.
func collectPatch(vals formValues) (*domain.PatientPatch, error) {
	patch := &domain.PatientPatch{}

	setString := func(key string, dst **string) {
		if raw, ok := vals.get(key); ok {
			v := raw
			*dst = &v
		}
	}

	setString("name", &patch.Name)
	setString("mobile", &patch.Mobile)
	setString("bloodGroup", &patch.BloodGroup)
	setString("addressLine1", &patch.AddressLine1)
	setString("address", &patch.Address)
	setString("pincode", &patch.Pincode)
	setString("district", &patch.District)
	setString("city", &patch.City)
	setString("state", &patch.State)
	setString("country", &patch.Country)
	setString("gender", &patch.Gender)
	setString("aadharNumber", &patch.AadharNumber)

	if raw, ok := vals.get("age"); ok {
		age, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: age must be a number", domain.ErrInvalidInput)
		}
		patch.Age = &age
	}
	if raw, ok := vals.get("dateOfBirth"); ok {
		dob, err := parseDOB(raw)
		if err != nil {
			return nil, err
		}
		patch.DateOfBirth = &dob
	}

	var err error
	if patch.Hemoglobin, err = resultField(vals, "hemoglobin"); err != nil {
		return nil, err
	}
	if patch.BloodPressure, err = resultField(vals, "bloodPressure"); err != nil {
		return nil, err
	}
	if patch.HeartRate, err = resultField(vals, "heartRate"); err != nil {
		return nil, err
	}
	if patch.FastingBloodSugar, err = resultField(vals, "fastingBloodSugar"); err != nil {
		return nil, err
	}
	if patch.Calcium, err = resultField(vals, "calcium"); err != nil {
		return nil, err
	}
	if patch.BloodCBC, err = panelField(vals, "bloodCbc"); err != nil {
		return nil, err
	}
	if patch.UrineTest, err = panelField(vals, "urineTest"); err != nil {
		return nil, err
	}
	if patch.LipidProfile, err = panelField(vals, "lipidProfile"); err != nil {
		return nil, err
	}
	if patch.TSHTest, err = panelField(vals, "tshTest"); err != nil {
		return nil, err
	}

	return patch, nil
}

// collectFiles opens the uploaded files. The returned cleanup closes every
// opened stream and must run after the service consumed them.
func collectFiles(form *multipart.Form) (*ports.UploadFile, []ports.UploadFile, func(), error) {
	var opened []multipart.File
	cleanup := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	photos := form.File[fieldPhoto]
	if len(photos) > 1 {
		return nil, nil, cleanup, fmt.Errorf("%w: at most one photo per request", domain.ErrInvalidUpload)
	}

	var photo *ports.UploadFile
	if len(photos) == 1 {
		up, f, err := openUpload(photos[0])
		if err != nil {
			return nil, nil, cleanup, err
		}
		opened = append(opened, f)
		photo = &up
	}

	var documents []ports.UploadFile
	for _, fh := range form.File[fieldDocuments] {
		up, f, err := openUpload(fh)
		if err != nil {
			return nil, nil, cleanup, err
		}
		opened = append(opened, f)
		documents = append(documents, up)
	}

	return photo, documents, cleanup, nil
}

func openUpload(fh *multipart.FileHeader) (ports.UploadFile, multipart.File, error) {
	f, err := fh.Open()
	if err != nil {
		return ports.UploadFile{}, nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	return ports.UploadFile{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Content:     f,
	}, f, nil
}

func parseDOB(raw string) (time.Time, error) {
	for _, layout := range dobFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: dateOfBirth must be an ISO date", domain.ErrInvalidInput)
}

// resultField decodes a JSON-encoded single-test section. Unknown keys are
// rejected so a typo fails loudly, naming the section.
func resultField(vals formValues, section string) (*domain.LabResult, error) {
	raw, ok := vals.get(section)
	if !ok || raw == "" {
		return nil, nil
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()

	var r domain.LabResult
	if err := dec.Decode(&r); err != nil {
		return nil, sectionError(section, err)
	}
	return &r, nil
}

// panelField decodes a JSON-encoded multi-test section (test name → result).
func panelField(vals formValues, section string) (domain.LabPanel, error) {
	raw, ok := vals.get(section)
	if !ok || raw == "" {
		return nil, nil
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()

	var p domain.LabPanel
	if err := dec.Decode(&p); err != nil {
		return nil, sectionError(section, err)
	}
	return p, nil
}

func sectionError(section string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrInvalidSection, section, err)
}
