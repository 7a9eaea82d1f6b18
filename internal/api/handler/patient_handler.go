package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nagrathcare/clinic-api/internal/api/metrics"
	"github.com/nagrathcare/clinic-api/internal/core/ports"
)

type PatientHandler struct {
	patientService ports.PatientService
}

func NewPatientHandler(patientService ports.PatientService) *PatientHandler {
	return &PatientHandler{patientService: patientService}
}

// Create registers a new patient record from a multipart form. Text fields
// carry demographics and JSON-encoded lab sections; file parts carry the
// photo and supporting documents.
//
// @Summary      Create a patient record
// @Tags         patients
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  domain.Patient
// @Failure      400  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /api/patients [post]
func (h *PatientHandler) Create(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "expected multipart form data")
	}

	fields, err := collectFields(form.Value)
	if err != nil {
		return err
	}

	photo, documents, cleanup, err := collectFiles(form)
	defer cleanup()
	if err != nil {
		return err
	}

	patient, err := h.patientService.CreatePatient(c.Request().Context(), ports.CreatePatientInput{
		Actor:     actor,
		Fields:    fields,
		Photo:     photo,
		Documents: documents,
	})
	if err != nil {
		return err
	}

	metrics.PatientMutationsTotal.WithLabelValues("create").Inc()
	countUploads(photo, documents)
	return c.JSON(http.StatusCreated, patient)
}

// List returns every patient record.
//
// @Summary      List patient records
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Patient
// @Router       /api/patients [get]
func (h *PatientHandler) List(c echo.Context) error {
	patients, err := h.patientService.ListPatients(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, patients)
}

// Search filters patients by name and location, combining the supplied
// criteria conjunctively.
//
// @Summary      Search patient records
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Param        name      query  string  false  "Name substring"
// @Param        city      query  string  false  "City substring"
// @Param        district  query  string  false  "District substring"
// @Param        state     query  string  false  "State substring"
// @Param        country   query  string  false  "Country substring"
// @Success      200  {array}  domain.Patient
// @Router       /api/patients/search [get]
func (h *PatientHandler) Search(c echo.Context) error {
	filter := ports.SearchFilter{
		Name:     c.QueryParam("name"),
		City:     c.QueryParam("city"),
		District: c.QueryParam("district"),
		State:    c.QueryParam("state"),
		Country:  c.QueryParam("country"),
	}

	patients, err := h.patientService.SearchPatients(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, patients)
}

// Get returns a single patient record.
//
// @Summary      Get a patient record
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Patient id"
// @Success      200  {object}  domain.Patient
// @Failure      404  {object}  errorResponse
// @Router       /api/patients/{id} [get]
func (h *PatientHandler) Get(c echo.Context) error {
	patient, err := h.patientService.GetPatient(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, patient)
}

// Update applies a partial update. Only fields present in the form change;
// an uploaded photo replaces the stored one, and any uploaded documents
// replace the stored document list as a whole.
//
// @Summary      Update a patient record
// @Tags         patients
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Patient id"
// @Success      200  {object}  domain.Patient
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/patients/{id} [put]
func (h *PatientHandler) Update(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "expected multipart form data")
	}

	patch, err := collectPatch(form.Value)
	if err != nil {
		return err
	}

	photo, documents, cleanup, err := collectFiles(form)
	defer cleanup()
	if err != nil {
		return err
	}

	patient, err := h.patientService.UpdatePatient(c.Request().Context(), ports.UpdatePatientInput{
		Actor:     actor,
		ID:        c.Param("id"),
		Patch:     patch,
		Photo:     photo,
		Documents: documents,
	})
	if err != nil {
		return err
	}

	metrics.PatientMutationsTotal.WithLabelValues("update").Inc()
	countUploads(photo, documents)
	return c.JSON(http.StatusOK, patient)
}

// Delete removes a patient record.
//
// @Summary      Delete a patient record
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Patient id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/patients/{id} [delete]
func (h *PatientHandler) Delete(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.patientService.DeletePatient(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}

	metrics.PatientMutationsTotal.WithLabelValues("delete").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "patient removed"})
}

// QRCode returns the scannable code linking to the public record view.
//
// @Summary      Get a patient's QR code
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Patient id"
// @Success      200  {object}  qrCodeResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/patients/{id}/qrcode [get]
func (h *PatientHandler) QRCode(c echo.Context) error {
	code, err := h.patientService.PatientQRCode(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, qrCodeResponse{QRCode: code})
}

// Public returns the unauthenticated record view reached by scanning the QR
// code. Documents and the code itself are stripped.
//
// @Summary      Get the public view of a patient record
// @Tags         patients
// @Produce      json
// @Param        id   path      string  true  "Patient id"
// @Success      200  {object}  domain.PublicView
// @Failure      404  {object}  errorResponse
// @Router       /api/patients/public/{id} [get]
func (h *PatientHandler) Public(c echo.Context) error {
	view, err := h.patientService.PublicPatient(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func countUploads(photo *ports.UploadFile, documents []ports.UploadFile) {
	if photo != nil {
		metrics.UploadsTotal.WithLabelValues("photo").Inc()
	}
	for range documents {
		metrics.UploadsTotal.WithLabelValues("document").Inc()
	}
}
