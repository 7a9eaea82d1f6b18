package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/nagrathcare/clinic-api/internal/core/domain"
)

func render(t *testing.T, err error) (int, errorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rec.Code, resp
}

func TestErrorHandler_StatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrInvalidInput, http.StatusBadRequest},
		{domain.ErrInvalidSection, http.StatusBadRequest},
		{domain.ErrInvalidUpload, http.StatusBadRequest},
		{domain.ErrSuperAdminExists, http.StatusBadRequest},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrUnauthenticated, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrPatientNotFound, http.StatusNotFound},
		{domain.ErrEmailTaken, http.StatusConflict},
		{domain.ErrDuplicateAadhar, http.StatusConflict},
		{domain.ErrUploadFailed, http.StatusInternalServerError},
		{domain.ErrQREncodingFailed, http.StatusInternalServerError},
		{errors.New("database exploded"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			code, _ := render(t, tc.err)
			if code != tc.want {
				t.Fatalf("status %d, want %d", code, tc.want)
			}
		})
	}
}

func TestErrorHandler_WrappedSentinelSplitsDetail(t *testing.T) {
	err := fmt.Errorf("%w: name is required", domain.ErrInvalidInput)

	code, resp := render(t, err)
	if code != http.StatusBadRequest {
		t.Fatalf("status %d", code)
	}
	if resp.Message != domain.ErrInvalidInput.Error() {
		t.Fatalf("message %q", resp.Message)
	}
	if resp.Detail != err.Error() {
		t.Fatalf("detail %q", resp.Detail)
	}
}

func TestErrorHandler_UnexpectedErrorIsOpaque(t *testing.T) {
	_, resp := render(t, errors.New("password hash leaked into logs"))
	if resp.Message != "internal server error" || resp.Detail != "" {
		t.Fatalf("internal detail leaked: %+v", resp)
	}
}

func TestErrorHandler_EchoHTTPErrorPassesThrough(t *testing.T) {
	code, resp := render(t, echo.NewHTTPError(http.StatusMethodNotAllowed, "nope"))
	if code != http.StatusMethodNotAllowed || resp.Message != "nope" {
		t.Fatalf("unexpected: %d %+v", code, resp)
	}
}
