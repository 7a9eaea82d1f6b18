package domain

import "errors"

// Sentinel errors for the whole core. Handlers never inspect these directly;
// the central HTTP error handler maps them to status codes.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidSection     = errors.New("invalid lab section")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrForbidden          = errors.New("access forbidden")

	ErrUserNotFound     = errors.New("user not found")
	ErrEmailTaken       = errors.New("email already registered")
	ErrSuperAdminExists = errors.New("super admin already exists")

	ErrPatientNotFound = errors.New("patient not found")
	ErrDuplicateAadhar = errors.New("aadhar number already registered")

	ErrInvalidUpload    = errors.New("invalid upload")
	ErrUploadFailed     = errors.New("upload failed")
	ErrQREncodingFailed = errors.New("qr code generation failed")
)
