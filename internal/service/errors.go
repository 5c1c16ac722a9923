package service

import "errors"

// Error kinds. Every error a service returns to a caller either wraps one of
// these or is an unexpected internal failure.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// kindError carries a user-facing message and the kind it belongs to.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// Errors with the messages surfaced to API clients.
var (
	ErrRegisterFieldsRequired = newError(ErrValidation, "Email, password, and name are required")
	ErrWeakPassword           = newError(ErrValidation, "Password must be at least 6 characters")
	ErrPasswordTooLong        = newError(ErrValidation, "Password must be at most 72 bytes")
	ErrInvalidEmail           = newError(ErrValidation, "Please enter a valid email address")
	ErrUserExists             = newError(ErrConflict, "User already exists")

	ErrLoginFieldsRequired = newError(ErrValidation, "Email and password are required")
	ErrInvalidCredentials  = newError(ErrUnauthorized, "Invalid credentials")
	ErrEmailNotVerified    = newError(ErrUnauthorized, "Please verify your email address before logging in")

	ErrVerificationTokenRequired = newError(ErrValidation, "Verification token is required")
	ErrInvalidVerificationToken  = newError(ErrValidation, "Invalid or expired verification token")
	ErrEmailRequired             = newError(ErrValidation, "Email is required")
	ErrUserNotFound              = newError(ErrNotFound, "User not found")
	ErrBypassDisabled            = newError(ErrNotFound, "Not found")

	ErrResetFieldsRequired = newError(ErrValidation, "Token and new password are required")
	ErrInvalidResetToken   = newError(ErrValidation, "Invalid or expired reset token")

	ErrInvalidBearerToken = newError(ErrUnauthorized, "Unauthorized")
	ErrNameRequired       = newError(ErrValidation, "Name cannot be empty")

	ErrContentFieldsRequired = newError(ErrValidation, "Title, type, and source are required")
	ErrInvalidContentType    = newError(ErrValidation, "Type must be one of chat, image, code, text")
	ErrContentIDRequired     = newError(ErrValidation, "Content ID is required")
	ErrContentNotFound       = newError(ErrNotFound, "Content not found")
)
