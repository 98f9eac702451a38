package service

import "errors"

var (
	ErrNotFound           = errors.New("record not found")
	ErrConflict           = errors.New("record was modified by another request")
	ErrInvalidTransition  = errors.New("status transition not allowed")
	ErrInvalidImage       = errors.New("a valid image reference is required")
	ErrUploadFailed       = errors.New("image upload failed")
	ErrUnknownSetting     = errors.New("unknown setting key")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired session")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)

// ValidationError reports the first input rule a request broke. Message is
// meant to be shown to the user as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
