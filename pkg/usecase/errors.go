package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Input errors
	ErrCannotSubmit = errors.New("all required fields must be filled before submitting")
	ErrNotConfirmed = errors.New("deletion was not confirmed")

	// Gate errors
	ErrPassphraseMismatch = errors.New("passphrase does not match")
	ErrNotAuthorized      = errors.New("dashboard requires the passphrase")

	// Import errors
	ErrMalformedImport = errors.New("import data is not a JSON array of log records")
)

// Context keys for error values
const (
	LogIDKey  = "log_id"
	FieldsKey = "fields"
)
