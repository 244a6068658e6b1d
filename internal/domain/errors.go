package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	ErrNotFound      = errors.New("not found")
	ErrNoSession     = errors.New("no active session")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// User-facing messages for local validation failures.
const (
	MsgNoRecipients     = "Please enter at least one phone number or upload a CSV."
	MsgNoTemplate       = "Please select a template."
	MsgBroadcastFailed  = "Failed to send broadcast"
	MsgUnknownSendMode  = "Please choose a send mode."
	MsgTooManyVariables = "Too many variables for the selected template."
)

// ValidationError is a local validation failure. The request is never sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// APIError is a non-2xx response from the backend.
// Message holds the backend's "error" field when present.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
}

// BroadcastError represents a failed broadcast submission.
type BroadcastError struct {
	Name string
	Mode SendMode
	Err  error
}

func (e *BroadcastError) Error() string {
	return fmt.Sprintf("broadcast: name=%q mode=%s: %v", e.Name, e.Mode, e.Err)
}

func (e *BroadcastError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration-related error.
type ConfigError struct {
	ConfigName string
	Field      string
	Err        error
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config %s: field %s: %v", e.ConfigName, e.Field, e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.ConfigName, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// StatusMessage converts an error into the message shown to the user.
// Validation messages and backend error strings are shown verbatim.
func StatusMessage(err error) string {
	if err == nil {
		return ""
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	if errors.Is(err, ErrNoSession) {
		return "Please sign in again."
	}

	return MsgBroadcastFailed
}
