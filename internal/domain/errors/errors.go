// Package errors defines the error taxonomy of the data-access gateway.
// Callers of the gateway never see these errors directly: the action executor
// logs them with full detail and maps them to a fixed, human-readable message.
//
// Pattern: Sentinel Errors + Custom Error Types
package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrEntityNotFound   = errors.New("entity not found")
	ErrInvalidEntityID  = errors.New("invalid entity ID")
	ErrMissingLookupKey = errors.New("missing lookup key")
	ErrUnknownDriver    = errors.New("unknown database driver")
	ErrPaymentsDisabled = errors.New("payment provider is not configured")
)

// Error classes used in structured logs (error_class attribute).
const (
	ClassConfig     = "config"
	ClassConnection = "connection"
	ClassValidation = "validation"
	ClassOperation  = "operation"
	ClassExternal   = "external"
)

// DomainError wraps an error with a machine-readable code.
type DomainError struct {
	Code    string // Machine-readable error code (e.g., "PAYMENT_FAILED")
	Message string // Human-readable message
	Err     error  // Underlying error (for error chains)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements error unwrapping for errors.Is and errors.As.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error.
func NewDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ============================================
// Connection lifecycle errors
// ============================================

// ConfigError reports a missing or malformed setting. It is raised before any
// network I/O is attempted.
type ConfigError struct {
	Setting string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error [%s]: %s", e.Setting, e.Message)
}

// NewConfigError creates a new configuration error.
func NewConfigError(setting, message string) *ConfigError {
	return &ConfigError{Setting: setting, Message: message}
}

// ConnectionError reports a failed attempt to reach the database.
type ConnectionError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error during %s: %v", e.Op, e.Err)
}

// Unwrap implements error unwrapping for errors.Is and errors.As.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// NewConnectionError creates a new connection error.
func NewConnectionError(op string, err error) *ConnectionError {
	return &ConnectionError{Op: op, Err: err}
}

// OperationError reports a failed data operation against a collection.
type OperationError struct {
	Action     string
	Collection string
	Err        error
}

// Error implements the error interface.
func (e *OperationError) Error() string {
	return fmt.Sprintf("operation %s on %s failed: %v", e.Action, e.Collection, e.Err)
}

// Unwrap implements error unwrapping for errors.Is and errors.As.
func (e *OperationError) Unwrap() error {
	return e.Err
}

// NewOperationError creates a new operation error.
func NewOperationError(action, collection string, err error) *OperationError {
	return &OperationError{Action: action, Collection: collection, Err: err}
}

// ============================================
// Validation errors
// ============================================

// ValidationError represents a validation failure of a single field.
type ValidationError struct {
	Field   string // Field name that failed validation
	Message string // What went wrong
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %d error(s)", len(e))
}

// Add appends a validation error.
func (e *ValidationErrors) Add(field, message string) {
	*e = append(*e, ValidationError{Field: field, Message: message})
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Helper functions for common error checking

// IsNotFound checks if an error is an "entity not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEntityNotFound)
}

// IsConfigError checks if an error is a configuration error.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsConnectionError checks if an error is a connection error.
func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}

// IsOperationError checks if an error is an operation error.
func IsOperationError(err error) bool {
	var oe *OperationError
	return errors.As(err, &oe)
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	var valErr ValidationError
	var valErrs ValidationErrors
	return errors.As(err, &valErr) || errors.As(err, &valErrs)
}

// Classify returns the error_class attribute for err.
// Config is checked first so a ConfigError wrapped by a connection attempt keeps its class.
func Classify(err error) string {
	switch {
	case IsConfigError(err):
		return ClassConfig
	case IsConnectionError(err):
		return ClassConnection
	case IsValidationError(err), errors.Is(err, ErrMissingLookupKey):
		return ClassValidation
	case errors.Is(err, ErrPaymentsDisabled):
		return ClassExternal
	default:
		var de *DomainError
		if errors.As(err, &de) && de.Code == CodePaymentFailed {
			return ClassExternal
		}
		return ClassOperation
	}
}

// CodePaymentFailed marks errors returned by the payment provider.
const CodePaymentFailed = "PAYMENT_FAILED"
