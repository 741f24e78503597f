package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same error code
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a VALIDATION_ERROR with a formatted message
func NewValidationError(format string, args ...any) *DomainError {
	return NewDomainError("VALIDATION_ERROR", fmt.Sprintf(format, args...))
}

// NewReferenceError creates a REFERENCE_NOT_FOUND error for a dangling
// catalog reference. It aborts costing for the entity that holds the
// reference only, never a whole batch.
func NewReferenceError(format string, args ...any) *DomainError {
	return NewDomainError("REFERENCE_NOT_FOUND", fmt.Sprintf(format, args...))
}

// NewComputationGuardError creates a COMPUTATION_GUARD error for a zero
// denominator that indicates unresolvable data rather than a neutral ratio.
func NewComputationGuardError(format string, args ...any) *DomainError {
	return NewDomainError("COMPUTATION_GUARD", fmt.Sprintf(format, args...))
}

// Common domain errors
var (
	ErrNotFound          = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists     = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput      = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized      = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden         = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrValidation        = NewDomainError("VALIDATION_ERROR", "Input failed validation")
	ErrReferenceNotFound = NewDomainError("REFERENCE_NOT_FOUND", "Referenced entity not found")
	ErrComputationGuard  = NewDomainError("COMPUTATION_GUARD", "Computation hit an unguarded zero denominator")
	ErrEmptyResult       = NewDomainError("EMPTY_RESULT", "No data in the requested range")
)
