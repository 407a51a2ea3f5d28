package shared

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-level error with a stable machine code.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// IsDomainError reports whether err is a DomainError with the given code
func IsDomainError(err error, code string) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == code
}

// Common domain errors
var (
	ErrNotFound      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState  = NewDomainError("INVALID_STATE", "Operation not allowed in current state")

	// ErrTenantContextMissing is returned when a tenant-scoped data operation
	// is attempted without a resolvable tenant. It is never defaulted away and
	// never retried; the operation fails closed with no side effects.
	ErrTenantContextMissing = NewDomainError("TENANT_CONTEXT_MISSING", "No tenant resolvable for this operation")

	// ErrCrossTenantReference is returned when a related entity resolves to a
	// different tenant than the entity referencing it.
	ErrCrossTenantReference = NewDomainError("CROSS_TENANT_REFERENCE", "Referenced entity belongs to a different tenant")

	ErrUnauthorized = NewDomainError("UNAUTHORIZED", "Not authenticated")
	ErrForbidden    = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")

	// ErrPreconditionRequired is returned when a version-checked update
	// arrives without an asserted version. The caller must state the version
	// it last read; the platform never guesses.
	ErrPreconditionRequired = NewDomainError("PRECONDITION_REQUIRED", "Expected record version must be supplied")
)

// VersionConflictError reports a failed optimistic-concurrency check.
// It carries both the version the caller asserted and the version currently
// persisted so the caller can refetch and retry. It is an expected,
// recoverable condition, not a fault.
type VersionConflictError struct {
	Asserted int64 `json:"asserted"`
	Current  int64 `json:"current"`
}

// Error implements the error interface
func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("version conflict: asserted %d, current %d", e.Asserted, e.Current)
}

// NewVersionConflictError creates a VersionConflictError
func NewVersionConflictError(asserted, current int64) *VersionConflictError {
	return &VersionConflictError{Asserted: asserted, Current: current}
}

// PermissionDeniedError reports a permission-resolver denial. It records the
// module and action that were refused so the HTTP layer and audit sinks can
// report them without re-deriving the check.
type PermissionDeniedError struct {
	Module string `json:"module"`
	Action string `json:"action"`
}

// Error implements the error interface
func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("permission denied: %s:%s", e.Module, e.Action)
}

// NewPermissionDeniedError creates a PermissionDeniedError
func NewPermissionDeniedError(module, action string) *PermissionDeniedError {
	return &PermissionDeniedError{Module: module, Action: action}
}

// SessionInvalidReason describes why a session is no longer usable. The
// reason survives end-to-end so clients can distinguish "logged out
// elsewhere" from plain expiry.
type SessionInvalidReason string

const (
	SessionReasonReplaced SessionInvalidReason = "replaced"
	SessionReasonExpired  SessionInvalidReason = "expired"
	SessionReasonRevoked  SessionInvalidReason = "revoked"
)

// SessionInvalidatedError reports an invalidated session together with the
// reason it was invalidated.
type SessionInvalidatedError struct {
	Reason SessionInvalidReason `json:"reason"`
}

// Error implements the error interface
func (e *SessionInvalidatedError) Error() string {
	return fmt.Sprintf("session invalidated: %s", e.Reason)
}

// NewSessionInvalidatedError creates a SessionInvalidatedError
func NewSessionInvalidatedError(reason SessionInvalidReason) *SessionInvalidatedError {
	return &SessionInvalidatedError{Reason: reason}
}
