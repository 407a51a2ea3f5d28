package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the principal lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeSessionRequired is used when no session cookie was presented
	ErrCodeSessionRequired = "ERR_SESSION_REQUIRED"
	// ErrCodeSessionInvalid is used when the presented session is unknown or malformed
	ErrCodeSessionInvalid = "ERR_SESSION_INVALID"
	// ErrCodeSessionInvalidated is used when the session was explicitly retired.
	// The response details carry the invalidation reason.
	ErrCodeSessionInvalidated = "ERR_SESSION_INVALIDATED"
	// ErrCodeTokenExpired is used when a service token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when a service token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when an optimistic version check fails.
	// The response details carry the asserted and current versions.
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	// ErrCodePreconditionRequired is used when a version-checked update
	// arrives without an If-Match header
	ErrCodePreconditionRequired = "ERR_PRECONDITION_REQUIRED"
)

// Tenancy error codes
const (
	// ErrCodeTenantRequired is used when no tenant is resolvable for the request
	ErrCodeTenantRequired = "ERR_TENANT_REQUIRED"
	// ErrCodeCrossTenantReference is used when a referenced entity belongs
	// to a different tenant
	ErrCodeCrossTenantReference = "ERR_CROSS_TENANT_REFERENCE"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeSessionRequired:    http.StatusUnauthorized,
	ErrCodeSessionInvalid:     http.StatusUnauthorized,
	ErrCodeSessionInvalidated: http.StatusUnauthorized,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,

	ErrCodeNotFound:             http.StatusNotFound,
	ErrCodeAlreadyExists:        http.StatusConflict,
	ErrCodeConflict:             http.StatusConflict,
	ErrCodeConcurrencyConflict:  http.StatusConflict,
	ErrCodePreconditionRequired: http.StatusPreconditionRequired,

	ErrCodeTenantRequired:       http.StatusUnauthorized,
	ErrCodeCrossTenantReference: http.StatusUnprocessableEntity,

	ErrCodeInvalidState: http.StatusUnprocessableEntity,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to wire-level codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":               ErrCodeNotFound,
	"ALREADY_EXISTS":          ErrCodeAlreadyExists,
	"INVALID_INPUT":           ErrCodeInvalidInput,
	"INVALID_STATE":           ErrCodeInvalidState,
	"UNAUTHORIZED":            ErrCodeUnauthorized,
	"FORBIDDEN":               ErrCodeForbidden,
	"INVALID_CREDENTIALS":     ErrCodeUnauthorized,
	"ACCOUNT_DEACTIVATED":     ErrCodeForbidden,
	"TENANT_SUSPENDED":        ErrCodeForbidden,
	"TENANT_CONTEXT_MISSING":  ErrCodeTenantRequired,
	"CROSS_TENANT_REFERENCE":  ErrCodeCrossTenantReference,
	"PRECONDITION_REQUIRED":   ErrCodePreconditionRequired,
	"CONCURRENCY_CONFLICT":    ErrCodeConcurrencyConflict,
	"SESSION_INVALIDATED":     ErrCodeSessionInvalidated,
	"SYSTEM_ROLE":             ErrCodeInvalidState,
	"VALIDATION_ERROR":        ErrCodeValidation,
	"BAD_REQUEST":             ErrCodeBadRequest,
	"INTERNAL_ERROR":          ErrCodeInternal,
	"INVALID_ASSET_TAG":       ErrCodeInvalidInput,
	"INVALID_ASSET_NAME":      ErrCodeInvalidInput,
	"INVALID_ASSET_STATUS":    ErrCodeInvalidInput,
	"INVALID_SITE_NAME":       ErrCodeInvalidInput,
	"INVALID_BUILDING_NAME":   ErrCodeInvalidInput,
	"INVALID_VENDOR_NAME":     ErrCodeInvalidInput,
	"INVALID_DOCUMENT_NAME":   ErrCodeInvalidInput,
	"INVALID_EMAIL":           ErrCodeInvalidInput,
	"INVALID_PASSWORD":        ErrCodeInvalidInput,
	"INVALID_SORT_FIELD":      ErrCodeInvalidInput,
	"INVALID_SORT_ORDER":      ErrCodeInvalidInput,
	"INVALID_ATTACHMENT_TYPE": ErrCodeInvalidInput,
}

// NormalizeErrorCode converts a domain error code to the wire-level format
// If the code is already in the wire format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if wireCode, ok := DomainErrorCodeMapping[code]; ok {
		return wireCode
	}
	return code
}
