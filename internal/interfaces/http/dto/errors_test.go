package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeSessionInvalidated, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodePreconditionRequired, http.StatusPreconditionRequired},
		{ErrCodeTenantRequired, http.StatusUnauthorized},
		{ErrCodeCrossTenantReference, http.StatusUnprocessableEntity},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{"ERR_SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode("NOT_FOUND"))
	assert.Equal(t, ErrCodeTenantRequired, NormalizeErrorCode("TENANT_CONTEXT_MISSING"))
	assert.Equal(t, ErrCodeUnauthorized, NormalizeErrorCode("INVALID_CREDENTIALS"))
	assert.Equal(t, ErrCodePreconditionRequired, NormalizeErrorCode("PRECONDITION_REQUIRED"))

	// Codes already in wire format pass through untouched
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode(ErrCodeNotFound))
	assert.Equal(t, "CUSTOM_CODE", NormalizeErrorCode("CUSTOM_CODE"))
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Resource not found", "req-123")

	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Resource not found", resp.Error.Message)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}

func TestNewErrorResponseWithDetails(t *testing.T) {
	resp := NewErrorResponseWithDetails(ErrCodeConcurrencyConflict, "version conflict", "req-456",
		map[string]interface{}{"asserted": int64(2), "current": int64(3)})

	assert.Equal(t, ErrCodeConcurrencyConflict, resp.Error.Code)
	assert.Equal(t, int64(2), resp.Error.Details["asserted"])
	assert.Equal(t, int64(3), resp.Error.Details["current"])
}

func TestListRequestToFilter(t *testing.T) {
	f := ListRequest{}.ToFilter()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 20, f.PageSize)
	assert.Equal(t, "created_at", f.OrderBy)
	assert.Equal(t, "desc", f.OrderDir)

	f = ListRequest{Page: 3, PageSize: 50, OrderBy: "name", OrderDir: "asc", Search: "hq"}.ToFilter()
	assert.Equal(t, 3, f.Page)
	assert.Equal(t, 50, f.PageSize)
	assert.Equal(t, "name", f.OrderBy)
	assert.Equal(t, "asc", f.OrderDir)
	assert.Equal(t, "hq", f.Search)
}
