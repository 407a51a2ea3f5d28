package shared

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionConflictError(t *testing.T) {
	err := NewVersionConflictError(4, 5)

	assert.Equal(t, int64(4), err.Asserted)
	assert.Equal(t, int64(5), err.Current)
	assert.Contains(t, err.Error(), "asserted 4")
	assert.Contains(t, err.Error(), "current 5")

	var vc *VersionConflictError
	assert.True(t, errors.As(error(err), &vc))
}

func TestPermissionDeniedError(t *testing.T) {
	err := NewPermissionDeniedError("assets", "edit")
	assert.Equal(t, "permission denied: assets:edit", err.Error())
}

func TestSessionInvalidatedError(t *testing.T) {
	cases := []SessionInvalidReason{
		SessionReasonReplaced,
		SessionReasonExpired,
		SessionReasonRevoked,
	}
	for _, reason := range cases {
		err := NewSessionInvalidatedError(reason)
		assert.Equal(t, reason, err.Reason)
		assert.Contains(t, err.Error(), string(reason))
	}
}

func TestDomainErrorIs(t *testing.T) {
	assert.True(t, errors.Is(error(ErrTenantContextMissing), ErrTenantContextMissing))
	assert.NotEqual(t, ErrTenantContextMissing, ErrCrossTenantReference)
}
