package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoragePutGetRemove(t *testing.T) {
	s, err := NewLocalDocumentStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "tenants/a/manual.pdf", "application/pdf", strings.NewReader("payload")))

	r, err := s.Get(ctx, "tenants/a/manual.pdf")
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, "payload", string(data))

	require.NoError(t, s.Remove(ctx, "tenants/a/manual.pdf"))
	_, err = s.Get(ctx, "tenants/a/manual.pdf")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestLocalStorageReplacesContent(t *testing.T) {
	s, err := NewLocalDocumentStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "doc", "text/plain", strings.NewReader("one")))
	require.NoError(t, s.Put(ctx, "doc", "text/plain", strings.NewReader("two")))

	r, err := s.Get(ctx, "doc")
	require.NoError(t, err)
	data, _ := io.ReadAll(r)
	r.Close()
	assert.Equal(t, "two", string(data))
}

func TestLocalStorageRejectsEscapingKeys(t *testing.T) {
	s, err := NewLocalDocumentStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	assert.ErrorIs(t, s.Put(ctx, "../outside", "", strings.NewReader("x")), ErrInvalidKey)
	_, err = s.Get(ctx, "/etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidKey)
	assert.ErrorIs(t, s.Remove(ctx, ""), ErrInvalidKey)
}

func TestLocalStorageRemoveMissingKeyIsNoError(t *testing.T) {
	s, err := NewLocalDocumentStorage(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, s.Remove(context.Background(), "never-stored"))
}
