// Package storage provides document payload storage implementations.
package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/facilityos/backend/internal/domain/facility"
	"github.com/facilityos/backend/internal/domain/shared"
)

// ErrInvalidKey is returned for keys that would escape the storage root
var ErrInvalidKey = errors.New("invalid storage key")

// LocalDocumentStorage stores document payloads on the local filesystem
// under a single root directory. Keys are relative paths; anything that
// would escape the root is rejected.
type LocalDocumentStorage struct {
	root string
}

// Ensure LocalDocumentStorage implements facility.DocumentStorage
var _ facility.DocumentStorage = (*LocalDocumentStorage)(nil)

// NewLocalDocumentStorage creates a storage rooted at the given directory,
// creating it if needed
func NewLocalDocumentStorage(root string) (*LocalDocumentStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &LocalDocumentStorage{root: root}, nil
}

func (s *LocalDocumentStorage) path(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") || filepath.IsAbs(key) {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}

// Put writes a payload under the given key, replacing any previous content
func (s *LocalDocumentStorage) Put(ctx context.Context, key string, contentType string, body io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), p)
}

// Get opens the payload stored under the given key
func (s *LocalDocumentStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

// Remove deletes the payload stored under the given key. Removing a key
// that does not exist is not an error.
func (s *LocalDocumentStorage) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
