// Package artifacts provides content storage for generated documents
package artifacts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a locator does not resolve to a stored artifact
var ErrNotFound = errors.New("artifact not found")

// Store is durable blob storage addressed by an opaque locator
type Store interface {
	// Upload stores the payload and returns its locator
	Upload(ctx context.Context, data []byte, name, ownerID, category string) (string, error)
	// Download retrieves the payload for a locator
	Download(ctx context.Context, locator string) ([]byte, error)
	// Delete removes the payload for a locator
	Delete(ctx context.Context, locator string) error
}

// FSStore is a filesystem-backed Store rooted at a single directory. Locators
// are slash-separated keys relative to the root.
type FSStore struct {
	root string
}

var _ Store = (*FSStore)(nil)

// NewFSStore creates a filesystem store rooted at the given directory
func NewFSStore(root string) (*FSStore, error) {
	if root == "" {
		return nil, fmt.Errorf("artifact root cannot be empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifact root: %w", err)
	}
	return &FSStore{root: root}, nil
}

// Upload stores the payload under an owner/category/date/uuid_name key
func (s *FSStore) Upload(_ context.Context, data []byte, name, ownerID, category string) (string, error) {
	if ownerID == "" {
		return "", fmt.Errorf("owner id cannot be empty")
	}
	if category == "" {
		category = "artifacts"
	}

	key := filepath.ToSlash(filepath.Join(
		ownerID,
		category,
		time.Now().UTC().Format("2006/01/02"),
		fmt.Sprintf("%s_%s", uuid.NewString(), filepath.Base(name)),
	))

	path, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create artifact directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	return key, nil
}

// Download retrieves the payload stored under the locator
func (s *FSStore) Download(_ context.Context, locator string) ([]byte, error) {
	path, err := s.resolve(locator)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}
	return data, nil
}

// Delete removes the payload stored under the locator
func (s *FSStore) Delete(_ context.Context, locator string) error {
	path, err := s.resolve(locator)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	return err
}

// resolve maps a locator to an absolute path, rejecting keys that escape the root
func (s *FSStore) resolve(locator string) (string, error) {
	if locator == "" {
		return "", fmt.Errorf("locator cannot be empty")
	}
	clean := filepath.Clean(filepath.FromSlash(locator))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid locator: %s", locator)
	}
	return filepath.Join(s.root, clean), nil
}
