package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalStore keeps images on disk under dir and serves them from
// baseURL + "/uploads/".
type LocalStore struct {
	dir     string
	baseURL string
	now     func() time.Time
}

func NewLocalStore(dir, publicBaseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimRight(publicBaseURL, "/") + "/uploads/",
		now:     time.Now,
	}, nil
}

func (s *LocalStore) Put(_ context.Context, owner uuid.UUID, filename, contentType string, r io.Reader) (string, error) {
	if err := ValidateContentType(contentType); err != nil {
		return "", err
	}

	// flat layout so the name is recoverable from the URL alone
	name := strings.ReplaceAll(objectName(owner, filename, s.now()), "/", "_")

	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write image file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close image file: %w", err)
	}
	return s.baseURL + name, nil
}

func (s *LocalStore) Delete(_ context.Context, url string) error {
	if !s.Owns(url) {
		return ErrForeignURL
	}
	name := path.Base(strings.TrimPrefix(url, s.baseURL))
	if name == "." || name == "/" || name == ".." {
		return ErrNotFound
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("remove image file: %w", err)
	}
	return nil
}

func (s *LocalStore) Owns(url string) bool {
	return strings.HasPrefix(url, s.baseURL)
}

func (s *LocalStore) OwnerOf(url string) (uuid.UUID, error) {
	if !s.Owns(url) {
		return uuid.Nil, ErrForeignURL
	}
	return ownerPrefix(path.Base(strings.TrimPrefix(url, s.baseURL)), '_')
}
