// Package images stores uploaded story images under their uploader's id and
// releases them on behalf of that uploader only.
package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("image not found")
	ErrUnsupportedType = errors.New("only image uploads are allowed")
	ErrForeignURL      = errors.New("image url is not managed by this store")
	ErrNoOwner         = errors.New("image has no recorded uploader")
)

type Store interface {
	// Put stores the image for owner and returns its public URL.
	Put(ctx context.Context, owner uuid.UUID, filename, contentType string, r io.Reader) (string, error)
	// Delete removes the image behind url. Missing images yield ErrNotFound.
	Delete(ctx context.Context, url string) error
	// Owns reports whether url points into this store.
	Owns(url string) bool
	// OwnerOf returns the uploader recorded in a managed url. Unmanaged urls
	// yield ErrForeignURL.
	OwnerOf(url string) (uuid.UUID, error)
}

func ValidateContentType(contentType string) error {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return ErrUnsupportedType
	}
	return nil
}

// objectName builds a collision free name under the owner's id that keeps
// the upload's extension, e.g. <owner>/2024/05/01/<uuid>.png.
func objectName(owner uuid.UUID, filename string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\`) {
		ext = ""
	}
	return fmt.Sprintf("%s/%04d/%02d/%02d/%s%s", owner, now.Year(), now.Month(), now.Day(), uuid.New(), ext)
}

// ownerPrefix parses the uploader id that leads name up to sep.
func ownerPrefix(name string, sep byte) (uuid.UUID, error) {
	i := strings.IndexByte(name, sep)
	if i <= 0 {
		return uuid.Nil, ErrNoOwner
	}
	owner, err := uuid.Parse(name[:i])
	if err != nil || owner == uuid.Nil {
		return uuid.Nil, ErrNoOwner
	}
	return owner, nil
}
