// Package blobstore persists uploaded payment receipts on local disk
// behind opaque tokens, so receipt paths never leak into API payloads.
package blobstore

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	crerr "github.com/cockroachdb/errors"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/usecase"
)

var contentTypeExtensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"application/pdf": ".pdf",
}

// LocalStore implements usecase.ReceiptStore on a local directory.
type LocalStore struct {
	dir      string
	maxBytes int64
}

func NewLocalStore(dir string, maxBytes int64) (*LocalStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, crerr.New("receipt directory is required")
	}
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, crerr.Wrap(err, "create receipt directory")
	}

	return &LocalStore{dir: dir, maxBytes: maxBytes}, nil
}

func (s *LocalStore) Save(ctx context.Context, r io.Reader, size int64, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext, ok := contentTypeExtensions[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return "", fmt.Errorf("%w: unsupported receipt type %q", usecase.ErrInvalidInput, contentType)
	}
	if size > s.maxBytes {
		return "", fmt.Errorf("%w: receipt exceeds %d bytes", usecase.ErrInvalidInput, s.maxBytes)
	}

	token, err := newToken()
	if err != nil {
		return "", err
	}
	name := token + ext

	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", crerr.Wrap(err, "create receipt file")
	}

	written, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", crerr.Wrap(err, "write receipt file")
	}
	if written > s.maxBytes {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("%w: receipt exceeds %d bytes", usecase.ErrInvalidInput, s.maxBytes)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", crerr.Wrap(err, "close receipt file")
	}

	return name, nil
}

func (s *LocalStore) Open(ctx context.Context, token string) (io.ReadCloser, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	// Tokens are generated by Save; anything with a path separator or
	// dot-dot segment is a forged token, not a lookup miss.
	clean := filepath.Base(strings.TrimSpace(token))
	if clean == "" || clean == "." || clean != strings.TrimSpace(token) {
		return nil, "", fmt.Errorf("%w: malformed receipt token", usecase.ErrInvalidInput)
	}

	f, err := os.Open(filepath.Join(s.dir, clean))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", usecase.ErrNotFound
		}
		return nil, "", crerr.Wrap(err, "open receipt file")
	}

	contentType := "application/octet-stream"
	ext := strings.ToLower(filepath.Ext(clean))
	for ct, e := range contentTypeExtensions {
		if e == ext {
			contentType = ct
			break
		}
	}

	return f, contentType, nil
}

// Delete removes a stored receipt. A token that no longer resolves to
// a file is not an error; the blob is gone either way.
func (s *LocalStore) Delete(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	clean := filepath.Base(strings.TrimSpace(token))
	if clean == "" || clean == "." || clean != strings.TrimSpace(token) {
		return fmt.Errorf("%w: malformed receipt token", usecase.ErrInvalidInput)
	}

	if err := os.Remove(filepath.Join(s.dir, clean)); err != nil && !os.IsNotExist(err) {
		return crerr.Wrap(err, "remove receipt file")
	}

	return nil
}

func newToken() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", crerr.Wrap(err, "generate receipt token")
	}
	return hex.EncodeToString(raw), nil
}
