// Package storage implements the upload store: it writes bytes under a
// generated name and hands back a reference path. Only the reference is
// ever persisted on profile or campaign rows.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxUploadBytes caps uploads at 5MB.
const MaxUploadBytes = 5 << 20

// ErrTooLarge is returned for uploads over MaxUploadBytes.
var ErrTooLarge = errors.New("file too large")

// ErrBadType is returned for extensions outside the allow-list.
var ErrBadType = errors.New("file type not allowed")

// DocumentTypes is the allow-list for verification documents (NGO
// certificates, campaigner government IDs).
var DocumentTypes = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".pdf": true}

// ImageTypes is the allow-list for campaign images.
var ImageTypes = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true}

// LocalStore writes uploads to a directory on local disk.
type LocalStore struct {
	Dir string
}

// NewLocalStore creates the upload directory if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{Dir: dir}, nil
}

// Save validates size and type, stores the file under a generated name and
// returns the public reference path. field names the upload slot (e.g.
// "certificate") and becomes the filename prefix.
func (s *LocalStore) Save(fh *multipart.FileHeader, field string, allowed map[string]bool) (string, error) {
	if fh.Size > MaxUploadBytes {
		return "", ErrTooLarge
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowed[ext] {
		return "", ErrBadType
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := field + "-" + uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(src, MaxUploadBytes+1)); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return "/uploads/" + name, nil
}
