package backend

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"armenu-api/apperr"
)

// FileStorage keeps objects on the local filesystem under root/<bucket>/<path>
// and serves them from baseURL.
type FileStorage struct {
	root    string
	baseURL string
}

func NewFileStorage(root, baseURL string) (*FileStorage, error) {
	for _, bucket := range []string{BucketLogos, BucketModels} {
		if err := os.MkdirAll(filepath.Join(root, bucket), 0o755); err != nil {
			return nil, err
		}
	}
	return &FileStorage{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Root is the directory served as static files
func (s *FileStorage) Root() string { return s.root }

func (s *FileStorage) resolve(bucket, objectPath string) (string, error) {
	if bucket != BucketLogos && bucket != BucketModels {
		return "", apperr.Validation("unknown bucket: " + bucket)
	}
	clean := path.Clean("/" + objectPath)
	if clean == "/" || strings.Contains(objectPath, "..") {
		return "", apperr.Validation("invalid object path: " + objectPath)
	}
	return filepath.Join(s.root, bucket, filepath.FromSlash(clean)), nil
}

func (s *FileStorage) Upload(ctx context.Context, bucket, objectPath string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", apperr.Backend("upload cancelled", err)
	}
	full, err := s.resolve(bucket, objectPath)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", apperr.Backend("failed to prepare storage", err)
	}

	f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", apperr.Validation("object already exists: " + objectPath)
		}
		return "", apperr.Backend("failed to store file", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(full)
		return "", apperr.Backend("failed to store file", err)
	}
	if err := f.Close(); err != nil {
		return "", apperr.Backend("failed to store file", err)
	}
	return strings.TrimPrefix(path.Clean("/"+objectPath), "/"), nil
}

func (s *FileStorage) PublicURL(bucket, objectPath string) string {
	if objectPath == "" {
		return ""
	}
	return s.baseURL + "/" + bucket + "/" + strings.TrimPrefix(objectPath, "/")
}

// Remove deletes the object. Removing a missing object is not an error.
func (s *FileStorage) Remove(ctx context.Context, bucket, objectPath string) error {
	if err := ctx.Err(); err != nil {
		return apperr.Backend("remove cancelled", err)
	}
	full, err := s.resolve(bucket, objectPath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return apperr.Backend("failed to remove file", err)
	}
	return nil
}
