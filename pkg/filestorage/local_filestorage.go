package filestorage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileStorageInterface is the blob-store contract. Stored names are
// always regenerated server-side, so a caller-supplied file name can
// never become a path on disk.
type FileStorageInterface interface {
	Save(file io.Reader, originalFileName string, prefix string) (blobPath string, err error)
	Open(blobPath string) (io.ReadCloser, error)
	Delete(blobPath string) error
}

type LocalFileStorage struct {
	basePath string
}

func NewLocalFileStorage(basePath string) (FileStorageInterface, error) {
	if _, err := os.Stat(basePath); os.IsNotExist(err) {
		if err := os.MkdirAll(basePath, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}
	return &LocalFileStorage{basePath: basePath}, nil
}

// Save writes the blob under a date-partitioned directory with a random
// name. Only the extension survives from the original file name, and it
// is stripped of any separator characters first.
func (s *LocalFileStorage) Save(file io.Reader, originalFileName string, prefix string) (string, error) {
	ext := SanitizeExtension(originalFileName)
	uniqueFileName := fmt.Sprintf("%s-%s%s", time.Now().Format("2006-01-02"), uuid.New().String(), ext)

	datePath := time.Now().Format("2006/01/02")
	fullDirPath := filepath.Join(s.basePath, prefix, datePath)

	if err := os.MkdirAll(fullDirPath, 0o755); err != nil {
		return "", err
	}

	dst, err := os.Create(filepath.Join(fullDirPath, uniqueFileName))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		return "", err
	}

	return filepath.ToSlash(filepath.Join(prefix, datePath, uniqueFileName)), nil
}

// Open returns the blob for streaming. Paths are resolved strictly under
// basePath; anything that escapes it is rejected.
func (s *LocalFileStorage) Open(blobPath string) (io.ReadCloser, error) {
	fullPath, err := s.resolve(blobPath)
	if err != nil {
		return nil, err
	}
	return os.Open(fullPath)
}

// Delete removes the blob. A missing file counts as success.
func (s *LocalFileStorage) Delete(blobPath string) error {
	fullPath, err := s.resolve(blobPath)
	if err != nil {
		return err
	}
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return nil
	}
	return os.Remove(fullPath)
}

func (s *LocalFileStorage) resolve(blobPath string) (string, error) {
	cleaned := filepath.Clean("/" + blobPath)
	fullPath := filepath.Join(s.basePath, cleaned)
	if !strings.HasPrefix(fullPath, filepath.Clean(s.basePath)+string(os.PathSeparator)) {
		return "", fmt.Errorf("blob path escapes storage root: %s", blobPath)
	}
	return fullPath, nil
}

// SanitizeExtension extracts a safe extension from a client-supplied
// file name.
func SanitizeExtension(originalFileName string) string {
	ext := filepath.Ext(filepath.Base(originalFileName))
	ext = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.':
			return r
		}
		return -1
	}, ext)
	if ext == "." {
		return ""
	}
	return ext
}
