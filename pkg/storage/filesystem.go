package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrTooLarge is returned when an upload exceeds the configured size limit.
var ErrTooLarge = errors.New("file exceeds maximum size")

// StoredFile describes a persisted upload.
type StoredFile struct {
	Key         string
	Name        string
	ContentType string
	Size        int64
	StoredAt    time.Time
}

// LocalStorage persists uploaded files on disk under a base directory.
type LocalStorage struct {
	baseDir  string
	maxBytes int64
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(baseDir string, maxBytes int64) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir, maxBytes: maxBytes}, nil
}

// Put streams r into a new file under prefix, keeping the original extension.
func (s *LocalStorage) Put(prefix, originalName string, r io.Reader) (*StoredFile, error) {
	name := filepath.Base(strings.TrimSpace(originalName))
	if name == "." || name == "/" || name == "" {
		name = "file"
	}
	key := path.Join(sanitize(prefix), uuid.NewString()+strings.ToLower(filepath.Ext(name)))
	target := s.resolve(key)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, fmt.Errorf("prepare storage directory: %w", err)
	}
	file, err := os.Create(target)
	if err != nil {
		return nil, fmt.Errorf("create stored file: %w", err)
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		file.Close() //nolint:errcheck
		_ = os.Remove(target)
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	src := io.MultiReader(bytes.NewReader(head), r)
	if s.maxBytes > 0 {
		src = io.LimitReader(src, s.maxBytes+1)
	}
	written, err := io.Copy(file, src)
	closeErr := file.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(target)
		return nil, fmt.Errorf("write stored file: %w", err)
	}
	if s.maxBytes > 0 && written > s.maxBytes {
		_ = os.Remove(target)
		return nil, ErrTooLarge
	}

	return &StoredFile{
		Key:         key,
		Name:        name,
		ContentType: http.DetectContentType(head),
		Size:        written,
		StoredAt:    time.Now().UTC(),
	}, nil
}

// Open returns a read-only handle for the stored file.
func (s *LocalStorage) Open(key string) (*os.File, error) {
	file, err := os.Open(s.resolve(key))
	if err != nil {
		return nil, fmt.Errorf("open stored file: %w", err)
	}
	return file, nil
}

// Delete removes a stored file if present.
func (s *LocalStorage) Delete(key string) error {
	if err := os.Remove(s.resolve(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete stored file: %w", err)
	}
	return nil
}

func (s *LocalStorage) resolve(key string) string {
	clean := filepath.Clean("/" + filepath.FromSlash(key))
	return filepath.Join(s.baseDir, clean)
}

func sanitize(prefix string) string {
	prefix = strings.Trim(path.Clean("/"+prefix), "/")
	if prefix == "" {
		return "misc"
	}
	return prefix
}
