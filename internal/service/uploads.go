package service

import (
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/internship-api/internal/dto"
	appErrors "github.com/noah-isme/internship-api/pkg/errors"
	"github.com/noah-isme/internship-api/pkg/storage"
)

// FileStore persists uploaded files.
type FileStore interface {
	Put(prefix, originalName string, r io.Reader) (*storage.StoredFile, error)
	Delete(key string) error
}

// URLSigner produces time-limited download links for stored keys.
type URLSigner interface {
	URL(ownerID, key string) (string, error)
}

// storeUploads writes every file under prefix. On failure the files already
// written are removed.
func storeUploads(store FileStore, prefix string, files []dto.UploadedFile, logger *zap.Logger) ([]*storage.StoredFile, error) {
	stored := make([]*storage.StoredFile, 0, len(files))
	for _, f := range files {
		if f.Content == nil || strings.TrimSpace(f.Name) == "" {
			discardUploads(store, stored, logger)
			return nil, appErrors.Clone(appErrors.ErrValidation, "uploaded file is empty")
		}
		sf, err := store.Put(prefix, f.Name, f.Content)
		if err != nil {
			discardUploads(store, stored, logger)
			if errors.Is(err, storage.ErrTooLarge) {
				return nil, appErrors.Clone(appErrors.ErrConstraintViolation, "file "+f.Name+" exceeds the maximum upload size")
			}
			return nil, appErrors.Unavailable(err, "failed to store uploaded file")
		}
		stored = append(stored, sf)
	}
	return stored, nil
}

func discardUploads(store FileStore, files []*storage.StoredFile, logger *zap.Logger) {
	for _, f := range files {
		if err := store.Delete(f.Key); err != nil {
			logger.Warn("failed to remove stored file", zap.String("key", f.Key), zap.Error(err))
		}
	}
}

func signURL(signer URLSigner, ownerID, key string, logger *zap.Logger) string {
	if signer == nil || key == "" {
		return ""
	}
	url, err := signer.URL(ownerID, key)
	if err != nil {
		logger.Warn("failed to sign download url", zap.String("key", key), zap.Error(err))
		return ""
	}
	return url
}
