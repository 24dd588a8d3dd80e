package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/internship-api/internal/dto"
	appErrors "github.com/noah-isme/internship-api/pkg/errors"
	"github.com/noah-isme/internship-api/pkg/storage"
)

func TestStoreUploadsRollsBackOnEmptyFile(t *testing.T) {
	files := newFileStoreStub()
	_, err := storeUploads(files, "tasks/task-1", []dto.UploadedFile{
		{Name: "proof.txt", Content: strings.NewReader("done")},
		{Name: "empty.txt"},
	}, zap.NewNop())
	require.Error(t, err)
	assert.True(t, appErrors.IsKind(err, appErrors.CodeValidation))
	assert.Equal(t, 0, files.count())
	assert.Len(t, files.deleted, 1)
}

func TestStoreUploadsMapsStorageErrors(t *testing.T) {
	files := newFileStoreStub()
	files.putErr = storage.ErrTooLarge
	_, err := storeUploads(files, "photos", []dto.UploadedFile{{Name: "big.jpg", Content: strings.NewReader("x")}}, zap.NewNop())
	assert.True(t, appErrors.IsKind(err, appErrors.CodeConstraintViolation))

	files.putErr = errStoreDown
	_, err = storeUploads(files, "photos", []dto.UploadedFile{{Name: "a.jpg", Content: strings.NewReader("x")}}, zap.NewNop())
	assert.True(t, appErrors.IsKind(err, appErrors.CodeUnavailable))
}

func TestSignURL(t *testing.T) {
	assert.Equal(t, "", signURL(nil, "task-1", "k", zap.NewNop()))
	assert.Equal(t, "", signURL(signerStub{}, "task-1", "", zap.NewNop()))
	assert.Equal(t, "https://files.test/task-1/k", signURL(signerStub{}, "task-1", "k", zap.NewNop()))
}
