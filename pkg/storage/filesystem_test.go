package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoragePutOpenDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), 1024)
	require.NoError(t, err)

	stored, err := store.Put("tasks/task-1", "../../Proof.TXT", strings.NewReader("weekly proof"))
	require.NoError(t, err)
	assert.Equal(t, "Proof.TXT", stored.Name)
	assert.True(t, strings.HasPrefix(stored.Key, "tasks/task-1/"))
	assert.True(t, strings.HasSuffix(stored.Key, ".txt"))
	assert.Equal(t, int64(len("weekly proof")), stored.Size)
	assert.Contains(t, stored.ContentType, "text/plain")

	file, err := store.Open(stored.Key)
	require.NoError(t, err)
	body, err := io.ReadAll(file)
	require.NoError(t, err)
	require.NoError(t, file.Close())
	assert.Equal(t, "weekly proof", string(body))

	require.NoError(t, store.Delete(stored.Key))
	require.NoError(t, store.Delete(stored.Key))
	_, err = store.Open(stored.Key)
	assert.Error(t, err)
}

func TestLocalStorageRejectsOversizedUploads(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), 8)
	require.NoError(t, err)

	_, err = store.Put("photos", "big.jpg", strings.NewReader(strings.Repeat("x", 64)))
	assert.ErrorIs(t, err, ErrTooLarge)
}
