package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Upload("abc123.jpg", strings.NewReader("image-bytes")))

	f, err := store.Open("abc123.jpg")
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	f.Close()
	assert.Equal(t, "image-bytes", string(data))

	require.NoError(t, store.Delete("abc123.jpg"))
	_, err = store.Open("abc123.jpg")
	assert.Error(t, err)

	// Deleting an already-absent key is not an error.
	assert.NoError(t, store.Delete("abc123.jpg"))
}

func TestLocalStorageConfinesKeys(t *testing.T) {
	base := t.TempDir()
	store, err := NewLocalStorage(base)
	require.NoError(t, err)

	// Traversal attempts resolve inside the base dir.
	require.NoError(t, store.Upload("../../escape.jpg", strings.NewReader("x")))

	f, err := store.Open("escape.jpg")
	require.NoError(t, err)
	f.Close()
}
