package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoragePutAndDelete(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir, "/static/uploads/")

	url, err := s.Put(context.Background(), "recipes/2026/10/a.png", "image/png", strings.NewReader("png"))
	require.NoError(t, err)
	assert.Equal(t, "/static/uploads/recipes/2026/10/a.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "recipes", "2026", "10", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	key := s.KeyFromURL(url)
	assert.Equal(t, "recipes/2026/10/a.png", key)
	require.NoError(t, s.Delete(context.Background(), key))
	require.NoError(t, s.Delete(context.Background(), key))
}

func TestKeyFromURLForeignURL(t *testing.T) {
	s := NewLocalStorage(t.TempDir(), "/static/uploads")
	assert.Empty(t, s.KeyFromURL("https://example.com/pic.png"))
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("/recipes/", ".jpg")
	assert.True(t, strings.HasPrefix(key, "recipes/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
}
