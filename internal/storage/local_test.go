package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tirupurhomes/internal/storage"
)

func TestLocalPutDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := storage.NewLocal(dir, "http://localhost:8080/media/")
	require.NoError(t, err)

	ctx := context.Background()
	obj, err := s.Put(ctx, "tirupur-homes/property-7", "front.JPG", "image/jpeg", []byte("jpeg-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(obj.Ref, "tirupur-homes/property-7/"))
	assert.True(t, strings.HasSuffix(obj.Ref, ".jpg"))
	assert.Equal(t, "http://localhost:8080/media/"+obj.Ref, obj.URL)

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(obj.Ref)))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	require.NoError(t, s.Delete(ctx, obj.Ref))
	assert.ErrorIs(t, s.Delete(ctx, obj.Ref), storage.ErrNotFound)
}

func TestLocalRejectsTraversal(t *testing.T) {
	s, err := storage.NewLocal(t.TempDir(), "http://x/media")
	require.NoError(t, err)

	obj, err := s.Put(context.Background(), "../../etc", "passwd", "image/png", []byte("x"))
	require.NoError(t, err)
	assert.False(t, strings.Contains(obj.Ref, ".."))
	assert.True(t, strings.HasPrefix(obj.Ref, "etc/"))

	assert.ErrorIs(t, s.Delete(context.Background(), "../outside.png"), storage.ErrNotFound)
}
