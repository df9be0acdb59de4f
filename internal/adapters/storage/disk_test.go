package storage

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"party.JPG", "party.jpg"},
		{"Launch Night.PNG", "Launch Night.png"},
		{"plain.jpg", "plain.jpg"},
		{"noext", "noext"},
		{"../../etc/passwd", "passwd"},
		{"photos/nested/pic.GIF", "pic.gif"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeFilename(tt.in), "input %q", tt.in)
	}
}

func TestDiskStore_Save(t *testing.T) {
	root := t.TempDir()
	store, err := NewDiskStore(root, "/static/images")
	require.NoError(t, err)

	rel, err := store.Save("Cover.JPG", strings.NewReader("image-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/static/images/Cover.jpg", rel)

	data, err := os.ReadFile(filepath.Join(root, "Cover.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(data))
}

func TestDiskStore_Save_rejects_empty_name(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "/static/images")
	require.NoError(t, err)

	_, err = store.Save("..", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestDiskStore_Remove(t *testing.T) {
	root := t.TempDir()
	store, err := NewDiskStore(root, "/static/images")
	require.NoError(t, err)

	rel, err := store.Save("gone.png", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(rel))
	_, err = os.Stat(filepath.Join(root, "gone.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestDiskStore_Remove_missing_file(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "/static/images")
	require.NoError(t, err)

	err = store.Remove("/static/images/never-there.png")
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestNewDiskStore_creates_root(t *testing.T) {
	root := filepath.Join(t.TempDir(), "static", "images")
	_, err := NewDiskStore(root, "/static/images")
	require.NoError(t, err)

	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
