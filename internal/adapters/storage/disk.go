package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"eventgallery/internal/domain"
	"eventgallery/internal/metrics"
)

type diskStore struct {
	root   string // filesystem directory, e.g. static/images
	prefix string // URL path the directory is served under, e.g. /static/images
}

// NewDiskStore returns a FileStore that writes under root and reports paths
// relative to prefix. The directory is created if missing.
//
// Concurrent saves to the same filename race last-write-wins; callers accept
// that for this single-admin system.
func NewDiskStore(root, prefix string) (domain.FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create static root %s: %w", root, err)
	}
	return &diskStore{root: root, prefix: strings.TrimSuffix(prefix, "/")}, nil
}

// NormalizeFilename strips any directory components from a client-supplied
// name and lower-cases the extension.
func NormalizeFilename(name string) string {
	name = filepath.Base(filepath.Clean(name))
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + strings.ToLower(ext)
}

func (s *diskStore) Save(filename string, content io.Reader) (string, error) {
	name := NormalizeFilename(filename)
	if name == "" || name == "." || name == ".." || name == string(filepath.Separator) {
		return "", fmt.Errorf("invalid filename %q", filename)
	}
	dst, err := os.Create(filepath.Join(s.root, name))
	if err != nil {
		return "", fmt.Errorf("create file %s: %w", name, err)
	}
	if _, err := io.Copy(dst, content); err != nil {
		dst.Close()
		return "", fmt.Errorf("write file %s: %w", name, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close file %s: %w", name, err)
	}
	metrics.RecordUpload()
	return path.Join(s.prefix, name), nil
}

func (s *diskStore) Remove(relPath string) error {
	// Only the final path element is meaningful; stored paths all live
	// directly under the static root.
	return os.Remove(filepath.Join(s.root, path.Base(relPath)))
}
