package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// BlobStore persists uploaded files and returns the relative path they can be
// fetched from.
type BlobStore interface {
	Put(ctx context.Context, dir, filename string, r io.Reader) (string, error)
	Open(ctx context.Context, p string) (afero.File, error)
}

type FileStore struct {
	fs afero.Fs
}

// NewDiskStore stores blobs under root on the local disk.
func NewDiskStore(root string) (*FileStore, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &FileStore{fs: afero.NewBasePathFs(osFs, root)}, nil
}

func NewMemoryStore() *FileStore {
	return &FileStore{fs: afero.NewMemMapFs()}
}

// Put writes r to dir/<uuid><ext>, keeping the extension of filename.
func (s *FileStore) Put(ctx context.Context, dir, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir = path.Clean("/" + dir)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create blob dir: %w", err)
	}

	name := uuid.New().String() + strings.ToLower(path.Ext(filename))
	p := path.Join(dir, name)

	f, err := s.fs.Create(p)
	if err != nil {
		return "", fmt.Errorf("create blob: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write blob: %w", err)
	}

	return strings.TrimPrefix(p, "/"), nil
}

func (s *FileStore) Open(ctx context.Context, p string) (afero.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.fs.Open(path.Clean("/" + p))
}
