package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vctbuilder/pkg/platform/sentinel"
)

// Blobs stores uploaded files flat in one directory.
type Blobs struct {
	dir string
}

func NewBlobs(dir string) (*Blobs, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Blobs{dir: dir}, nil
}

// Dir is the directory served under /uploads.
func (b *Blobs) Dir() string {
	return b.dir
}

func (b *Blobs) Write(name string, data []byte) error {
	p, err := b.path(name)
	if err != nil {
		return err
	}
	// O_EXCL: stored names are fresh ids and must never overwrite.
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()    //nolint:errcheck // write error takes precedence
		os.Remove(p) //nolint:errcheck // best effort cleanup
		return fmt.Errorf("write %s: %w", name, err)
	}
	return f.Close()
}

func (b *Blobs) Read(name string) ([]byte, error) {
	p, err := b.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// Remove deletes name; a missing file is not an error.
func (b *Blobs) Remove(name string) error {
	p, err := b.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}

func (b *Blobs) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: stored file name %q", sentinel.ErrInvalidInput, name)
	}
	return filepath.Join(b.dir, name), nil
}
