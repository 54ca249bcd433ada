package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goride/admin-api/internal/core/domain"
	"github.com/goride/admin-api/internal/core/ports"
)

// Disk stores pictures under <root>/<kind>/<name>, the layout served at
// /uploads/<kind>/<name>.
type Disk struct {
	root string
}

func NewDisk(root string) (*Disk, error) {
	if root == "" {
		root = "uploads"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Disk{root: root}, nil
}

func (d *Disk) Save(_ context.Context, kind string, img ports.ImageUpload) (string, error) {
	name, data, _, err := prepare(img)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(d.root, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return name, nil
}

func (d *Disk) Open(_ context.Context, kind, name string) (io.ReadCloser, string, error) {
	if !validName(kind, name) {
		return nil, "", domain.ErrNotFound
	}
	f, err := os.Open(filepath.Join(d.root, kind, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", domain.ErrNotFound
		}
		return nil, "", fmt.Errorf("open %s: %w", name, err)
	}
	return f, contentTypeOf(name), nil
}

func (d *Disk) Delete(_ context.Context, kind, name string) error {
	if !validName(kind, name) {
		return nil
	}
	err := os.Remove(filepath.Join(d.root, kind, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}
