package ledger

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ImageDir is the flat upload directory shared by every ledger backend.
type ImageDir struct {
	root string
}

func NewImageDir(root string) *ImageDir {
	return &ImageDir{root: root}
}

func (d *ImageDir) Root() string { return d.root }

func (d *ImageDir) ensure() error {
	if err := os.MkdirAll(d.root, 0755); err != nil {
		return unavailable("create upload directory", err)
	}
	return nil
}

// StoredName returns the upload name for an attachment: {id}_{original}.
// Only the base of the original name is kept.
func StoredName(id, filename string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == ".." || strings.TrimSpace(base) == "" {
		return "", fmt.Errorf("invalid image filename %q", filename)
	}
	return id + "_" + base, nil
}

func (d *ImageDir) SaveImage(_ context.Context, id, filename string, data []byte) (string, error) {
	name, err := StoredName(id, filename)
	if err != nil {
		return "", err
	}
	if err := d.ensure(); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(d.root, name), data, 0644); err != nil {
		return "", unavailable("write image", err)
	}
	return name, nil
}

func (d *ImageDir) ReadImage(_ context.Context, ref string) ([]byte, error) {
	path, err := d.path(ref)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrImageMissing, ref)
	}
	if err != nil {
		return nil, unavailable("read image", err)
	}
	return data, nil
}

func (d *ImageDir) DeleteImage(_ context.Context, ref string) error {
	path, err := d.path(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return unavailable("delete image", err)
	}
	return nil
}

// exists reports whether ref names a regular file in the upload directory.
func (d *ImageDir) exists(ref string) (bool, error) {
	path, err := d.path(ref)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, unavailable("stat image", err)
	}
	return info.Mode().IsRegular(), nil
}

func (d *ImageDir) requireImage(ref string) error {
	if ref == "" {
		return nil
	}
	ok, err := d.exists(ref)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrImageMissing, ref)
	}
	return nil
}

// path resolves ref inside the upload directory, refusing anything that escapes it.
func (d *ImageDir) path(ref string) (string, error) {
	if ref == "" || ref != filepath.Base(ref) || ref == "." || ref == ".." {
		return "", fmt.Errorf("%w: invalid reference %q", ErrImageMissing, ref)
	}
	return filepath.Join(d.root, ref), nil
}
