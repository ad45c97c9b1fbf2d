package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Local writes objects under a media directory that the HTTP layer serves
// at BaseURL (e.g. http://host/media). Refs are paths relative to Dir.
type Local struct {
	Dir     string
	BaseURL string
}

func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir %s: %w", dir, err)
	}
	return &Local{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *Local) Put(ctx context.Context, folder, name, contentType string, data []byte) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}
	ref := path.Join(cleanFolder(folder), objectName(name, contentType))
	full := filepath.Join(s.Dir, filepath.FromSlash(ref))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return Object{}, fmt.Errorf("create folder: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return Object{}, fmt.Errorf("write object: %w", err)
	}
	return Object{URL: s.BaseURL + "/" + ref, Ref: ref}, nil
}

func (s *Local) Delete(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clean := cleanFolder(ref)
	if clean == "" || clean != ref {
		return fmt.Errorf("delete %q: %w", ref, ErrNotFound)
	}
	err := os.Remove(filepath.Join(s.Dir, filepath.FromSlash(clean)))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %q: %w", ref, ErrNotFound)
	}
	return err
}
