// Package storage holds listing photos outside the relational store.
package storage

import (
	"context"
	"errors"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("object not found")

// Object is a stored blob: a public URL plus the reference used to delete it.
type Object struct {
	URL string
	Ref string
}

type ObjectStore interface {
	Put(ctx context.Context, folder, name, contentType string, data []byte) (Object, error)
	Delete(ctx context.Context, ref string) error
}

// Opener is implemented by stores that serve their own objects.
type Opener interface {
	Open(ctx context.Context, ref string) (io.ReadCloser, string, error)
}

// objectName builds a collision-free file name that keeps the upload's
// extension, falling back to one derived from the content type.
func objectName(name, contentType string) string {
	ext := strings.ToLower(path.Ext(path.Base(name)))
	if ext == "" || len(ext) > 6 {
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		} else {
			ext = ""
		}
	}
	return uuid.NewString() + ext
}

// cleanFolder strips anything that could escape the storage root.
func cleanFolder(folder string) string {
	parts := strings.Split(folder, "/")
	out := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || p == "." || p == ".." || strings.ContainsAny(p, `\`+"\x00") {
			continue
		}
		out = append(out, p)
	}
	return strings.Join(out, "/")
}
