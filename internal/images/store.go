package images

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// StoredImage is one file in a document's image namespace.
type StoredImage struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// List returns the images stored for docID, sorted by name. A namespace
// that was never written yields an empty list.
func (r *Resolver) List(docID string) ([]StoredImage, error) {
	ns := SanitizeSegment(docID)
	if ns == "" {
		return nil, ErrNoDocumentID
	}
	entries, err := os.ReadDir(filepath.Join(r.opts.Root, ns))
	if errors.Is(err, fs.ErrNotExist) {
		return []StoredImage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read image dir: %w", err)
	}

	out := make([]StoredImage, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, StoredImage{
			Name: e.Name(),
			Path: path.Join(r.opts.PublicPrefix, ns, e.Name()),
			Size: info.Size(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Remove deletes a document's image namespace and reports how many files
// it held.
func (r *Resolver) Remove(docID string) (int, error) {
	images, err := r.List(docID)
	if err != nil {
		return 0, err
	}
	if err := os.RemoveAll(filepath.Join(r.opts.Root, SanitizeSegment(docID))); err != nil {
		return 0, fmt.Errorf("remove image dir: %w", err)
	}
	return len(images), nil
}
