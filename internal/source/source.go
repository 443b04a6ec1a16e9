// Package source extracts plain, heading-delimited text from uploaded files
// so it can be fed to the parse engine.
package source

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnsupported is returned for file types no loader handles.
var ErrUnsupported = errors.New("unsupported file type")

// Document is the text extracted from one file. Headings are rendered as
// markdown "#" lines so the engine's heading matcher sees them.
type Document struct {
	Title string
	Text  string
}

// Loader converts raw file bytes into a Document.
type Loader interface {
	Load(r io.Reader, filename string) (*Document, error)
}

// Options tunes loader behavior.
type Options struct {
	// PDFFallback runs pdftotext when the native PDF reader fails.
	PDFFallback bool
}

var supportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".json":     true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the loader for a filename's extension.
func ForFile(filename string, opts Options) (Loader, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt", ".md", ".markdown", ".json":
		return &TextLoader{}, nil
	case ".html", ".htm":
		return &HTMLLoader{}, nil
	case ".pdf":
		return &PDFLoader{FallbackPdftotext: opts.PDFFallback}, nil
	case ".docx":
		return &DOCXLoader{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
}

// IsSupported reports whether a filename has a supported extension.
func IsSupported(filename string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// SupportedExtensions lists the handled extensions in sorted order.
func SupportedExtensions() []string {
	out := make([]string, 0, len(supportedExtensions))
	for ext := range supportedExtensions {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Load picks a loader by filename and runs it.
func Load(r io.Reader, filename string, opts Options) (*Document, error) {
	l, err := ForFile(filename, opts)
	if err != nil {
		return nil, err
	}
	return l.Load(r, filename)
}

func titleFromName(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// headingLine renders a heading of the given level as a markdown line.
func headingLine(level int, text string) string {
	return strings.Repeat("#", level) + " " + text
}
