// Package engine turns raw provider text into a typed course record.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/coursegest/internal/images"
	"github.com/dgallion1/coursegest/internal/parser"
	"github.com/dgallion1/coursegest/internal/record"
	"github.com/dgallion1/coursegest/internal/schema"
)

var (
	ErrUnknownKind       = errors.New("unknown schema kind")
	ErrMissingDocumentID = errors.New("document id is required when the text references remote images")
	ErrUnknownFormat     = errors.New("unknown input format")
)

// Format tells Parse how to read the input text.
type Format string

const (
	// FormatAuto decodes JSON objects (bare or fenced) and line-parses anything else.
	FormatAuto Format = "auto"
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat accepts a format name case-insensitively. Empty means auto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatText, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Input is one document to parse.
type Input struct {
	Text       string
	Kind       record.Kind
	DocumentID string
	// TopicLabel feeds figure captions only.
	TopicLabel string
	Format     Format
}

// Result is a parsed document with its image references and diagnostics.
type Result struct {
	Kind        record.Kind         `json:"kind"`
	Record      record.Record       `json:"record"`
	Images      []images.Reference  `json:"images"`
	Diagnostics []parser.Diagnostic `json:"diagnostics"`
	Structured  bool                `json:"structured"`
	Duration    time.Duration       `json:"-"`
}

// ImageResolver rewrites image references ahead of parsing. The texts of one
// call share a document namespace.
type ImageResolver interface {
	ResolveAll(ctx context.Context, texts []string, docID, topic string) ([]string, []images.Reference, error)
}

// Engine runs the parse pipeline. It holds no per-call state and is safe
// for concurrent use.
type Engine struct {
	resolver ImageResolver
	log      *slog.Logger
	opts     parser.Options
}

// Option configures an Engine.
type Option func(*Engine)

// WithParserOptions overrides the parser options.
func WithParserOptions(opts parser.Options) Option {
	return func(e *Engine) { e.opts = opts }
}

// New creates an Engine. A nil resolver skips image resolution.
func New(resolver ImageResolver, log *slog.Logger, opts ...Option) *Engine {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	e := &Engine{
		resolver: resolver,
		log:      log,
		opts:     parser.Options{InferTopics: true},
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Parse resolves images, then decodes a structured payload or line-parses
// the text into the record for in.Kind. Malformed content degrades to empty
// fields plus diagnostics; only an unknown kind or format, a missing
// document id and a structured payload that fails to decode are errors.
func (e *Engine) Parse(ctx context.Context, in Input) (*Result, error) {
	start := time.Now()

	kind, err := record.ParseKind(string(in.Kind))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, in.Kind)
	}
	format, err := ParseFormat(string(in.Format))
	if err != nil {
		return nil, err
	}

	log := e.log.With("kind", kind, "document_id", in.DocumentID)
	diag := parser.NewDiagnostics(log)

	structured := format == FormatJSON || (format == FormatAuto && schema.LooksStructured(in.Text))
	text := in.Text
	var refs []images.Reference
	if e.resolver != nil {
		resolve := func(texts []string) ([]string, error) {
			var out []string
			out, refs, err = e.resolver.ResolveAll(ctx, texts, in.DocumentID, in.TopicLabel)
			return out, err
		}
		if structured {
			// Figures are resolved inside string values so that inserted
			// markup is escaped when the payload is re-encoded.
			text, err = schema.MapStrings(text, resolve)
		} else {
			var out []string
			if out, err = resolve([]string{text}); len(out) == 1 {
				text = out[0]
			}
		}
		if errors.Is(err, images.ErrNoDocumentID) {
			return nil, ErrMissingDocumentID
		}
		if err != nil {
			return nil, err
		}
		for _, ref := range refs {
			if ref.Failed() {
				diag.Add(parser.DiagImageFetchFailure, "", ref.Original+": "+ref.Error)
			}
		}
	}
	if refs == nil {
		refs = []images.Reference{}
	}

	var rec record.Record
	if structured {
		rec, err = schema.Decode(kind, text)
		if err != nil {
			log.Warn("structured payload rejected", "error", err)
			return nil, err
		}
	} else {
		p, err := parser.ForKind(kind, e.opts)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnknownKind, err)
		}
		rec = parser.Run(text, p, diag)
	}

	res := &Result{
		Kind:        kind,
		Record:      rec,
		Images:      refs,
		Diagnostics: diag.Items(),
		Structured:  structured,
		Duration:    time.Since(start),
	}
	log.Info("document parsed",
		"structured", structured,
		"images", len(refs),
		"diagnostics", len(res.Diagnostics),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}
