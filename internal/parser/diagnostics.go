package parser

import (
	"context"
	"log/slog"
	"sync"
)

// DiagnosticKind classifies a non-fatal parsing finding.
type DiagnosticKind string

const (
	DiagStructuralGap     DiagnosticKind = "structural_gap"
	DiagImageFetchFailure DiagnosticKind = "image_fetch_failure"
	DiagInferredTopic     DiagnosticKind = "inferred_topic"
)

// Diagnostic is one non-fatal finding surfaced alongside a parsed record.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Section string         `json:"section,omitempty"`
	Detail  string         `json:"detail"`
}

// Diagnostics collects findings for one parse call and logs each as it is added.
type Diagnostics struct {
	mu    sync.Mutex
	log   *slog.Logger
	items []Diagnostic
}

func NewDiagnostics(log *slog.Logger) *Diagnostics {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Diagnostics{log: log}
}

// Add records a finding. Inferred topics log at info, everything else at warn.
func (d *Diagnostics) Add(kind DiagnosticKind, section, detail string) {
	d.mu.Lock()
	d.items = append(d.items, Diagnostic{Kind: kind, Section: section, Detail: detail})
	d.mu.Unlock()

	level := slog.LevelWarn
	if kind == DiagInferredTopic {
		level = slog.LevelInfo
	}
	d.log.Log(context.Background(), level, "parse diagnostic", "kind", kind, "section", section, "detail", detail)
}

// Gap records a structural gap.
func (d *Diagnostics) Gap(section, detail string) {
	d.Add(DiagStructuralGap, section, detail)
}

// Items returns a copy of the recorded findings, never nil.
func (d *Diagnostics) Items() []Diagnostic {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Diagnostic, len(d.items))
	copy(out, d.items)
	return out
}
