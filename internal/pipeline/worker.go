package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/coursegest/internal/engine"
	"github.com/dgallion1/coursegest/internal/record"
	"github.com/dgallion1/coursegest/internal/source"
)

// Parser is the engine surface the pipeline drives.
type Parser interface {
	Parse(ctx context.Context, in engine.Input) (*engine.Result, error)
}

// Worker processes a single parse job.
type Worker struct {
	parser  Parser
	stats   *ParseStats
	log     *slog.Logger
	srcOpts source.Options
}

func NewWorker(p Parser, stats *ParseStats, log *slog.Logger, srcOpts source.Options) *Worker {
	return &Worker{
		parser:  p,
		stats:   stats,
		log:     log,
		srcOpts: srcOpts,
	}
}

// Process loads the job's text, if it came as a file, and parses it.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "document_id", job.DocumentID)

	text := job.Text()
	if data := job.FileData(); data != nil {
		job.SetStatus(StatusLoading, "loading")
		doc, err := source.Load(bytes.NewReader(data), job.Filename, w.srcOpts)
		if err != nil {
			log.Error("load failed", "filename", job.Filename, "error", err)
			job.AddError(fmt.Sprintf("load: %s", err))
			job.SetStatus(StatusFailed, "loading")
			return
		}
		text = doc.Text
		log.Info("loaded document", "filename", job.Filename, "title", doc.Title, "bytes", len(text))
	}
	job.SetContentHash(ContentHashHex([]byte(text)))

	job.SetStatus(StatusParsing, "parsing")
	res, err := runParse(ctx, w.parser, w.stats, engine.Input{
		Text:       text,
		Kind:       record.Kind(job.Kind),
		DocumentID: job.DocumentID,
		TopicLabel: job.TopicLabel,
		Format:     engine.Format(job.Format),
	})
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	job.complete(res)
	log.Info("job completed", "images", len(res.Images), "diagnostics", len(res.Diagnostics))
}

// runParse calls the parser and records latency whatever the outcome.
func runParse(ctx context.Context, p Parser, stats *ParseStats, in engine.Input) (*engine.Result, error) {
	start := time.Now()
	res, err := p.Parse(ctx, in)
	if stats != nil {
		stats.Record(string(in.Kind), time.Since(start), err != nil)
	}
	return res, err
}
