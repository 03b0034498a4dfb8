package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/docxmd/internal/linearize"
	"github.com/dgallion1/docxmd/internal/parser"
)

// Worker converts documents. It holds no per-document state, so one
// Worker may serve several goroutines.
type Worker struct {
	log       *slog.Logger
	stats     *ConvertStats
	cache     *ResultCache
	summarize bool
}

func NewWorker(log *slog.Logger, stats *ConvertStats, cache *ResultCache, summarize bool) *Worker {
	return &Worker{
		log:       log,
		stats:     stats,
		cache:     cache,
		summarize: summarize,
	}
}

// Convert parses and linearizes a document, reusing a cached result for
// identical content and options. cached reports whether the cache served it.
func (w *Worker) Convert(data []byte, filename string, opts linearize.Options) (markdown string, cached bool, err error) {
	key := CacheKey(ContentDigest(data), opts)
	if md, ok := w.cache.Get(key); ok {
		return md, true, nil
	}

	start := time.Now()
	p, err := parser.ForFile(filename, w.log)
	if err != nil {
		w.stats.RecordFailure()
		return "", false, err
	}
	doc, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		w.stats.RecordFailure()
		return "", false, fmt.Errorf("parse %s: %w", filename, err)
	}
	markdown = linearize.Linearize(doc, opts)
	w.stats.Record(time.Since(start).Milliseconds())

	w.cache.Put(key, markdown)
	return markdown, false, nil
}

// Process runs the conversion for a queued job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "filename", job.Filename)

	if err := ctx.Err(); err != nil {
		job.Fail("queued", err.Error())
		return
	}

	data := job.FileData()
	job.SetStatus(StatusConverting, "converting")

	if w.summarize {
		if s, err := parser.Summarize(data); err != nil {
			log.Warn("summary unavailable", "error", err)
		} else {
			job.SetSummary(s)
		}
	}

	markdown, cached, err := w.Convert(data, job.Filename, job.Options)
	if err != nil {
		log.Error("conversion failed", "error", err)
		job.Fail("converting", err.Error())
		return
	}

	status := StatusCompleted
	if cached {
		status = StatusCached
	}
	job.Complete(markdown, status)
	log.Info("conversion complete", "status", status, "bytes", len(markdown))
}
