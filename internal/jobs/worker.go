package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jvillalba/docunir/internal/catalog"
	"github.com/jvillalba/docunir/internal/unify"
)

// Worker processes one job at a time.
type Worker struct {
	catalog *catalog.Catalog
	log     *slog.Logger
}

func NewWorker(cat *catalog.Catalog, log *slog.Logger) *Worker {
	return &Worker{catalog: cat, log: log}
}

// Process runs a job to completion and records the outcome on the job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "mode", job.Mode)
	params := job.Params()

	if err := ctx.Err(); err != nil {
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "canceled")
		return
	}

	job.SetStatus(StatusParsing, "reading inputs")
	opts := unify.Options{
		Levels:           params.Levels,
		ExactTitles:      params.ExactTitles,
		EnforceWhitelist: params.EnforceWhitelist,
		Catalog:          w.catalog,
		GroupLevel:       params.GroupLevel,
	}

	job.SetStatus(StatusComposing, "assembling output")
	var res *unify.Result
	var err error
	switch params.Mode {
	case ModeMerge:
		res, err = unify.Merge(params.Inputs, opts)
	case ModeGroup:
		res, err = unify.Group(params.Inputs, opts)
	default:
		err = fmt.Errorf("unknown mode %q", params.Mode)
	}
	if err != nil {
		log.Error("compose failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "composing")
		return
	}

	for _, s := range res.Skipped {
		log.Warn("input skipped", "file", s.File, "error", s.Reason)
	}
	job.SetResult(res.Files, res.Skipped)
	log.Info("job complete", "files", len(res.Files), "skipped", len(res.Skipped))
	job.SetStatus(StatusCompleted, "done")
}
