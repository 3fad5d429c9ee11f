package jobs

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/jvillalba/docunir/internal/catalog"
	"github.com/jvillalba/docunir/internal/config"
	"github.com/jvillalba/docunir/internal/unify"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewULID_UniqueAndWellFormed(t *testing.T) {
	seen := make(map[string]bool)
	for range 200 {
		id := newULID()
		if len(id) != 26 {
			t.Fatalf("expected 26 characters, got %q", id)
		}
		for _, c := range id {
			if !strings.ContainsRune(crockford, c) {
				t.Fatalf("unexpected character %q in %q", c, id)
			}
		}
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := New(Params{Mode: ModeMerge})
	if job.Status != StatusQueued {
		t.Fatalf("expected new job queued, got %q", job.Status)
	}

	transitions := []struct {
		status Status
		phase  string
	}{
		{StatusParsing, "reading inputs"},
		{StatusComposing, "assembling output"},
		{StatusCompleted, "done"},
	}
	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJob_SnapshotSlicesNotNil(t *testing.T) {
	snap := New(Params{Mode: ModeMerge}).Snapshot()
	if snap.Files == nil || snap.Skipped == nil || snap.Errors == nil {
		t.Errorf("expected non-nil slices in snapshot, got %+v", snap)
	}
}

func TestJob_ResultAccess(t *testing.T) {
	job := New(Params{Mode: ModeMerge, Inputs: []unify.Input{{Name: "a.md"}}})
	job.SetResult(
		map[string][]byte{"unificado.docx": []byte("doc"), "tablas.xlsx": []byte("xlsx")},
		[]unify.Skip{{File: "roto.pdf", Reason: "open pdf: bad"}},
	)

	snap := job.Snapshot()
	if snap.InputCount != 1 {
		t.Errorf("expected input count 1, got %d", snap.InputCount)
	}
	wantFiles := []string{"tablas.xlsx", "unificado.docx"}
	if len(snap.Files) != 2 || snap.Files[0] != wantFiles[0] || snap.Files[1] != wantFiles[1] {
		t.Errorf("expected sorted files %v, got %v", wantFiles, snap.Files)
	}
	if len(snap.Skipped) != 1 || snap.Skipped[0].File != "roto.pdf" {
		t.Errorf("unexpected skip list %+v", snap.Skipped)
	}

	data, ok := job.File("unificado.docx")
	if !ok || string(data) != "doc" {
		t.Errorf("expected stored artifact, got %q ok=%v", data, ok)
	}
	if _, ok := job.File("desconocido.docx"); ok {
		t.Error("expected miss for unknown artifact")
	}
}

func TestJob_AddError(t *testing.T) {
	job := New(Params{Mode: ModeGroup})
	job.AddError("primer problema")
	job.AddError("segundo problema")

	snap := job.Snapshot()
	if len(snap.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Errors))
	}
	if snap.Errors[0] != "primer problema" {
		t.Errorf("expected first error %q, got %q", "primer problema", snap.Errors[0])
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := New(Params{Mode: ModeMerge})
	store.Put(job)

	got := store.Get(job.ID)
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != job.ID {
		t.Errorf("expected ID %q, got %q", job.ID, got.ID)
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := New(Params{Mode: ModeMerge})
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	fresh := New(Params{Mode: ModeMerge})
	store.Put(fresh)

	store.Cleanup()

	if store.Get(expired.ID) != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get(fresh.ID) == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestWorker_ProcessMerge(t *testing.T) {
	w := NewWorker(catalog.Default(), discardLogger())
	job := New(Params{
		Mode:   ModeMerge,
		Inputs: []unify.Input{{Name: "doc.md", Data: []byte("# Uno\n\ntexto\n")}},
	})

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %q (%+v)", snap.Status, snap.Errors)
	}
	if len(snap.Files) != 2 {
		t.Fatalf("expected both artifacts, got %v", snap.Files)
	}
	if _, ok := job.File(unify.MergedDocName); !ok {
		t.Errorf("missing %s", unify.MergedDocName)
	}
	if _, ok := job.File(unify.TablesName); !ok {
		t.Errorf("missing %s", unify.TablesName)
	}
}

func TestWorker_ProcessGroupBadLevel(t *testing.T) {
	w := NewWorker(catalog.Default(), discardLogger())
	job := New(Params{
		Mode:       ModeGroup,
		GroupLevel: 9,
		Inputs:     []unify.Input{{Name: "doc.md", Data: []byte("# Uno\n")}},
	})

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed {
		t.Fatalf("expected failed, got %q", snap.Status)
	}
	if len(snap.Errors) == 0 {
		t.Error("expected an error recorded")
	}
}

func TestWorker_ProcessCanceledContext(t *testing.T) {
	w := NewWorker(catalog.Default(), discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	job := New(Params{Mode: ModeMerge})
	w.Process(ctx, job)

	if snap := job.Snapshot(); snap.Status != StatusFailed {
		t.Errorf("expected failed on canceled context, got %q", snap.Status)
	}
}

func TestOrchestrator_ProcessesSubmittedJob(t *testing.T) {
	cfg := config.Config{WorkerCount: 2, MaxQueueSize: 4, JobTTL: time.Hour}
	o := NewOrchestrator(cfg, catalog.Default(), discardLogger())
	o.Start(context.Background())

	job := New(Params{
		Mode:   ModeMerge,
		Inputs: []unify.Input{{Name: "doc.md", Data: []byte("# Uno\n\ntexto\n")}},
	})
	if err := o.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if s := job.Snapshot().Status; s == StatusCompleted || s == StatusFailed {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	o.Stop()

	if s := job.Snapshot().Status; s != StatusCompleted {
		t.Fatalf("expected completed, got %q", s)
	}
	if o.GetJob(job.ID) == nil {
		t.Error("expected job to remain in the store")
	}
	if o.Stats().Count < 1 {
		t.Errorf("expected at least one run sample, got %d", o.Stats().Count)
	}
}

func TestOrchestrator_SubmitQueueFull(t *testing.T) {
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 1, JobTTL: time.Hour}
	// Never started: nothing drains the queue.
	o := NewOrchestrator(cfg, catalog.Default(), discardLogger())

	if err := o.Submit(New(Params{Mode: ModeMerge})); err != nil {
		t.Fatalf("first submit should fit: %v", err)
	}
	second := New(Params{Mode: ModeMerge})
	if err := o.Submit(second); err == nil {
		t.Fatal("expected queue full error")
	}
	if second.Snapshot().Status != StatusFailed {
		t.Errorf("expected rejected job marked failed, got %q", second.Snapshot().Status)
	}
	if o.GetJob(second.ID) == nil {
		t.Error("expected rejected job still tracked for status polling")
	}
	if o.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", o.QueueDepth())
	}
}
