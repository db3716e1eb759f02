package worker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/scribe-audio/scribe/internal/domain"
	"github.com/scribe-audio/scribe/internal/logger"
	"github.com/scribe-audio/scribe/internal/store"
	"github.com/scribe-audio/scribe/internal/transcriber"
)

func newTestSupervisor(t *testing.T, handler http.Handler) (*Supervisor, *store.DB) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := transcriber.NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	db, err := store.NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	sup := NewSupervisor(client, 10*time.Millisecond, 20*time.Millisecond, logger.Default())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := sup.Shutdown(ctx); err != nil {
			t.Logf("Shutdown error: %v", err)
		}
	})
	return sup, db
}

func waitForTerminal(t *testing.T, db *store.DB, jobID string) *domain.Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, err := db.GetJob(jobID)
		if err == nil && job.Status.Terminal() {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("Job %s never reached a terminal state", jobID)
	return nil
}

// pollThenComplete answers the first n polls with in-progress, then
// reports a completed transcript.
func pollThenComplete(n int) http.Handler {
	var mu sync.Mutex
	polls := 0
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			w.Write([]byte(`{"status": "pending"}`)) //nolint:errcheck
			return
		}
		mu.Lock()
		polls++
		done := polls > n
		mu.Unlock()
		if !done {
			w.Write([]byte(`{"completed": false, "error": false, "stage": "transcribing"}`)) //nolint:errcheck
			return
		}
		w.Write([]byte(`{"completed": true, "error": false,
			"transcript": [{"speaker": "A", "timestamp": [0, 2], "text": "hi"}],
			"video_title": "Demo"}`)) //nolint:errcheck
	})
}

func TestSupervisor_SubmitAndComplete(t *testing.T) {
	sup, db := newTestSupervisor(t, pollThenComplete(2))

	jobID, err := sup.Submit(context.Background(), db, "https://example.com/a", nil)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if jobID == "" {
		t.Fatal("Expected a job id")
	}

	job := waitForTerminal(t, db, jobID)
	if job.Status != domain.JobStatusCompleted {
		t.Fatalf("Expected completed, got %s", job.Status)
	}
	if job.CompletedAt == nil {
		t.Error("Expected CompletedAt to be set")
	}

	// The transcript and its single entry were committed with the flip.
	completed, err := db.ListCompletedJobs(10)
	if err != nil {
		t.Fatalf("ListCompletedJobs failed: %v", err)
	}
	if len(completed) != 1 || completed[0].ID != jobID {
		t.Fatalf("Expected 1 completed job, got %+v", completed)
	}
	entries, err := db.ListEntries(completed[0].TranscriptID)
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Speaker != "A" || e.StartedAt != 0 || e.EndedAt != 2 || e.Contents != "hi" {
		t.Errorf("Unexpected entry: %+v", e)
	}

	// The tracker deregisters itself once terminal.
	deadline := time.Now().Add(2 * time.Second)
	for sup.Running() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := sup.Running(); got != 0 {
		t.Errorf("Expected 0 running trackers, got %d", got)
	}
}

func TestSupervisor_WorkerReportsError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			w.Write([]byte(`{"status": "pending"}`)) //nolint:errcheck
			return
		}
		w.Write([]byte(`{"completed": false, "error": true, "message": "download failed"}`)) //nolint:errcheck
	})
	sup, db := newTestSupervisor(t, handler)

	jobID, err := sup.Submit(context.Background(), db, "https://example.com/a", nil)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	job := waitForTerminal(t, db, jobID)
	if job.Status != domain.JobStatusFailed {
		t.Errorf("Expected failed, got %s", job.Status)
	}
}

func TestSupervisor_PollTransportError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	sup, db := newTestSupervisor(t, handler)

	jobID, err := sup.Submit(context.Background(), db, "https://example.com/a", nil)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	job := waitForTerminal(t, db, jobID)
	if job.Status != domain.JobStatusFailed {
		t.Errorf("Expected failed after poll error, got %s", job.Status)
	}
}

func TestSupervisor_SubmitRejected(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no good", http.StatusBadRequest)
	})
	sup, db := newTestSupervisor(t, handler)

	_, err := sup.Submit(context.Background(), db, "https://example.com/a", nil)
	if err == nil {
		t.Fatal("Expected Submit to fail when the worker rejects the job")
	}

	// The pending row is flipped to failed rather than left orphaned.
	unfinished, err := db.ListUnfinishedJobs(10)
	if err != nil {
		t.Fatalf("ListUnfinishedJobs failed: %v", err)
	}
	if len(unfinished) != 1 {
		t.Fatalf("Expected 1 job row, got %d", len(unfinished))
	}
	if unfinished[0].Status != domain.JobStatusFailed {
		t.Errorf("Expected rejected job to be failed, got %s", unfinished[0].Status)
	}
	if sup.Running() != 0 {
		t.Errorf("Expected no tracker for rejected job, got %d", sup.Running())
	}
}

func TestSupervisor_IndependentJobs(t *testing.T) {
	// The worker errors exactly one URL; the other two complete.
	var mu sync.Mutex
	failing := map[string]bool{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			w.Write([]byte(`{"status": "pending"}`)) //nolint:errcheck
			return
		}
		jobID := strings.TrimPrefix(r.URL.Path, "/status/")
		mu.Lock()
		fail := failing[jobID]
		mu.Unlock()
		if fail {
			w.Write([]byte(`{"completed": false, "error": true}`)) //nolint:errcheck
			return
		}
		w.Write([]byte(`{"completed": true, "error": false,
			"transcript": [{"speaker": "A", "timestamp": [0, 1], "text": "ok"}]}`)) //nolint:errcheck
	})
	sup, db := newTestSupervisor(t, handler)

	var jobIDs []string
	for i, url := range []string{"https://example.com/1", "https://example.com/2", "https://example.com/3"} {
		id, err := sup.Submit(context.Background(), db, url, nil)
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if i == 1 {
			mu.Lock()
			failing[id] = true
			mu.Unlock()
		}
		jobIDs = append(jobIDs, id)
	}

	seen := map[string]bool{}
	for _, id := range jobIDs {
		if seen[id] {
			t.Errorf("Duplicate job id %s", id)
		}
		seen[id] = true
	}

	first := waitForTerminal(t, db, jobIDs[0])
	second := waitForTerminal(t, db, jobIDs[1])
	third := waitForTerminal(t, db, jobIDs[2])

	if first.Status != domain.JobStatusCompleted {
		t.Errorf("Expected job 1 completed, got %s", first.Status)
	}
	if second.Status != domain.JobStatusFailed {
		t.Errorf("Expected job 2 failed, got %s", second.Status)
	}
	if third.Status != domain.JobStatusCompleted {
		t.Errorf("Expected job 3 completed, got %s", third.Status)
	}
}

func TestSupervisor_ShutdownLeavesPending(t *testing.T) {
	// The worker never finishes; the job stays pending across polls and
	// through shutdown.
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			w.Write([]byte(`{"status": "pending"}`)) //nolint:errcheck
			return
		}
		w.Write([]byte(`{"completed": false, "error": false}`)) //nolint:errcheck
	})
	sup, db := newTestSupervisor(t, handler)

	jobID, err := sup.Submit(context.Background(), db, "https://example.com/a", nil)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	// Let several polls happen.
	time.Sleep(100 * time.Millisecond)
	job, err := db.GetJob(jobID)
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if job.Status != domain.JobStatusPending {
		t.Fatalf("Expected job to stay pending, got %s", job.Status)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := sup.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	// Cancellation is not a terminal transition.
	job, err = db.GetJob(jobID)
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if job.Status != domain.JobStatusPending {
		t.Errorf("Expected job to remain pending after shutdown, got %s", job.Status)
	}
	if sup.Running() != 0 {
		t.Errorf("Expected 0 running trackers after shutdown, got %d", sup.Running())
	}
}
