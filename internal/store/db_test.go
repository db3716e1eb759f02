package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/scribe-audio/scribe/internal/domain"
)

func testTime() time.Time {
	return time.Now().UTC()
}

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() {
		if cErr := db.Close(); cErr != nil {
			t.Logf("db.Close error: %v", cErr)
		}
	})
	return db
}

// mustCompleteJob inserts a pending job and commits a completed transcript
// for it, returning the transcript id.
func mustCompleteJob(t *testing.T, db *DB, jobID, url string, segments []domain.Segment) string {
	t.Helper()
	job := &domain.Job{
		ID:          jobID,
		URL:         url,
		Status:      domain.JobStatusPending,
		SubmittedAt: testTime(),
	}
	if err := db.InsertPendingJob(job); err != nil {
		t.Fatalf("InsertPendingJob failed: %v", err)
	}
	transcriptID := "tr_" + jobID
	if err := db.CompleteJob(jobID, transcriptID, &domain.TranscriptResult{Segments: segments}); err != nil {
		t.Fatalf("CompleteJob failed: %v", err)
	}
	return transcriptID
}
