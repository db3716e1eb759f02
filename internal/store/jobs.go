package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/scribe-audio/scribe/internal/domain"
)

func (db *DB) InsertPendingJob(job *domain.Job) error {
	query := `INSERT INTO jobs (id, submitter_id, url, status, submitted_at)
		VALUES (:id, :submitter_id, :url, :status, :submitted_at)`

	_, err := db.NamedExec(query, job)
	return err
}

func (db *DB) GetJob(id string) (*domain.Job, error) {
	query := `SELECT id, submitter_id, url, status, submitted_at, completed_at FROM jobs WHERE id = ?`

	job := &domain.Job{}
	err := db.Get(job, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return job, nil
}

// MarkJobFailed flips a pending job to failed. Terminal jobs are left
// untouched; the status guard in the WHERE clause makes the transition
// one-way.
func (db *DB) MarkJobFailed(id string) error {
	query := `UPDATE jobs SET status = ?, completed_at = ? WHERE id = ? AND status = ?`
	_, err := db.Exec(query, domain.JobStatusFailed, time.Now().UTC(), id, domain.JobStatusPending)
	return err
}

// CompleteJob commits a job's terminal result in one transaction: the
// status flip, the transcript row and all entries become visible together
// or not at all.
func (db *DB) CompleteJob(jobID, transcriptID string, result *domain.TranscriptResult) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.Exec(`UPDATE jobs SET status = ?, completed_at = ? WHERE id = ? AND status = ?`,
		domain.JobStatusCompleted, time.Now().UTC(), jobID, domain.JobStatusPending)
	if err != nil {
		return fmt.Errorf("failed to complete job %s: %w", jobID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("job %s is not pending", jobID)
	}

	var url string
	if err := tx.Get(&url, `SELECT url FROM jobs WHERE id = ?`, jobID); err != nil {
		return fmt.Errorf("failed to read job %s: %w", jobID, err)
	}

	_, err = tx.Exec(`INSERT INTO transcripts (id, job_id, url, title, duration, meta) VALUES (?, ?, ?, ?, ?, NULL)`,
		transcriptID, jobID, url, result.Title, result.Duration)
	if err != nil {
		return fmt.Errorf("failed to insert transcript for job %s: %w", jobID, err)
	}

	if len(result.Segments) > 0 {
		entries := make([]domain.Entry, 0, len(result.Segments))
		for _, seg := range result.Segments {
			entries = append(entries, domain.Entry{
				TranscriptID: transcriptID,
				Speaker:      seg.Speaker,
				StartedAt:    seg.StartedAt,
				EndedAt:      seg.EndedAt,
				Contents:     seg.Text,
			})
		}
		_, err = tx.NamedExec(`INSERT INTO transcription_entries (transcript_id, speaker, started_at, ended_at, contents)
			VALUES (:transcript_id, :speaker, :started_at, :ended_at, :contents)`, entries)
		if err != nil {
			return fmt.Errorf("failed to insert entries for job %s: %w", jobID, err)
		}
	}

	return tx.Commit()
}

// CompletedJob is the read model for the finished-jobs listing.
type CompletedJob struct {
	ID           string                 `json:"id" db:"id"`
	TranscriptID string                 `json:"transcript_id" db:"transcript_id"`
	URL          string                 `json:"url" db:"url"`
	SubmittedAt  time.Time              `json:"submitted_at" db:"submitted_at"`
	CompletedAt  time.Time              `json:"completed_at" db:"completed_at"`
	Title        *string                `json:"title" db:"title"`
	Duration     *float64               `json:"duration" db:"duration"`
	EntryCount   int                    `json:"entry_count" db:"entry_count"`
	Collections  []domain.CollectionTag `json:"collections" db:"-"`
}

func (db *DB) ListCompletedJobs(limit int) ([]*CompletedJob, error) {
	query := `SELECT
			jobs.id,
			transcripts.id AS transcript_id,
			jobs.url,
			jobs.submitted_at,
			jobs.completed_at,
			transcripts.title,
			transcripts.duration,
			(SELECT COUNT(*) FROM transcription_entries WHERE transcript_id = transcripts.id) AS entry_count
		FROM jobs
		JOIN transcripts ON transcripts.job_id = jobs.id
		WHERE jobs.status = ?
		ORDER BY jobs.submitted_at DESC
		LIMIT ?`

	var jobs []*CompletedJob
	if err := db.Select(&jobs, query, domain.JobStatusCompleted, limit); err != nil {
		return nil, err
	}
	for _, job := range jobs {
		tags, err := db.TranscriptCollections(job.TranscriptID)
		if err != nil {
			return nil, err
		}
		job.Collections = tags
	}
	return jobs, nil
}

func (db *DB) ListUnfinishedJobs(limit int) ([]*domain.Job, error) {
	query := `SELECT id, submitter_id, url, status, submitted_at, completed_at
		FROM jobs
		WHERE status != ?
		ORDER BY submitted_at DESC
		LIMIT ?`

	var jobs []*domain.Job
	err := db.Select(&jobs, query, domain.JobStatusCompleted, limit)
	return jobs, err
}
