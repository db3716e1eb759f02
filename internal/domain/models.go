package domain

import "time"

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Terminal reports whether no further status transition is allowed.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Job represents one submitted transcription request and its lifecycle state.
// A job only ever moves pending -> completed or pending -> failed;
// CompletedAt is set exactly when the job reaches a terminal status.
type Job struct {
	ID          string     `json:"id" db:"id"`
	SubmitterID *string    `json:"submitter_id,omitempty" db:"submitter_id"`
	URL         string     `json:"url" db:"url"`
	Status      JobStatus  `json:"status" db:"status"`
	SubmittedAt time.Time  `json:"submitted_at" db:"submitted_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// Transcript is the durable result of a completed job, one per job.
type Transcript struct {
	ID       string   `json:"id" db:"id"`
	JobID    string   `json:"job_id" db:"job_id"`
	URL      string   `json:"url" db:"url"`
	Title    *string  `json:"title" db:"title"`
	Duration *float64 `json:"duration" db:"duration"` // seconds
	Meta     *string  `json:"meta,omitempty" db:"meta"`
}

// Entry is one timed speaker segment within a transcript.
type Entry struct {
	TranscriptID string  `json:"transcript_id" db:"transcript_id"`
	Speaker      string  `json:"speaker" db:"speaker"`
	StartedAt    float64 `json:"started_at" db:"started_at"`
	EndedAt      float64 `json:"ended_at" db:"ended_at"`
	Contents     string  `json:"contents" db:"contents"`
}

// Collection is a named grouping of transcripts.
type Collection struct {
	Key         string  `json:"key" db:"key"`
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description,omitempty" db:"description"`
}

// CollectionTag is the compact collection reference attached to
// transcripts and job listings.
type CollectionTag struct {
	CollectionID string `json:"collection_id" db:"collection_id"`
	Name         string `json:"name" db:"name"`
}

// Segment is one utterance as reported by the transcription worker.
type Segment struct {
	Speaker   string
	StartedAt float64
	EndedAt   float64
	Text      string
}

// TranscriptResult is the worker's terminal payload for a completed job.
type TranscriptResult struct {
	Segments []Segment
	Title    *string
	Duration *float64
}

// SearchResult is one ranked full-text match inside a collection.
type SearchResult struct {
	TranscriptID string  `json:"transcript_id" db:"transcript_id"`
	VideoTitle   *string `json:"video_title" db:"video_title"`
	VideoURL     string  `json:"video_url" db:"video_url"`
	Speaker      string  `json:"speaker" db:"speaker"`
	StartedAt    float64 `json:"started_at" db:"started_at"`
	Contents     string  `json:"contents" db:"contents"`
	Highlighted  string  `json:"highlighted_contents" db:"highlighted_contents"`
}
