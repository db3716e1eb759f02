package app

import (
	"context"
	"errors"
	"strings"

	"github.com/scribe-audio/scribe/internal/constants"
	"github.com/scribe-audio/scribe/internal/domain"
	"github.com/scribe-audio/scribe/internal/logger"
	"github.com/scribe-audio/scribe/internal/store"
	"github.com/scribe-audio/scribe/internal/worker"
)

type JobService struct {
	Registry   *store.Registry
	Supervisor *worker.Supervisor
	Logger     *logger.Logger
}

func NewJobService(registry *store.Registry, supervisor *worker.Supervisor, log *logger.Logger) *JobService {
	return &JobService{Registry: registry, Supervisor: supervisor, Logger: log}
}

// SubmitJobs admits each URL as an independent job. URLs are processed in
// order; a failing URL does not abort the rest. The returned slice holds
// the ids of every job that was accepted, alongside any per-URL errors.
func (s *JobService) SubmitJobs(ctx context.Context, dbName string, urls []string, submitterID *string) ([]string, error) {
	db, err := s.Registry.Get(dbName)
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		return nil, &domain.ValidationError{Field: "urls", Message: "must not be empty"}
	}
	for _, url := range urls {
		if strings.TrimSpace(url) == "" {
			return nil, &domain.ValidationError{Field: "urls", Message: "must not contain blank entries"}
		}
	}

	var jobIDs []string
	var errs []error
	for _, url := range urls {
		id, err := s.Supervisor.Submit(ctx, db, url, submitterID)
		if err != nil {
			s.Logger.WithDatabase(dbName).Warn("Job submission failed", "url", url, "error", err)
			errs = append(errs, err)
			continue
		}
		jobIDs = append(jobIDs, id)
	}
	return jobIDs, errors.Join(errs...)
}

// JobList splits jobs into finished work (joined with transcript info) and
// everything still pending or failed.
type JobList struct {
	Completed  []*store.CompletedJob `json:"completed_jobs"`
	InProgress []*domain.Job         `json:"inprogress_jobs"`
}

func (s *JobService) ListJobs(dbName string) (*JobList, error) {
	db, err := s.Registry.Get(dbName)
	if err != nil {
		return nil, err
	}

	completed, err := db.ListCompletedJobs(constants.MaxListedJobs)
	if err != nil {
		return nil, err
	}
	inProgress, err := db.ListUnfinishedJobs(constants.MaxListedJobs)
	if err != nil {
		return nil, err
	}
	return &JobList{Completed: completed, InProgress: inProgress}, nil
}

// TranscriptDetail is a transcript with its ordered entries and the
// collections it belongs to.
type TranscriptDetail struct {
	Transcript  *domain.Transcript     `json:"transcript"`
	Entries     []domain.Entry         `json:"entries"`
	Collections []domain.CollectionTag `json:"collections"`
}

func (s *JobService) GetTranscript(dbName, transcriptID string) (*TranscriptDetail, error) {
	db, err := s.Registry.Get(dbName)
	if err != nil {
		return nil, err
	}

	transcript, err := db.GetTranscript(transcriptID)
	if err != nil {
		return nil, err
	}
	entries, err := db.ListEntries(transcriptID)
	if err != nil {
		return nil, err
	}
	collections, err := db.TranscriptCollections(transcriptID)
	if err != nil {
		return nil, err
	}
	return &TranscriptDetail{Transcript: transcript, Entries: entries, Collections: collections}, nil
}
