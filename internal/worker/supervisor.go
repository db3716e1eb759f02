package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/scribe-audio/scribe/internal/domain"
	"github.com/scribe-audio/scribe/internal/logger"
	"github.com/scribe-audio/scribe/internal/store"
	"github.com/scribe-audio/scribe/internal/transcriber"
)

// Supervisor admits new jobs and owns the set of running trackers for the
// life of the process. Trackers are registered on submit and deregister
// themselves when they terminate.
type Supervisor struct {
	client  *transcriber.Client
	pollMin time.Duration
	pollMax time.Duration
	log     *logger.Logger

	mu       sync.Mutex
	trackers map[string]*Tracker
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewSupervisor(client *transcriber.Client, pollMin, pollMax time.Duration, log *logger.Logger) *Supervisor {
	ctx, cancel := context.WithCancel(context.Background())
	return &Supervisor{
		client:   client,
		pollMin:  pollMin,
		pollMax:  pollMax,
		log:      log.WithComponent("supervisor"),
		trackers: make(map[string]*Tracker),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Submit admits one URL as a new job: it inserts the pending row, hands the
// job to the worker and starts a detached tracker. If the worker refuses
// the submission the job is marked failed immediately and the error is
// returned to the caller; no tracker is started.
func (s *Supervisor) Submit(ctx context.Context, db *store.DB, url string, submitterID *string) (string, error) {
	id := domain.NewID()
	job := &domain.Job{
		ID:          id,
		SubmitterID: submitterID,
		URL:         url,
		Status:      domain.JobStatusPending,
		SubmittedAt: time.Now().UTC(),
	}
	if err := db.InsertPendingJob(job); err != nil {
		return "", fmt.Errorf("failed to insert job: %w", err)
	}

	if err := s.client.Submit(ctx, id, url); err != nil {
		if mErr := db.MarkJobFailed(id); mErr != nil {
			s.log.Error("Failed to mark rejected job failed", "job_id", id, "error", mErr)
		}
		return "", fmt.Errorf("worker rejected job %s: %w", id, err)
	}

	t := &Tracker{
		jobID:   id,
		db:      db,
		client:  s.client,
		pollMin: s.pollMin,
		pollMax: s.pollMax,
		log:     s.log.WithComponent("tracker").WithJob(id),
	}

	s.mu.Lock()
	s.trackers[id] = t
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.remove(id)
		t.Run(s.ctx)
	}()

	s.log.Info("Job submitted", "job_id", id, "url", url)
	return id, nil
}

// Running returns the number of in-flight trackers.
func (s *Supervisor) Running() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.trackers)
}

// Shutdown cancels all trackers and waits for them to stop, bounded by ctx.
// Jobs that were still pending stay pending; an external reconciler may
// resume or fail them.
func (s *Supervisor) Shutdown(ctx context.Context) error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("supervisor shutdown timed out: %w", ctx.Err())
	}
}

func (s *Supervisor) remove(id string) {
	s.mu.Lock()
	delete(s.trackers, id)
	s.mu.Unlock()
}
