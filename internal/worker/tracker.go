// Package worker supervises the background trackers that drive submitted
// jobs to a terminal state.
package worker

import (
	"context"
	"math/rand"
	"time"

	"github.com/scribe-audio/scribe/internal/domain"
	"github.com/scribe-audio/scribe/internal/logger"
	"github.com/scribe-audio/scribe/internal/store"
	"github.com/scribe-audio/scribe/internal/transcriber"
)

// Tracker owns the remaining lifecycle of exactly one pending job. It polls
// the worker on a jittered interval and commits the single terminal
// transition; no other component writes the job's status.
type Tracker struct {
	jobID   string
	db      *store.DB
	client  *transcriber.Client
	pollMin time.Duration
	pollMax time.Duration
	log     *logger.Logger
}

// Run polls until the job reaches a terminal state. A transport error or a
// worker-reported error marks the job failed; a completed report commits
// the transcript and entries atomically with the status flip. Cancelling
// ctx stops the loop without a terminal write, leaving the job pending.
func (t *Tracker) Run(ctx context.Context) {
	for {
		timer := time.NewTimer(t.jitter())
		select {
		case <-ctx.Done():
			timer.Stop()
			t.log.Info("Tracker stopped before terminal state")
			return
		case <-timer.C:
		}

		status, err := t.client.GetStatus(ctx, t.jobID)
		if err != nil {
			if ctx.Err() != nil {
				t.log.Info("Tracker stopped before terminal state")
				return
			}
			t.log.Warn("Worker poll failed, marking job failed", "error", err)
			t.fail()
			return
		}

		switch {
		case status.Completed:
			transcriptID := domain.NewID()
			if err := t.db.CompleteJob(t.jobID, transcriptID, status.Result()); err != nil {
				t.log.Error("Failed to commit completed job", "error", err)
				return
			}
			t.log.Info("Job completed", "transcript_id", transcriptID, "entries", len(status.Transcript))
			return
		case status.Error:
			t.log.Info("Worker reported failure", "message", status.Message)
			t.fail()
			return
		default:
			t.log.Debug("Job still in progress", "stage", status.Stage)
		}
	}
}

func (t *Tracker) fail() {
	if err := t.db.MarkJobFailed(t.jobID); err != nil {
		t.log.Error("Failed to mark job failed", "error", err)
	}
}

// jitter picks a random wait inside [pollMin, pollMax] so that batches of
// jobs submitted together do not poll the worker in lockstep.
func (t *Tracker) jitter() time.Duration {
	if t.pollMax <= t.pollMin {
		return t.pollMin
	}
	return t.pollMin + time.Duration(rand.Int63n(int64(t.pollMax-t.pollMin)))
}
