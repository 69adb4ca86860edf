// Package worker runs the background jobs queued in SQLite: indexing
// profile summaries for semantic search and recording interactions.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kalambet/coldreach/internal/profile"
	"github.com/kalambet/coldreach/internal/retrieval"
	"github.com/kalambet/coldreach/internal/storage"
)

const defaultPoll = 500 * time.Millisecond

// JobStore is the storage the worker reads jobs and profiles from.
type JobStore interface {
	ClaimNextJob(types []string) (*storage.Job, error)
	CompleteJob(id string) error
	FailJob(id string, errMsg string) error
	GetProfile(id string) (profile.Profile, error)
	SaveInteraction(i storage.Interaction) error
}

// Indexer stores the embedding of a profile summary.
type Indexer interface {
	Index(ctx context.Context, profileID, summary string) error
}

// Worker processes profile_index and interaction jobs.
type Worker struct {
	store   JobStore
	indexer Indexer
	poll    time.Duration
	logger  *slog.Logger
}

// New creates a Worker. indexer may be nil, in which case profile_index
// jobs complete without doing anything. pollInterval <= 0 means 500ms.
func New(store JobStore, indexer Indexer, pollInterval time.Duration) *Worker {
	if pollInterval <= 0 {
		pollInterval = defaultPoll
	}
	return &Worker{
		store:   store,
		indexer: indexer,
		poll:    pollInterval,
		logger:  slog.Default().With("component", "worker"),
	}
}

// Run polls for jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("worker started", "poll", w.poll)
	defer w.logger.Info("worker stopped")
	for {
		if ctx.Err() != nil {
			return
		}
		did, err := w.RunOnce(ctx)
		if err != nil {
			w.logger.Error("worker iteration failed", "error", err)
		}
		if did {
			continue
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(w.poll):
		}
	}
}

// RunOnce claims and processes at most one job. It reports whether a job
// was processed, whatever its outcome.
func (w *Worker) RunOnce(ctx context.Context) (bool, error) {
	job, err := w.store.ClaimNextJob([]string{JobProfileIndex, JobInteraction})
	if err != nil {
		return false, fmt.Errorf("claiming job: %w", err)
	}
	if job == nil {
		return false, nil
	}

	if err := w.process(ctx, job); err != nil {
		w.logger.Warn("job failed", "job_id", job.ID, "type", job.Type, "attempt", job.Attempts+1, "error", err)
		if failErr := w.store.FailJob(job.ID, err.Error()); failErr != nil {
			w.logger.Error("marking job failed", "job_id", job.ID, "error", failErr)
		}
		return true, nil
	}
	if err := w.store.CompleteJob(job.ID); err != nil {
		return true, fmt.Errorf("completing job %s: %w", job.ID, err)
	}
	w.logger.Debug("job completed", "job_id", job.ID, "type", job.Type)
	return true, nil
}

func (w *Worker) process(ctx context.Context, job *storage.Job) error {
	switch job.Type {
	case JobProfileIndex:
		return w.indexProfile(ctx, job)
	case JobInteraction:
		return w.recordInteraction(job)
	default:
		return fmt.Errorf("unknown job type %q", job.Type)
	}
}

func (w *Worker) indexProfile(ctx context.Context, job *storage.Job) error {
	var p profileIndexPayload
	if err := json.Unmarshal([]byte(job.PayloadJSON), &p); err != nil {
		return fmt.Errorf("parsing payload: %w", err)
	}
	if w.indexer == nil {
		return nil
	}
	prof, err := w.store.GetProfile(p.ProfileID)
	if err != nil {
		return fmt.Errorf("loading profile %s: %w", p.ProfileID, err)
	}
	err = w.indexer.Index(ctx, prof.ID, profile.Summary(prof))
	if errors.Is(err, retrieval.ErrNoEmbedder) {
		return nil
	}
	return err
}

func (w *Worker) recordInteraction(job *storage.Job) error {
	var p interactionPayload
	if err := json.Unmarshal([]byte(job.PayloadJSON), &p); err != nil {
		return fmt.Errorf("parsing payload: %w", err)
	}
	if p.ProfileID == "" || p.Kind == "" {
		return fmt.Errorf("interaction payload missing profile_id or kind")
	}
	return w.store.SaveInteraction(storage.Interaction{
		ProfileID: p.ProfileID,
		Kind:      p.Kind,
		DataJSON:  string(p.Data),
	})
}
