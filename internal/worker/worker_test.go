package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/kalambet/coldreach/internal/profile"
	"github.com/kalambet/coldreach/internal/retrieval"
	"github.com/kalambet/coldreach/internal/storage"
)

type recordingIndexer struct {
	mu      sync.Mutex
	indexed map[string]string
	indexFn func(ctx context.Context, id, summary string) error
}

func (r *recordingIndexer) Index(ctx context.Context, id, summary string) error {
	if r.indexFn != nil {
		if err := r.indexFn(ctx, id, summary); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexed == nil {
		r.indexed = map[string]string{}
	}
	r.indexed[id] = summary
	return nil
}

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	s, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func saveTestProfile(t *testing.T, s *storage.Store) string {
	t.Helper()
	id, err := s.SaveProfile(profile.Profile{
		Name:      "Ana Ruiz",
		Role:      "Engineering Manager",
		Company:   "Acme",
		Industry:  "Technology",
		Seniority: profile.Senior,
		Style:     profile.Mixed,
		Source:    profile.SourceText,
	})
	if err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	return id
}

// resetRunAfter makes a backed-off job claimable again.
func resetRunAfter(t *testing.T, s *storage.Store, jobID string) {
	t.Helper()
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.DB().Exec(`UPDATE jobs SET run_after = ? WHERE id = ?`, now, jobID); err != nil {
		t.Fatalf("resetRunAfter: %v", err)
	}
}

func jobStatus(t *testing.T, s *storage.Store, jobID string) (string, int) {
	t.Helper()
	var status string
	var attempts int
	if err := s.DB().QueryRow(`SELECT status, attempts FROM jobs WHERE id = ?`, jobID).Scan(&status, &attempts); err != nil {
		t.Fatalf("querying job %s: %v", jobID, err)
	}
	return status, attempts
}

func TestWorker_IndexesProfile(t *testing.T) {
	s := openTestStore(t)
	id := saveTestProfile(t, s)
	jobID, err := EnqueueProfileIndex(s, id)
	if err != nil {
		t.Fatalf("EnqueueProfileIndex: %v", err)
	}

	idx := &recordingIndexer{}
	w := New(s, idx, 0)
	did, err := w.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if !did {
		t.Fatal("RunOnce returned false, expected true")
	}

	summary, ok := idx.indexed[id]
	if !ok {
		t.Fatalf("profile %s not indexed", id)
	}
	if summary == "" {
		t.Error("indexed an empty summary")
	}
	if status, _ := jobStatus(t, s, jobID); status != storage.JobCompleted {
		t.Errorf("status = %q, want completed", status)
	}
}

func TestWorker_RecordsInteraction(t *testing.T) {
	s := openTestStore(t)
	if _, err := EnqueueInteraction(s, "ana", "outreach_generated", map[string]any{"channels": []string{"email", "sms"}}); err != nil {
		t.Fatalf("EnqueueInteraction: %v", err)
	}

	w := New(s, nil, 0)
	if _, err := w.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	got, err := s.ListInteractions("ana", 10)
	if err != nil {
		t.Fatalf("ListInteractions: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Kind != "outreach_generated" {
		t.Errorf("Kind = %q", got[0].Kind)
	}
	if got[0].DataJSON != `{"channels":["email","sms"]}` {
		t.Errorf("DataJSON = %s", got[0].DataJSON)
	}
}

func TestWorker_RetryOnFailure(t *testing.T) {
	s := openTestStore(t)
	id := saveTestProfile(t, s)
	jobID, _ := EnqueueProfileIndex(s, id)

	var calls atomic.Int32
	idx := &recordingIndexer{indexFn: func(context.Context, string, string) error {
		if n := calls.Add(1); n <= 2 {
			return fmt.Errorf("transient error %d", n)
		}
		return nil
	}}
	w := New(s, idx, 0)
	ctx := context.Background()

	for attempt := 1; attempt <= 2; attempt++ {
		did, err := w.RunOnce(ctx)
		if err != nil || !did {
			t.Fatalf("RunOnce %d = %v, %v", attempt, did, err)
		}
		status, attempts := jobStatus(t, s, jobID)
		if status != storage.JobPending || attempts != attempt {
			t.Errorf("after failure %d: status=%q attempts=%d", attempt, status, attempts)
		}
		resetRunAfter(t, s, jobID)
	}

	if _, err := w.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce 3: %v", err)
	}
	if status, _ := jobStatus(t, s, jobID); status != storage.JobCompleted {
		t.Errorf("status = %q, want completed", status)
	}
}

func TestWorker_NoEmbedderCompletes(t *testing.T) {
	s := openTestStore(t)
	id := saveTestProfile(t, s)
	jobID, _ := EnqueueProfileIndex(s, id)

	r := retrieval.NewRetriever(nil, retrieval.NewSQLiteStore(s.DB()))
	w := New(s, r, 0)
	if _, err := w.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if status, _ := jobStatus(t, s, jobID); status != storage.JobCompleted {
		t.Errorf("status = %q, want completed", status)
	}
}

func TestWorker_MissingProfileFails(t *testing.T) {
	s := openTestStore(t)
	jobID, _ := EnqueueProfileIndex(s, "nobody")

	w := New(s, &recordingIndexer{}, 0)
	if _, err := w.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	status, attempts := jobStatus(t, s, jobID)
	if status != storage.JobPending || attempts != 1 {
		t.Errorf("status=%q attempts=%d, want pending/1", status, attempts)
	}
}

func TestWorker_RunOnceEmpty(t *testing.T) {
	w := New(openTestStore(t), nil, 0)
	did, err := w.RunOnce(context.Background())
	if err != nil || did {
		t.Errorf("RunOnce on empty queue = %v, %v", did, err)
	}
}

func TestWorker_RunStopsOnCancel(t *testing.T) {
	s := openTestStore(t)
	id := saveTestProfile(t, s)
	EnqueueProfileIndex(s, id)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	idx := &recordingIndexer{}
	w := New(s, idx, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		idx.mu.Lock()
		n := len(idx.indexed)
		idx.mu.Unlock()
		if n == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("job not processed by Run")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

type failingStore struct{ JobStore }

func (failingStore) ClaimNextJob([]string) (*storage.Job, error) {
	return nil, errors.New("database is locked")
}

func TestWorker_ClaimError(t *testing.T) {
	w := New(failingStore{}, nil, 0)
	did, err := w.RunOnce(context.Background())
	if err == nil || did {
		t.Errorf("RunOnce = %v, %v; want claim error", did, err)
	}
}
