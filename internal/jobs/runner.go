// Package jobs runs profile extractions as asynchronous units of work.
// Callers submit a (user, URL) pair and poll the job status by id; the
// extraction core itself stays stateless between invocations.
package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"linkedin-importer/internal/models"
)

// State is the lifecycle stage of a submitted job.
type State string

const (
	StatePending   State = "pending"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Status is the pollable record of one job.
type Status struct {
	ID        string
	UserID    int64
	State     State
	Progress  int // 0-100
	Message   string
	Outcome   *models.ScrapeOutcome
	UpdatedAt time.Time
}

// StatusStore holds job status records. Implementations must be safe
// for concurrent use.
type StatusStore interface {
	Put(status Status)
	Get(id string) (Status, bool)
}

// MemoryStore is the default in-process StatusStore.
type MemoryStore struct {
	mutex    sync.RWMutex
	statuses map[string]Status
}

// NewMemoryStore creates an empty in-memory status store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{statuses: make(map[string]Status)}
}

func (ms *MemoryStore) Put(status Status) {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()
	ms.statuses[status.ID] = status
}

func (ms *MemoryStore) Get(id string) (Status, bool) {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()
	status, ok := ms.statuses[id]
	return status, ok
}

// Extractor is the operation a job executes.
type Extractor interface {
	ExtractAndStore(ctx context.Context, userID int64, rawURL string) models.ScrapeOutcome
}

// Runner schedules extraction jobs. Concurrency across jobs is bounded
// by a weighted semaphore; within a job everything runs sequentially.
type Runner struct {
	extractor Extractor
	statuses  StatusStore
	sem       *semaphore.Weighted
	log       *logrus.Logger
	wg        sync.WaitGroup
}

// NewRunner creates a runner executing at most maxJobs jobs at a time.
func NewRunner(extractor Extractor, statuses StatusStore, maxJobs int64, log *logrus.Logger) *Runner {
	if maxJobs < 1 {
		maxJobs = 1
	}
	if statuses == nil {
		statuses = NewMemoryStore()
	}
	if log == nil {
		log = logrus.New()
	}
	return &Runner{
		extractor: extractor,
		statuses:  statuses,
		sem:       semaphore.NewWeighted(maxJobs),
		log:       log,
	}
}

// Submit schedules one extraction and returns its job id immediately.
func (r *Runner) Submit(ctx context.Context, userID int64, rawURL string) string {
	id := uuid.New().String()
	r.update(Status{ID: id, UserID: userID, State: StatePending, Message: "Queued"})

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		if err := r.sem.Acquire(ctx, 1); err != nil {
			r.update(Status{
				ID: id, UserID: userID, State: StateFailed,
				Message: "Job canceled before it started",
			})
			return
		}
		defer r.sem.Release(1)

		r.update(Status{
			ID: id, UserID: userID, State: StateRunning,
			Progress: 20, Message: "Extracting profile data...",
		})

		outcome := r.extractor.ExtractAndStore(ctx, userID, rawURL)

		status := Status{ID: id, UserID: userID, Outcome: &outcome, Progress: 100}
		if outcome.Success {
			status.State = StateCompleted
			status.Message = "Profile imported"
		} else {
			status.State = StateFailed
			status.Message = outcome.Error
		}
		r.update(status)

		r.log.WithFields(logrus.Fields{
			"job_id":  id,
			"user_id": userID,
			"success": outcome.Success,
		}).Info("scrape job finished")
	}()

	return id
}

// Status returns the current record of a job.
func (r *Runner) Status(id string) (Status, bool) {
	return r.statuses.Get(id)
}

// Wait blocks until all submitted jobs have finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) update(status Status) {
	status.UpdatedAt = time.Now()
	r.statuses.Put(status)
}
