package tasks

import (
	"sort"
	"sync"

	"github.com/quantumlife/cogmind/internal/logging"
)

const (
	// DefaultMaxConcurrent bounds the running set.
	DefaultMaxConcurrent = 3

	maxCompleted = 20
)

// Scheduler owns the three task sequences. A task only moves
// pending -> running -> completed; running never exceeds the concurrency
// cap. Safe for concurrent use.
type Scheduler struct {
	mu sync.Mutex

	pending       []Task // sorted desc by priority, FIFO within a priority
	running       []Task
	completed     []Task // ring, oldest evicted
	maxConcurrent int
	log           *logging.Logger
}

// NewScheduler returns an empty scheduler with the default concurrency cap.
func NewScheduler() *Scheduler {
	return NewSchedulerWithCap(DefaultMaxConcurrent)
}

// NewSchedulerWithCap returns an empty scheduler bounded to cap running
// tasks.
func NewSchedulerWithCap(maxConcurrent int) *Scheduler {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Scheduler{
		maxConcurrent: maxConcurrent,
		log:           logging.WithField("component", "tasks"),
	}
}

// Schedule inserts a task into pending, keeping the queue sorted by
// descending priority. The sort is stable, so equal priorities dispatch
// in insertion order.
func (s *Scheduler) Schedule(t Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = append(s.pending, t)
	sort.SliceStable(s.pending, func(i, j int) bool {
		return s.pending[i].Kind.Priority() > s.pending[j].Kind.Priority()
	})
	s.log.Debug("scheduled %s (pending %d)", t.Kind, len(s.pending))
}

// Next pops the highest-priority pending task into running. Returns nil
// when pending is empty or the running set is full; the caller retries
// on a later tick, nothing blocks.
func (s *Scheduler) Next() *Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) == 0 || len(s.running) >= s.maxConcurrent {
		return nil
	}
	t := s.pending[0]
	s.pending = s.pending[1:]
	s.running = append(s.running, t)
	return &t
}

// Complete moves the first running task of the given kind into the
// completed ring. Unknown kinds are a no-op: completion bookkeeping may
// race with a second scheduling of the same kind.
func (s *Scheduler) Complete(kind Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.running {
		if t.Kind != kind {
			continue
		}
		s.running = append(s.running[:i], s.running[i+1:]...)
		s.completed = append(s.completed, t)
		if len(s.completed) > maxCompleted {
			s.completed = s.completed[len(s.completed)-maxCompleted:]
		}
		return
	}
}

// PendingLen returns the pending queue depth.
func (s *Scheduler) PendingLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// RunningLen returns the number of in-flight tasks.
func (s *Scheduler) RunningLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.running)
}

// CompletedSnapshot returns a copy of the completed ring, oldest first.
func (s *Scheduler) CompletedSnapshot() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Task(nil), s.completed...)
}

// PendingSnapshot returns a copy of the pending queue in dispatch order.
func (s *Scheduler) PendingSnapshot() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Task(nil), s.pending...)
}
