// Package tasks implements the priority queue for deferred background
// work: pending sorted by fixed per-kind priority, a bounded running set,
// and a completed ring for diagnostics.
package tasks

import (
	"time"

	"github.com/google/uuid"
)

// Kind is the closed set of background task categories.
type Kind string

const (
	DeepReflection      Kind = "deep_reflection"
	GoalReassessment    Kind = "goal_reassessment"
	EmotionalRegulation Kind = "emotional_regulation"
	AttentionUpdate     Kind = "attention_update"
	SpontaneousThought  Kind = "spontaneous_thought"
	MemoryConsolidation Kind = "memory_consolidation"
	ErrorRecovery       Kind = "error_recovery"
)

// Priority is fixed per kind; it orders the pending queue and nothing
// else. Recovery work preempts contemplation.
func (k Kind) Priority() int {
	switch k {
	case ErrorRecovery:
		return 100
	case EmotionalRegulation:
		return 80
	case GoalReassessment:
		return 60
	case DeepReflection:
		return 50
	case AttentionUpdate:
		return 40
	case MemoryConsolidation:
		return 30
	case SpontaneousThought:
		return 20
	default:
		return 0
	}
}

// EstimatedDuration is a scheduling heuristic only; nothing preempts a
// task that runs longer.
func (k Kind) EstimatedDuration() time.Duration {
	switch k {
	case DeepReflection:
		return 30 * time.Second
	case MemoryConsolidation:
		return 10 * time.Second
	case GoalReassessment:
		return 5 * time.Second
	case ErrorRecovery:
		return 5 * time.Second
	case SpontaneousThought:
		return 2 * time.Second
	case EmotionalRegulation, AttentionUpdate:
		return time.Second
	default:
		return time.Second
	}
}

// Task is one unit of deferred work. Payload carries kind-specific
// context, e.g. the failure summary for ErrorRecovery.
type Task struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	Payload     string    `json:"payload,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

// New creates a task of the given kind.
func New(kind Kind, payload string) Task {
	return Task{
		ID:          uuid.NewString(),
		Kind:        kind,
		Payload:     payload,
		ScheduledAt: time.Now(),
	}
}
