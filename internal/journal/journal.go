// Package journal keeps the mind's bounded record of spontaneous mental
// activity, ranked by relevance rather than pure chronology.
package journal

import (
	"sort"
	"sync"
	"time"
)

// ThoughtKind classifies a spontaneous thought.
type ThoughtKind string

const (
	SelfReflection       ThoughtKind = "self_reflection"
	GoalReassessment     ThoughtKind = "goal_reassessment"
	MemoryRecall         ThoughtKind = "memory_recall"
	CreativeInsight      ThoughtKind = "creative_insight"
	EmotionalProcessing  ThoughtKind = "emotional_processing"
	CuriosityDriven      ThoughtKind = "curiosity_driven"
	ExistentialWondering ThoughtKind = "existential_wondering"
	ErrorRecovery        ThoughtKind = "error_recovery"
)

const (
	capacity    = 100 // overflow point
	retain      = 50  // entries kept after a relevance cut
	recencySpan = 30 * time.Minute

	followUpIntensity = 0.7
	followUpAge       = 5 * time.Minute
)

// Activity is one recorded mental event.
type Activity struct {
	Kind      ThoughtKind `json:"kind"`
	Text      string      `json:"text"`
	Intensity float64     `json:"intensity"` // 0..1
	Timestamp time.Time   `json:"timestamp"`
	Trigger   string      `json:"trigger,omitempty"`
}

// Relevance scores the activity at the given instant: 60% intensity,
// 40% recency, where recency decays linearly to zero over 30 minutes.
// Computed fresh every call, never cached.
func (a Activity) Relevance(now time.Time) float64 {
	age := now.Sub(a.Timestamp)
	recency := 1 - float64(age)/float64(recencySpan)
	if recency < 0 {
		recency = 0
	}
	return 0.6*a.Intensity + 0.4*recency
}

// NeedsFollowUp reports whether the activity is hot enough and fresh
// enough to deserve a scheduled follow-up.
func NeedsFollowUp(a Activity, now time.Time) bool {
	return a.Intensity >= followUpIntensity && now.Sub(a.Timestamp) <= followUpAge
}

// Journal is the bounded activity record. On overflow the most relevant
// half survives; salience beats chronology. Safe for concurrent use.
type Journal struct {
	mu      sync.Mutex
	entries []Activity
	now     func() time.Time
}

// New returns an empty journal.
func New() *Journal {
	return &Journal{now: time.Now}
}

// Record appends an activity, truncating by relevance on overflow.
func (j *Journal) Record(a Activity) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if a.Timestamp.IsZero() {
		a.Timestamp = j.now()
	}
	j.entries = append(j.entries, a)
	if len(j.entries) <= capacity {
		return
	}

	now := j.now()
	sortByRelevance(j.entries, now)
	j.entries = j.entries[:retain]
}

// Recent returns up to n activities in insertion order, newest last.
func (j *Journal) Recent(n int) []Activity {
	j.mu.Lock()
	defer j.mu.Unlock()

	if n > len(j.entries) {
		n = len(j.entries)
	}
	return append([]Activity(nil), j.entries[len(j.entries)-n:]...)
}

// MostRelevant returns up to n activities ranked by current relevance.
func (j *Journal) MostRelevant(n int) []Activity {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := append([]Activity(nil), j.entries...)
	sortByRelevance(out, j.now())
	if n < len(out) {
		out = out[:n]
	}
	return out
}

// Len returns the number of recorded activities.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}

// sortByRelevance orders activities descending by relevance at now.
// Stable, so equal-relevance entries keep their insertion order.
func sortByRelevance(entries []Activity, now time.Time) {
	sort.SliceStable(entries, func(i, k int) bool {
		return entries[i].Relevance(now) > entries[k].Relevance(now)
	})
}
