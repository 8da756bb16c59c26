// Package health converts sustained collaborator failure into internal
// corrective behavior. The tracker counts failures; the health loop turns
// an over-threshold count into exactly one recovery escalation.
package health

import (
	"fmt"
	"sync"
	"time"
)

// Category classifies a collaborator failure.
type Category string

const (
	CategoryNetwork   Category = "network"
	CategoryTimeout   Category = "timeout"
	CategoryRateLimit Category = "rate_limit"
	CategoryMalformed Category = "malformed_response"
	CategoryAPI       Category = "api"
)

// DefaultThreshold is the failure count at which CheckHealth escalates.
const DefaultThreshold = 10

const maxRecentCategories = 20

// Tracker accumulates failures across loops. The counter only returns to
// zero through CheckHealth; recording never resets it. Safe for
// concurrent use.
type Tracker struct {
	mu sync.Mutex

	count       int
	last        Category
	recent      []Category
	lastFailure time.Time
	now         func() time.Time
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{now: time.Now}
}

// RecordFailure notes one collaborator failure.
func (t *Tracker) RecordFailure(c Category) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.count++
	t.last = c
	t.lastFailure = t.now()
	t.recent = append(t.recent, c)
	if len(t.recent) > maxRecentCategories {
		t.recent = t.recent[len(t.recent)-maxRecentCategories:]
	}
}

// CheckHealth compares the counter against the threshold. At or above it,
// the counter resets to zero and a human-readable summary is returned
// with true; the reset makes each escalation fire exactly once until new
// failures accumulate. Below the threshold it reports false.
func (t *Tracker) CheckHealth(threshold int) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.count < threshold {
		return "", false
	}
	summary := fmt.Sprintf("%d failures accumulated (most recent: %s); slowing down and simplifying",
		t.count, t.last)
	t.count = 0
	return summary, true
}

// Count returns the current failure count.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

// LastFailure returns the most recent failure's category and time; ok is
// false when nothing has failed yet.
func (t *Tracker) LastFailure() (Category, time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lastFailure.IsZero() {
		return "", time.Time{}, false
	}
	return t.last, t.lastFailure, true
}

// RecentCategories returns a copy of the bounded category history,
// oldest first.
func (t *Tracker) RecentCategories() []Category {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Category(nil), t.recent...)
}
