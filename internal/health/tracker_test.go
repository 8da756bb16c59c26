package health

import (
	"strings"
	"testing"
)

func TestTracker_CheckHealth_BelowThreshold(t *testing.T) {
	tr := NewTracker()
	for i := 0; i < 4; i++ {
		tr.RecordFailure(CategoryNetwork)
	}
	if _, escalated := tr.CheckHealth(5); escalated {
		t.Error("escalated below the threshold")
	}
	if got := tr.Count(); got != 4 {
		t.Errorf("count = %d, want 4 (failed checks must not reset)", got)
	}
}

func TestTracker_CheckHealth_EscalatesOnceAndResets(t *testing.T) {
	tr := NewTracker()
	for i := 0; i < 12; i++ {
		tr.RecordFailure(CategoryTimeout)
	}

	summary, escalated := tr.CheckHealth(DefaultThreshold)
	if !escalated {
		t.Fatal("count past threshold should escalate")
	}
	if !strings.Contains(summary, "timeout") {
		t.Errorf("summary should name the recent category: %q", summary)
	}
	if got := tr.Count(); got != 0 {
		t.Errorf("count = %d after escalation, want 0", got)
	}

	// Idempotent per escalation: nothing re-fires until new failures land.
	if _, again := tr.CheckHealth(DefaultThreshold); again {
		t.Error("second check with a zero counter escalated again")
	}
}

func TestTracker_CountGrowsAcrossCategories(t *testing.T) {
	tr := NewTracker()
	tr.RecordFailure(CategoryNetwork)
	tr.RecordFailure(CategoryRateLimit)
	tr.RecordFailure(CategoryMalformed)
	if got := tr.Count(); got != 3 {
		t.Errorf("count = %d, want 3", got)
	}
	cat, at, ok := tr.LastFailure()
	if !ok || cat != CategoryMalformed || at.IsZero() {
		t.Errorf("LastFailure() = %v, %v, %v", cat, at, ok)
	}
}

func TestTracker_RecentCategoriesBounded(t *testing.T) {
	tr := NewTracker()
	for i := 0; i < maxRecentCategories; i++ {
		tr.RecordFailure(CategoryAPI)
	}
	tr.RecordFailure(CategoryNetwork)

	recent := tr.RecentCategories()
	if len(recent) != maxRecentCategories {
		t.Fatalf("recent = %d entries, want cap %d", len(recent), maxRecentCategories)
	}
	if recent[len(recent)-1] != CategoryNetwork {
		t.Error("newest category missing from the bounded list")
	}
}

func TestTracker_LastFailure_EmptyTracker(t *testing.T) {
	tr := NewTracker()
	if _, _, ok := tr.LastFailure(); ok {
		t.Error("empty tracker should report no last failure")
	}
}
