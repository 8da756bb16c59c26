package metacog

import (
	"strings"
	"testing"
	"time"
)

func TestProcess_LoadImpact(t *testing.T) {
	tests := []struct {
		name string
		p    Process
		want float64
	}{
		{"value conflict is heaviest", ValueConflict("honesty vs kindness", "honesty"), 0.3},
		{"error recovery", ErrorRecovery("timeout", "retry"), 0.2},
		{"memory retrieval is cheapest", MemoryRetrieval("last conversation", true), 0.02},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.LoadImpact(); got != tt.want {
				t.Errorf("LoadImpact() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProcess_TriggersReflection(t *testing.T) {
	tests := []struct {
		name string
		p    Process
		want bool
	}{
		{"value conflict always reflects", ValueConflict("a", "b"), true},
		{"error recovery always reflects", ErrorRecovery("api", "backoff"), true},
		{"confident self-reflection reflects", SelfReflection("i notice a habit", 0.9), true},
		{"tentative self-reflection does not", SelfReflection("maybe", 0.4), false},
		{"original creative thought reflects", CreativeThinking("new metaphor", 0.8), true},
		{"mundane retrieval does not", MemoryRetrieval("q", true), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.TriggersReflection(); got != tt.want {
				t.Errorf("TriggersReflection() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMonitor_Record_StateStaysClamped(t *testing.T) {
	m := NewMonitor()
	for i := 0; i < 100; i++ {
		m.Record(ValueConflict("c", "r"))
	}
	s := m.Snapshot()
	if s.CognitiveLoad > 1 || s.CognitiveLoad < 0 {
		t.Errorf("cognitive load out of range: %v", s.CognitiveLoad)
	}
	if s.ReasoningConfidence < 0 {
		t.Errorf("confidence out of range: %v", s.ReasoningConfidence)
	}
}

func TestMonitor_HistoryBounded(t *testing.T) {
	m := NewMonitor()
	for i := 0; i < maxHistory*2; i++ {
		m.Record(MemoryRetrieval("q", true))
	}
	m.mu.Lock()
	n := len(m.history)
	m.mu.Unlock()
	if n != maxHistory {
		t.Errorf("history = %d entries, want %d", n, maxHistory)
	}
}

func TestMonitor_ReflectionQueueBoundedAndDrains(t *testing.T) {
	m := NewMonitor()
	for i := 0; i < 40; i++ {
		m.Record(ValueConflict("conflict", "resolution"))
	}
	reqs := m.DrainReflectionQueue()
	if len(reqs) > maxReflectionQ {
		t.Errorf("drained %d requests, queue cap is %d", len(reqs), maxReflectionQ)
	}
	if len(reqs) == 0 {
		t.Fatal("value conflicts queued no reflection requests")
	}
	if m.ShouldDeepReflect() {
		t.Error("queue should be empty after drain")
	}
	if rest := m.DrainReflectionQueue(); len(rest) != 0 {
		t.Errorf("second drain returned %d requests, want 0", len(rest))
	}
}

func TestMonitor_TriggerRespectsCooldown(t *testing.T) {
	m := NewMonitor()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	// Drive load past the high-load threshold; the trigger may fire once.
	for i := 0; i < 10; i++ {
		m.Record(ValueConflict("c", "r"))
	}
	first := countReason(m.DrainReflectionQueue(), "trigger: high cognitive load")
	if first != 1 {
		t.Fatalf("high-load trigger fired %d times inside one cooldown, want 1", first)
	}

	// Still inside the cooldown: no refire.
	m.Record(ValueConflict("c", "r"))
	if n := countReason(m.DrainReflectionQueue(), "trigger: high cognitive load"); n != 0 {
		t.Errorf("trigger refired %d times inside cooldown", n)
	}

	// Past the cooldown it may fire again.
	now = now.Add(3 * time.Minute)
	m.Record(ValueConflict("c", "r"))
	if n := countReason(m.DrainReflectionQueue(), "trigger: high cognitive load"); n != 1 {
		t.Errorf("trigger fired %d times after cooldown elapsed, want 1", n)
	}
}

func countReason(reqs []ReflectionRequest, reason string) int {
	n := 0
	for _, r := range reqs {
		if strings.HasPrefix(r.Reason, reason) {
			n++
		}
	}
	return n
}

func TestMonitor_DecayRelaxesState(t *testing.T) {
	m := NewMonitor()
	for i := 0; i < 5; i++ {
		m.Record(ValueConflict("c", "r"))
	}
	before := m.Snapshot()
	m.Decay()
	after := m.Snapshot()
	if after.CognitiveLoad >= before.CognitiveLoad {
		t.Errorf("load did not decay: %v -> %v", before.CognitiveLoad, after.CognitiveLoad)
	}
	if after.MetaReasoningStrength > before.MetaReasoningStrength {
		t.Errorf("meta-reasoning grew under decay: %v -> %v",
			before.MetaReasoningStrength, after.MetaReasoningStrength)
	}
}

func TestMonitor_TryDecay(t *testing.T) {
	m := NewMonitor()
	if !m.TryDecay() {
		t.Error("TryDecay on an uncontended monitor should succeed")
	}
}

func TestMonitor_InsightsBounded(t *testing.T) {
	m := NewMonitor()
	for i := 0; i < maxInsights*3; i++ {
		m.Record(SelfReflection("a recurring observation", 0.5))
	}
	if n := len(m.Insights()); n > maxInsights {
		t.Errorf("insights = %d, cap is %d", n, maxInsights)
	}
}

func TestMonitor_PatternFrequencyWindow(t *testing.T) {
	m := NewMonitor()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		m.Record(MemoryRetrieval("q", true))
	}
	if count, _ := m.PatternFrequency(KindMemoryRetrieval); count != 5 {
		t.Errorf("count = %d, want 5", count)
	}

	// A day later the old occurrences age out of the window.
	now = now.Add(25 * time.Hour)
	m.Record(MemoryRetrieval("q", true))
	count, sig := m.PatternFrequency(KindMemoryRetrieval)
	if count != 1 {
		t.Errorf("count after window = %d, want 1", count)
	}
	if sig <= 0 || sig > 1 {
		t.Errorf("significance out of range: %v", sig)
	}
}

func TestMonitor_Narrative(t *testing.T) {
	m := NewMonitor()
	m.Record(SelfReflection("i am verbose", 0.6))
	got := m.Narrative()
	if !strings.Contains(got, "cognitive load") {
		t.Errorf("narrative missing load description: %q", got)
	}
	if !strings.Contains(got, "processes observed") {
		t.Errorf("narrative missing history count: %q", got)
	}
}
