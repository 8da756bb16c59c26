package tasks

import (
	"fmt"
	"testing"
)

func TestScheduler_PendingSortedByPriority(t *testing.T) {
	s := NewScheduler()
	s.Schedule(New(SpontaneousThought, ""))
	s.Schedule(New(ErrorRecovery, "timeouts piling up"))
	s.Schedule(New(DeepReflection, ""))

	got := s.PendingSnapshot()
	want := []Kind{ErrorRecovery, DeepReflection, SpontaneousThought}
	for i := range want {
		if got[i].Kind != want[i] {
			t.Errorf("pending[%d] = %s, want %s", i, got[i].Kind, want[i])
		}
	}
}

func TestScheduler_EqualPriorityIsFIFO(t *testing.T) {
	s := NewScheduler()
	for i := 0; i < 3; i++ {
		s.Schedule(New(DeepReflection, fmt.Sprintf("r%d", i)))
	}
	for i := 0; i < 3; i++ {
		got := s.Next()
		if got == nil {
			t.Fatal("Next() = nil with capacity available")
		}
		if want := fmt.Sprintf("r%d", i); got.Payload != want {
			t.Errorf("dispatch %d = %q, want %q (stable order)", i, got.Payload, want)
		}
	}
}

func TestScheduler_RunningNeverExceedsCap(t *testing.T) {
	s := NewSchedulerWithCap(2)
	for i := 0; i < 5; i++ {
		s.Schedule(New(SpontaneousThought, ""))
	}

	if s.Next() == nil || s.Next() == nil {
		t.Fatal("first two dispatches should succeed")
	}
	if got := s.Next(); got != nil {
		t.Errorf("Next() at cap = %+v, want nil", got)
	}
	if n := s.RunningLen(); n != 2 {
		t.Errorf("running = %d, want cap 2", n)
	}

	// Completion frees a slot.
	s.Complete(SpontaneousThought)
	if s.Next() == nil {
		t.Error("Next() after completion should dispatch again")
	}
	if n := s.RunningLen(); n != 2 {
		t.Errorf("running = %d, want 2", n)
	}
}

func TestScheduler_CompleteMatchesByKindNotPayload(t *testing.T) {
	s := NewScheduler()
	s.Schedule(New(ErrorRecovery, "first failure"))
	s.Schedule(New(ErrorRecovery, "second failure"))
	s.Next()
	s.Next()

	s.Complete(ErrorRecovery)
	if n := s.RunningLen(); n != 1 {
		t.Errorf("running = %d after one completion, want 1", n)
	}
	done := s.CompletedSnapshot()
	if len(done) != 1 || done[0].Payload != "first failure" {
		t.Errorf("completed = %+v, want the first running match", done)
	}
}

func TestScheduler_CompleteWithoutMatchIsNoop(t *testing.T) {
	s := NewScheduler()
	s.Complete(DeepReflection) // nothing running at all

	s.Schedule(New(DeepReflection, ""))
	s.Next()
	s.Complete(DeepReflection)
	s.Complete(DeepReflection) // second completion of the same logical task

	if n := s.RunningLen(); n != 0 {
		t.Errorf("running = %d, want 0", n)
	}
	if n := len(s.CompletedSnapshot()); n != 1 {
		t.Errorf("completed = %d entries, want 1 (no double bookkeeping)", n)
	}
}

func TestScheduler_CompletedRingBounded(t *testing.T) {
	s := NewSchedulerWithCap(1)
	for i := 0; i < maxCompleted+10; i++ {
		s.Schedule(New(AttentionUpdate, fmt.Sprintf("u%d", i)))
		s.Next()
		s.Complete(AttentionUpdate)
	}
	done := s.CompletedSnapshot()
	if len(done) != maxCompleted {
		t.Fatalf("completed ring = %d, want %d", len(done), maxCompleted)
	}
	if done[0].Payload != "u10" {
		t.Errorf("oldest retained = %q, want u10 (oldest evicted first)", done[0].Payload)
	}
}

func TestScheduler_NextOnEmpty(t *testing.T) {
	s := NewScheduler()
	if got := s.Next(); got != nil {
		t.Errorf("Next() on empty = %+v, want nil", got)
	}
}

func TestKind_PriorityOrdering(t *testing.T) {
	if ErrorRecovery.Priority() <= DeepReflection.Priority() {
		t.Error("error recovery should outrank deep reflection")
	}
	if SpontaneousThought.Priority() >= MemoryConsolidation.Priority() {
		t.Error("spontaneous thought should be the lowest-priority contemplation")
	}
}
