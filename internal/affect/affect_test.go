package affect

import (
	"math/rand"
	"sync"
	"testing"
)

func TestState_Apply_Clamps(t *testing.T) {
	tests := []struct {
		name  string
		start State
		delta Delta
		want  State
	}{
		{
			name:  "positive overflow clamps high",
			start: State{Valence: 0.9, Arousal: 0.9, Dominance: 0.9, Novelty: 0.9},
			delta: Delta{Valence: 0.5, Arousal: 0.5, Dominance: 0.5, Novelty: 0.5},
			want:  State{Valence: 1, Arousal: 1, Dominance: 1, Novelty: 1},
		},
		{
			name:  "negative overflow clamps low",
			start: State{Valence: -0.9, Arousal: 0.1, Dominance: -0.9, Novelty: -0.9},
			delta: Delta{Valence: -0.5, Arousal: -0.5, Dominance: -0.5, Novelty: -0.5},
			want:  State{Valence: -1, Arousal: 0, Dominance: -1, Novelty: -1},
		},
		{
			name:  "within range is plain addition",
			start: State{Valence: 0.1, Arousal: 0.3},
			delta: Delta{Valence: 0.2, Arousal: 0.2},
			want:  State{Valence: 0.30000000000000004, Arousal: 0.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.start.Apply(tt.delta)
			if got != tt.want {
				t.Errorf("Apply() = %+v, want %+v", got, tt.want)
			}
			if !got.InRange() {
				t.Errorf("Apply() left range: %+v", got)
			}
		})
	}
}

func TestState_Apply_RandomSequenceStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := Neutral()
	for i := 0; i < 10000; i++ {
		s = s.Apply(Delta{
			Valence:   rng.Float64()*4 - 2,
			Arousal:   rng.Float64()*4 - 2,
			Dominance: rng.Float64()*4 - 2,
			Novelty:   rng.Float64()*4 - 2,
		})
		if !s.InRange() {
			t.Fatalf("iteration %d: state out of range: %+v", i, s)
		}
	}
}

func TestState_DecayToward(t *testing.T) {
	base := Neutral()
	s := State{Valence: 1, Arousal: 1, Dominance: 1, Novelty: 1}

	full := s.DecayToward(base, 1)
	if full != base {
		t.Errorf("rate 1 should snap to baseline, got %+v", full)
	}

	none := s.DecayToward(base, 0)
	if none != s {
		t.Errorf("rate 0 should be a no-op, got %+v", none)
	}

	half := s.DecayToward(base, 0.5)
	if half.Valence >= s.Valence || half.Valence <= base.Valence {
		t.Errorf("partial decay should land between state and baseline, got %+v", half)
	}
}

func TestCore_ProcessEmotion_RecordsMilestone(t *testing.T) {
	c := NewCore()

	c.ProcessEmotion("Contentment", Delta{Valence: 0.1})
	if n := len(c.MemorySnapshot().EmotionalMilestones); n != 0 {
		t.Errorf("weak delta recorded %d milestones, want 0", n)
	}

	c.ProcessEmotion("Elation", Delta{Valence: 0.8, Arousal: 0.5})
	if n := len(c.MemorySnapshot().EmotionalMilestones); n != 1 {
		t.Errorf("strong delta recorded %d milestones, want 1", n)
	}
}

func TestCore_MilestonesBounded(t *testing.T) {
	c := NewCore()
	for i := 0; i < maxMilestones*3; i++ {
		c.ProcessEmotion("Surprise", Delta{Valence: 0.9})
	}
	if n := len(c.MemorySnapshot().EmotionalMilestones); n != maxMilestones {
		t.Errorf("milestones = %d, want cap %d", n, maxMilestones)
	}
}

func TestCore_SetBaseline_ChangesRegulationTarget(t *testing.T) {
	c := NewCore()
	newBase := State{Valence: 0.2, Arousal: 0.4, Dominance: 0.1, Novelty: 0}
	c.SetBaseline(newBase)

	for i := 0; i < 200; i++ {
		c.Regulate()
	}
	got := c.Snapshot()
	if abs(got.Valence-newBase.Valence) > 0.01 {
		t.Errorf("state did not converge to new baseline: %+v", got)
	}
}

func TestMemory_LearnFromPrompt(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   string
	}{
		{"plain introduction", "Hello, my name is alice.", "Alice"},
		{"mid sentence", "by the way my name is Bob, nice to meet you", "Bob"},
		{"no introduction", "what a lovely day", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMemory()
			m.LearnFromPrompt(tt.prompt)
			if m.UserProfile.Name != tt.want {
				t.Errorf("name = %q, want %q", m.UserProfile.Name, tt.want)
			}
		})
	}

	t.Run("does not overwrite known name", func(t *testing.T) {
		m := NewMemory()
		m.LearnFromPrompt("my name is Carol")
		m.LearnFromPrompt("my name is Dave")
		if m.UserProfile.Name != "Carol" {
			t.Errorf("name = %q, want Carol", m.UserProfile.Name)
		}
	})
}

// Two concurrent mutation attempts, one blocking and one try-lock, must
// leave the state consistent with some ordering of the two operations.
func TestCore_ConcurrentMutationConsistency(t *testing.T) {
	c := NewCore()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			c.ProcessEmotion("Joy", Delta{Valence: 0.001})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			c.TryRegulate()
		}
	}()
	wg.Wait()

	if got := c.Snapshot(); !got.InRange() {
		t.Errorf("state corrupted by concurrent mutation: %+v", got)
	}
}

func TestState_Summary(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{State{Valence: 0.6, Arousal: 0.6}, "elated and proud"},
		{State{Valence: 0.6, Arousal: 0.2}, "pleased and content"},
		{State{Valence: -0.7, Arousal: 0.7, Dominance: 0.5}, "indignant and assertive"},
		{State{Valence: -0.7, Arousal: 0.7}, "anxious and distressed"},
		{State{Valence: -0.7, Arousal: 0.2, Dominance: -0.5}, "dejected and powerless"},
		{State{Arousal: 0.7}, "alert and focused"},
		{State{Arousal: 0.1}, "calm and relaxed"},
		{State{Arousal: 0.4}, "calmly neutral"},
	}
	for _, tt := range tests {
		if got := tt.state.Summary(); got != tt.want {
			t.Errorf("Summary(%+v) = %q, want %q", tt.state, got, tt.want)
		}
	}
}
