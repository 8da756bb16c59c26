package affect

import (
	"fmt"
	"sync"
)

// Default tuning for the affective core.
const (
	DefaultDecayRate     = 0.15
	DefaultEmpathyFactor = 0.8

	// Milestone thresholds: deltas this strong get remembered.
	milestoneValence = 0.6
	milestoneArousal = 0.7
)

// Core owns the current affective state and the mind memory. All access
// goes through its methods; the lock is never held across anything that
// blocks. Read accessors return value snapshots, never live references.
type Core struct {
	mu sync.Mutex

	current       State
	memory        Memory
	decayRate     float64
	empathyFactor float64
}

// NewCore creates a core whose state starts at its personality baseline.
func NewCore() *Core {
	mem := NewMemory()
	return &Core{
		current:       mem.Personality.Baseline,
		memory:        mem,
		decayRate:     DefaultDecayRate,
		empathyFactor: DefaultEmpathyFactor,
	}
}

// Snapshot returns a copy of the current state.
func (c *Core) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// MemorySnapshot returns a deep copy of the mind memory, safe to hand to
// the LLM collaborator without holding the lock.
func (c *Core) MemorySnapshot() Memory {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.memory.clone()
}

// ProcessEmotion applies an appraised emotion delta, scaled by the
// empathy factor, and records a milestone when the delta is strong.
func (c *Core) ProcessEmotion(emotion string, d Delta) {
	c.mu.Lock()
	defer c.mu.Unlock()

	scaled := Delta{
		Valence:   d.Valence * c.empathyFactor,
		Arousal:   d.Arousal * c.empathyFactor,
		Dominance: d.Dominance * c.empathyFactor,
		Novelty:   d.Novelty * c.empathyFactor,
	}
	c.current = c.current.Apply(scaled)

	if abs(d.Valence) > milestoneValence || d.Arousal > milestoneArousal {
		c.memory.RecordMilestone(fmt.Sprintf(
			"Emotion: %q, delta: {v:%.2f a:%.2f d:%.2f n:%.2f}",
			emotion, d.Valence, d.Arousal, d.Dominance, d.Novelty))
	}
}

// Regulate decays the current state toward the personality baseline.
// Blocks until the lock is available.
func (c *Core) Regulate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.DecayToward(c.memory.Personality.Baseline, c.decayRate)
}

// TryRegulate is the non-blocking variant used by the fast maintenance
// loop. A false return means the tick was skipped, not that anything
// failed.
func (c *Core) TryRegulate() bool {
	if !c.mu.TryLock() {
		return false
	}
	defer c.mu.Unlock()
	c.current = c.current.DecayToward(c.memory.Personality.Baseline, c.decayRate)
	return true
}

// SetBaseline commits a reflection result: the new personality baseline
// the state will decay toward from now on.
func (c *Core) SetBaseline(b State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.memory.Personality.Baseline = b
}

// Baseline returns the current personality baseline.
func (c *Core) Baseline() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.memory.Personality.Baseline
}

// ObserveTurn bumps the interaction count and lets the memory learn from
// the user's utterance.
func (c *Core) ObserveTurn(prompt string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.memory.InteractionCount++
	c.memory.LearnFromPrompt(prompt)
}

// Describe returns the first-person mood phrase for the current state.
func (c *Core) Describe() string {
	return c.Snapshot().Summary()
}

// PromptText returns the affect block for the turn prompt.
func (c *Core) PromptText() string {
	return c.Snapshot().PromptText()
}

func (m Memory) clone() Memory {
	out := m
	out.EmotionalMilestones = append([]string(nil), m.EmotionalMilestones...)
	if m.UserProfile.Preferences != nil {
		prefs := make(map[string]string, len(m.UserProfile.Preferences))
		for k, v := range m.UserProfile.Preferences {
			prefs[k] = v
		}
		out.UserProfile.Preferences = prefs
	}
	return out
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
