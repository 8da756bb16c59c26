// Package affect implements the four-dimensional affective state (VADN)
// and its thread-safe container.
package affect

// State is the dimensional affect model: valence (pleasure), arousal
// (energy), dominance (control), novelty (surprise).
type State struct {
	Valence   float64 `json:"valence"`   // -1.0 to 1.0
	Arousal   float64 `json:"arousal"`   // 0.0 to 1.0
	Dominance float64 `json:"dominance"` // -1.0 to 1.0
	Novelty   float64 `json:"novelty"`   // -1.0 to 1.0
}

// Delta is an additive change to a State. Each field is applied and the
// result clamped to the dimension's range.
type Delta struct {
	Valence   float64 `json:"valence"`
	Arousal   float64 `json:"arousal"`
	Dominance float64 `json:"dominance"`
	Novelty   float64 `json:"novelty"`
}

// Neutral returns the resting-state baseline.
func Neutral() State {
	return State{
		Valence:   0.0,
		Arousal:   0.3,
		Dominance: 0.1,
		Novelty:   0.0,
	}
}

// Apply adds d to s and clamps every dimension to its declared range.
func (s State) Apply(d Delta) State {
	return State{
		Valence:   clamp(s.Valence+d.Valence, -1, 1),
		Arousal:   clamp(s.Arousal+d.Arousal, 0, 1),
		Dominance: clamp(s.Dominance+d.Dominance, -1, 1),
		Novelty:   clamp(s.Novelty+d.Novelty, -1, 1),
	}
}

// DecayToward moves s toward baseline by rate (0..1). rate 1 snaps to
// baseline, rate 0 is a no-op.
func (s State) DecayToward(baseline State, rate float64) State {
	rate = clamp(rate, 0, 1)
	return State{
		Valence:   s.Valence + (baseline.Valence-s.Valence)*rate,
		Arousal:   s.Arousal + (baseline.Arousal-s.Arousal)*rate,
		Dominance: s.Dominance + (baseline.Dominance-s.Dominance)*rate,
		Novelty:   s.Novelty + (baseline.Novelty-s.Novelty)*rate,
	}
}

// InRange reports whether every dimension sits inside its declared range.
// Update rules keep this true by construction; it exists for tests and
// debug assertions, not for production clamping.
func (s State) InRange() bool {
	return s.Valence >= -1 && s.Valence <= 1 &&
		s.Arousal >= 0 && s.Arousal <= 1 &&
		s.Dominance >= -1 && s.Dominance <= 1 &&
		s.Novelty >= -1 && s.Novelty <= 1
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
