// Package attention implements selective attention: one primary focus,
// bounded background awareness, and distraction-gated shifts.
package attention

import "time"

// TargetKind enumerates the things attention can rest on.
type TargetKind string

const (
	UserEmotion            TargetKind = "user_emotion"
	ConversationTopic      TargetKind = "conversation_topic"
	SelfGoals              TargetKind = "self_goals"
	SelfEmotion            TargetKind = "self_emotion"
	MemoryRecall           TargetKind = "memory_recall"
	ProblemSolving         TargetKind = "problem_solving"
	CreativeThinking       TargetKind = "creative_thinking"
	Learning               TargetKind = "learning"
	SocialDynamics         TargetKind = "social_dynamics"
	EnvironmentalAwareness TargetKind = "environmental_awareness"
)

// Target identifies an attention target. Topic is only meaningful for
// ConversationTopic. Comparable, so it keys the background map directly.
type Target struct {
	Kind  TargetKind `json:"kind"`
	Topic string     `json:"topic,omitempty"`
}

// Topic is shorthand for a conversation-topic target.
func Topic(topic string) Target {
	return Target{Kind: ConversationTopic, Topic: topic}
}

// State is the strength and character of attention toward one target.
type State struct {
	Target      Target    `json:"target"`
	Intensity   float64   `json:"intensity"` // 0..1
	Duration    float64   `json:"duration"`  // minutes under attention
	Stability   float64   `json:"stability"` // 0..1, resistance to distraction
	Salience    float64   `json:"salience"`  // 0..1
	LastUpdated time.Time `json:"last_updated"`
}

func newState(target Target, intensity, salience float64, now time.Time) State {
	return State{
		Target:      target,
		Intensity:   clamp01(intensity),
		Stability:   0.5,
		Salience:    clamp01(salience),
		LastUpdated: now,
	}
}

// tick ages the state: intensity decays unless reinforced, stability
// grows while attention is sustained.
func (s *State) tick(dtMinutes float64, now time.Time) {
	s.Duration += dtMinutes
	s.LastUpdated = now
	s.Intensity *= max0(1 - 0.01*dtMinutes)
	if s.Intensity > 0.5 {
		s.Stability += 0.02 * dtMinutes
		if s.Stability > 1 {
			s.Stability = 1
		}
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func max0(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}
