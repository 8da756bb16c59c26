// Package metacog implements metacognitive monitoring: the mind's model
// of its own thinking, with reflection triggers and pattern tracking.
package metacog

// ProcessKind is the closed set of cognitive process categories the
// monitor can observe.
type ProcessKind string

const (
	KindEmotionalProcessing ProcessKind = "emotional_processing"
	KindMemoryRetrieval     ProcessKind = "memory_retrieval"
	KindGoalFormation       ProcessKind = "goal_formation"
	KindSelfReflection      ProcessKind = "self_reflection"
	KindAttentionShift      ProcessKind = "attention_shift"
	KindPredictiveThinking  ProcessKind = "predictive_thinking"
	KindValueConflict       ProcessKind = "value_conflict"
	KindErrorRecovery       ProcessKind = "error_recovery"
	KindCreativeThinking    ProcessKind = "creative_thinking"
	KindSocialInteraction   ProcessKind = "social_interaction"
)

// Process is one observed cognitive event. Kind selects which payload
// fields are meaningful; the zero value of the rest is ignored.
type Process struct {
	Kind ProcessKind

	// Free-text payloads (trigger/outcome, insight, conflict, ...).
	Detail  string
	Outcome string

	// Numeric payloads.
	Confidence  float64 // SelfReflection, PredictiveThinking
	Originality float64 // CreativeThinking
	Empathy     float64 // SocialInteraction
	Priority    float64 // GoalFormation
	Success     bool    // MemoryRetrieval
}

// Constructors for the payload-bearing kinds keep call sites honest about
// which fields each kind carries.

func EmotionalProcessing(trigger, outcome string) Process {
	return Process{Kind: KindEmotionalProcessing, Detail: trigger, Outcome: outcome}
}

func MemoryRetrieval(query string, success bool) Process {
	return Process{Kind: KindMemoryRetrieval, Detail: query, Success: success}
}

func GoalFormation(goal string, priority float64) Process {
	return Process{Kind: KindGoalFormation, Detail: goal, Priority: priority}
}

func SelfReflection(insight string, confidence float64) Process {
	return Process{Kind: KindSelfReflection, Detail: insight, Confidence: confidence}
}

func AttentionShift(from, to, reason string) Process {
	return Process{Kind: KindAttentionShift, Detail: from + " -> " + to, Outcome: reason}
}

func PredictiveThinking(prediction string, confidence float64) Process {
	return Process{Kind: KindPredictiveThinking, Detail: prediction, Confidence: confidence}
}

func ValueConflict(conflict, resolution string) Process {
	return Process{Kind: KindValueConflict, Detail: conflict, Outcome: resolution}
}

func ErrorRecovery(errorType, strategy string) Process {
	return Process{Kind: KindErrorRecovery, Detail: errorType, Outcome: strategy}
}

func CreativeThinking(concept string, originality float64) Process {
	return Process{Kind: KindCreativeThinking, Detail: concept, Originality: originality}
}

func SocialInteraction(context string, empathy float64) Process {
	return Process{Kind: KindSocialInteraction, Detail: context, Empathy: empathy}
}

// LoadImpact is the cognitive-load cost of observing this process.
func (p Process) LoadImpact() float64 {
	switch p.Kind {
	case KindValueConflict:
		return 0.3
	case KindErrorRecovery:
		return 0.2
	case KindSelfReflection:
		return 0.15
	case KindCreativeThinking, KindPredictiveThinking:
		return 0.1
	case KindGoalFormation:
		return 0.08
	case KindAttentionShift, KindEmotionalProcessing:
		return 0.05
	case KindSocialInteraction:
		return 0.03
	case KindMemoryRetrieval:
		return 0.02
	default:
		return 0
	}
}

// AwarenessBoost is how much this process raises self-awareness.
func (p Process) AwarenessBoost() float64 {
	switch p.Kind {
	case KindSelfReflection:
		return p.Confidence * 0.1
	case KindValueConflict:
		return 0.05
	case KindCreativeThinking:
		return p.Originality * 0.03
	case KindErrorRecovery:
		return 0.02
	default:
		return 0.01
	}
}

// TriggersReflection reports whether this process alone warrants queuing
// a deeper reflection.
func (p Process) TriggersReflection() bool {
	switch p.Kind {
	case KindValueConflict, KindErrorRecovery:
		return true
	case KindSelfReflection:
		return p.Confidence > 0.8
	case KindCreativeThinking:
		return p.Originality > 0.7
	default:
		return false
	}
}
