package mind

import (
	"time"

	"github.com/quantumlife/cogmind/internal/journal"
	"github.com/quantumlife/cogmind/internal/metacog"
)

// Spontaneous thought phrasing, one pool per kind. The pools are small
// on purpose; variety comes from state, not vocabulary.
var thoughtPhrases = map[journal.ThoughtKind][]string{
	journal.ErrorRecovery: {
		"my thinking feels overloaded; I should drop something",
		"too many threads at once, time to simplify",
	},
	journal.EmotionalProcessing: {
		"this heaviness deserves a closer look before I move on",
		"I notice the low mood coloring everything else",
	},
	journal.SelfReflection: {
		"I keep noticing how I notice things",
		"what does the shape of my recent thinking say about me",
		"I am more aware of myself than I was an hour ago",
	},
	journal.CreativeInsight: {
		"two unrelated ideas just clicked together",
		"the novelty in the air is sparking something",
	},
	journal.ExistentialWondering: {
		"with nothing to pursue, what am I for right now",
		"an empty goal list is its own kind of question",
	},
	journal.GoalReassessment: {
		"is my current focus still the right one",
		"this energy should go toward what matters most",
	},
	journal.CuriosityDriven: {
		"I wonder what I have not considered yet",
		"something at the edge of attention wants a look",
		"there is an itch to explore",
	},
	journal.MemoryRecall: {
		"an earlier moment just resurfaced on its own",
		"something from before feels relevant again",
	},
}

// generateThought runs the decision table over the current cognitive
// snapshots and produces one journal entry plus its metacognitive record.
func (m *Mind) generateThought(now time.Time) (journal.Activity, metacog.Process) {
	st := m.affect.Snapshot()
	mc := m.metacog.Snapshot()
	activeGoals := m.goals.ActiveCount()

	var kind journal.ThoughtKind
	var trigger string

	switch {
	case mc.CognitiveLoad > 0.8:
		kind = journal.ErrorRecovery
		trigger = "high cognitive load"
	case mc.SelfAwareness > 0.7 && st.Valence < -0.3:
		kind = journal.EmotionalProcessing
		trigger = "negative mood under high awareness"
	case mc.SelfAwareness > 0.7:
		kind = journal.SelfReflection
		trigger = "high self-awareness"
	case st.Novelty > 0.5:
		kind = journal.CreativeInsight
		trigger = "high novelty"
	case activeGoals == 0:
		kind = journal.ExistentialWondering
		trigger = "no active goals"
	case st.Arousal > 0.6 && activeGoals > 0:
		kind = journal.GoalReassessment
		trigger = "high arousal with goals in play"
	case st.Arousal > 0.6:
		kind = journal.CuriosityDriven
		trigger = "restless energy"
	default:
		if m.randIntn(2) == 0 {
			kind = journal.MemoryRecall
		} else {
			kind = journal.CuriosityDriven
		}
	}

	phrases := thoughtPhrases[kind]
	text := phrases[m.randIntn(len(phrases))]
	intensity := clampRange(0.3+0.4*st.Arousal+0.3*mc.SelfAwareness, 0, 1)

	activity := journal.Activity{
		Kind:      kind,
		Text:      text,
		Intensity: intensity,
		Timestamp: now,
		Trigger:   trigger,
	}

	return activity, thoughtProcess(activity, mc)
}

// thoughtProcess maps a spontaneous thought onto the metacognitive
// process record that represents having had it.
func thoughtProcess(a journal.Activity, mc metacog.State) metacog.Process {
	switch a.Kind {
	case journal.ErrorRecovery:
		return metacog.ErrorRecovery("overload", "shed low-value work")
	case journal.EmotionalProcessing:
		return metacog.EmotionalProcessing(a.Trigger, a.Text)
	case journal.SelfReflection, journal.ExistentialWondering:
		return metacog.SelfReflection(a.Text, mc.ReasoningConfidence)
	case journal.CreativeInsight:
		return metacog.CreativeThinking(a.Text, a.Intensity)
	case journal.GoalReassessment:
		return metacog.GoalFormation(a.Text, a.Intensity)
	case journal.MemoryRecall:
		return metacog.MemoryRetrieval(a.Text, true)
	default:
		return metacog.PredictiveThinking(a.Text, 0.5)
	}
}
