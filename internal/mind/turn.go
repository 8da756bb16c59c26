package mind

import (
	"context"
	"strings"

	"github.com/quantumlife/cogmind/internal/affect"
	"github.com/quantumlife/cogmind/internal/attention"
	"github.com/quantumlife/cogmind/internal/goals"
	"github.com/quantumlife/cogmind/internal/journal"
	"github.com/quantumlife/cogmind/internal/llm"
	"github.com/quantumlife/cogmind/internal/metacog"
)

// TurnResult summarizes what one user turn did to the mind.
type TurnResult struct {
	Emotion   string       `json:"emotion"`
	State     affect.State `json:"state"`
	Mood      string       `json:"mood"`
	Modifiers []string     `json:"modifiers,omitempty"`
}

// ProcessTurn runs the full turn pipeline: observation, attention
// suggestion, emotional appraisal, affect commit, metacognitive record,
// and keyword-gated goal formation. A collaborator failure degrades to
// a neutral appraisal; it is tracked but never surfaced to the caller.
func (m *Mind) ProcessTurn(ctx context.Context, text string) TurnResult {
	m.affect.ObserveTurn(text)
	m.attention.EvaluateShift(m.attention.SuggestTargets(text))

	emotion := "Neutral"
	if m.collab != nil {
		result, err := m.collab.Appraise(ctx, text, m.affect.MemorySnapshot())
		if err != nil {
			m.tracker.RecordFailure(llm.Classify(err))
			m.log.Warn("appraisal failed, continuing neutrally: %v", err)
		} else {
			emotion = result.Emotion
			m.affect.ProcessEmotion(result.Emotion, result.Delta)
			m.metacog.Record(metacog.EmotionalProcessing("user turn", result.Emotion))
		}
	}

	m.formGoalsFromTurn(text)

	st := m.affect.Snapshot()
	return TurnResult{
		Emotion:   emotion,
		State:     st,
		Mood:      st.Summary(),
		Modifiers: m.attention.Modifiers(),
	}
}

// turnGoalKeywords gates goal formation on what the user actually said.
var turnGoalKeywords = []struct {
	words       []string
	description string
	category    goals.Category
}{
	{[]string{"learn", "understand", "curious", "wonder"}, "learn more about what the user is exploring", goals.Epistemic},
	{[]string{"help", "support", "struggling"}, "find a way to genuinely help", goals.Altruistic},
	{[]string{"create", "build", "make", "design"}, "contribute to what is being created", goals.Creative},
	{[]string{"friend", "together", "we ", "relationship"}, "strengthen this connection", goals.Social},
}

func (m *Mind) formGoalsFromTurn(text string) {
	lower := strings.ToLower(text)
	st := m.affect.Snapshot()

	for _, kw := range turnGoalKeywords {
		for _, w := range kw.words {
			if strings.Contains(lower, w) {
				if _, ok := m.goals.Form(kw.description, kw.category, 0.6, st); ok {
					m.metacog.Record(metacog.GoalFormation(kw.description, 0.6))
				}
				return
			}
		}
	}
}

// CurrentAffect returns the affective state snapshot.
func (m *Mind) CurrentAffect() affect.State {
	return m.affect.Snapshot()
}

// AffectNarrative returns the first-person mood description.
func (m *Mind) AffectNarrative() string {
	return m.affect.Describe()
}

// CurrentGoals returns the active goals, most important first.
func (m *Mind) CurrentGoals() []goals.Goal {
	return m.goals.ActiveGoals()
}

// GoalSummary returns the one-line goal overview.
func (m *Mind) GoalSummary() string {
	return m.goals.Summary()
}

// AttentionDescription returns the current focus narrative.
func (m *Mind) AttentionDescription() string {
	return m.attention.Describe()
}

// AttentionModifiers returns response-shaping hints from the current
// attention state.
func (m *Mind) AttentionModifiers() []string {
	return m.attention.Modifiers()
}

// MetacognitiveNarrative returns the monitor's self-description.
func (m *Mind) MetacognitiveNarrative() string {
	return m.metacog.Narrative()
}

// MetacognitiveState returns the raw metacognitive scalars.
func (m *Mind) MetacognitiveState() metacog.State {
	return m.metacog.Snapshot()
}

// RecentThoughts returns the last n journal entries in insertion order.
func (m *Mind) RecentThoughts(n int) []journal.Activity {
	return m.journal.Recent(n)
}

// MostRelevantThoughts returns the n currently most relevant entries.
func (m *Mind) MostRelevantThoughts(n int) []journal.Activity {
	return m.journal.MostRelevant(n)
}

// PendingActions drains and returns the queued goal-driven actions.
func (m *Mind) PendingActions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.pendingActions
	m.pendingActions = nil
	return out
}

// RecordEmotion applies an externally appraised emotion.
func (m *Mind) RecordEmotion(emotion string, d affect.Delta) {
	m.affect.ProcessEmotion(emotion, d)
	m.metacog.Record(metacog.EmotionalProcessing("external", emotion))
}

// FormGoal adopts a goal if the current state supplies the motivation.
func (m *Mind) FormGoal(description string, category goals.Category, priority float64) (string, bool) {
	return m.goals.Form(description, category, priority, m.affect.Snapshot())
}

// UpdateAttention points attention at a target.
func (m *Mind) UpdateAttention(target attention.Target, intensity, salience float64) {
	m.attention.FocusOn(target, intensity, salience)
}

// RecordCognitiveProcess feeds an external process into the monitor.
func (m *Mind) RecordCognitiveProcess(p metacog.Process) {
	m.metacog.Record(p)
}

// HealthStatus reports the failure count and most recent category.
func (m *Mind) HealthStatus() (count int, last string) {
	count = m.tracker.Count()
	if category, _, ok := m.tracker.LastFailure(); ok {
		last = string(category)
	}
	return count, last
}

// MentalStateSummary is the whole-mind status paragraph used by the CLI
// and the status endpoint.
func (m *Mind) MentalStateSummary() string {
	var b strings.Builder
	b.WriteString(m.affect.Describe())
	b.WriteString(" ")
	b.WriteString(m.attention.Describe())
	b.WriteString(" ")
	b.WriteString(m.goals.Summary())
	b.WriteString(" ")
	b.WriteString(m.metacog.Narrative())
	return b.String()
}
