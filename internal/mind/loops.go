package mind

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quantumlife/cogmind/internal/affect"
	"github.com/quantumlife/cogmind/internal/goals"
	"github.com/quantumlife/cogmind/internal/journal"
	"github.com/quantumlife/cogmind/internal/llm"
	"github.com/quantumlife/cogmind/internal/metacog"
	"github.com/quantumlife/cogmind/internal/tasks"
	"github.com/quantumlife/cogmind/internal/vectors"
)

// coreTick is the fast housekeeping pass. Every sub-step uses a try-lock
// variant so a busy container is skipped, never waited on.
func (m *Mind) coreTick(ctx context.Context) {
	dtMinutes := m.cfg.CoreTick().Minutes()
	m.attention.TryUpdate(dtMinutes)
	m.metacog.TryDecay()

	now := m.now()
	m.mu.Lock()
	due := now.Sub(m.lastRegulate) >= regulateSpacing
	if due {
		m.lastRegulate = now
	}
	m.mu.Unlock()
	if due {
		m.affect.TryRegulate()
	}

	m.recomputeSignals()
}

// thoughtTick maybe generates one spontaneous thought. A busier mind
// thinks more often: the effective interval shrinks with activity.
func (m *Mind) thoughtTick(ctx context.Context) {
	now := m.now()

	m.mu.Lock()
	effective := time.Duration(float64(m.cfg.ThoughtInterval()) / (1 + m.mentalActivity))
	if now.Sub(m.lastThought) < effective {
		m.mu.Unlock()
		return
	}
	m.lastThought = now
	m.mu.Unlock()

	activity, proc := m.generateThought(now)
	if activity.Kind == journal.MemoryRecall && m.embedder != nil && m.vectors != nil {
		m.enrichRecall(ctx, &activity)
	}
	m.recordThought(activity)
	m.metacog.Record(proc)

	if journal.NeedsFollowUp(activity, now) {
		m.scheduler.Schedule(tasks.New(followUpTask(activity.Kind), activity.Text))
	}
}

// enrichRecall searches the archive for the closest past thought and
// folds it into the recollection. Best effort; any failure leaves the
// thought as generated.
func (m *Mind) enrichRecall(ctx context.Context, a *journal.Activity) {
	vec, err := m.embedder.Embed(ctx, a.Text)
	if err != nil {
		return
	}
	results, err := m.vectors.Search(ctx, vectors.CollectionThoughts, vec, 1, nil)
	if err != nil || len(results) == 0 {
		return
	}
	if past, ok := results[0].Payload["text"].(string); ok && past != "" && past != a.Text {
		a.Text = a.Text + "; it reminds me of when I thought: " + past
	}
}

// followUpTask maps a thought kind to the background task that pursues it.
func followUpTask(kind journal.ThoughtKind) tasks.Kind {
	switch kind {
	case journal.EmotionalProcessing:
		return tasks.EmotionalRegulation
	case journal.GoalReassessment:
		return tasks.GoalReassessment
	case journal.SelfReflection, journal.ExistentialWondering:
		return tasks.DeepReflection
	case journal.ErrorRecovery:
		return tasks.ErrorRecovery
	default:
		return tasks.SpontaneousThought
	}
}

// goalTick runs motivation-gated formation and refreshes focus and the
// pending action list.
func (m *Mind) goalTick(ctx context.Context) {
	now := m.now()

	m.mu.Lock()
	if now.Sub(m.lastGoalPass) < goalPassSpacing {
		m.mu.Unlock()
		return
	}
	m.lastGoalPass = now
	m.mu.Unlock()

	st := m.affect.Snapshot()

	// At most one formation attempt per pass, for the category the
	// current state most supports.
	if desc, category, motivation := strongestDesire(st); motivation >= 0.55 && m.randFloat() < 0.3 {
		if id, ok := m.goals.Form(desc, category, motivation, st); ok {
			m.metacog.Record(metacog.GoalFormation(desc, motivation))
			m.log.Debug("formed goal %s (%s)", id, category)
		}
	}

	m.goals.DetermineFocus()
	m.queueActions(m.goals.DesiredActions())
}

// queueActions appends to the bounded pending action list, dropping the
// oldest entries on overflow.
func (m *Mind) queueActions(actions []string) {
	if len(actions) == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pendingActions = append(m.pendingActions, actions...)
	if len(m.pendingActions) > maxPendingActions {
		drop := pendingDrain
		if over := len(m.pendingActions) - maxPendingActions; over > drop {
			drop = over
		}
		m.pendingActions = append([]string(nil), m.pendingActions[drop:]...)
	}
}

// reflectionTick asks the collaborator whether the personality baseline
// should evolve. The memory snapshot is taken before the call; no
// container lock is held while waiting.
func (m *Mind) reflectionTick(ctx context.Context) {
	if m.collab == nil {
		return
	}

	now := m.now()
	m.mu.Lock()
	if now.Sub(m.lastReflection) < reflectionSpacing {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	if !m.metacog.ShouldDeepReflect() {
		return
	}

	m.mu.Lock()
	m.lastReflection = now
	m.mu.Unlock()

	m.deepReflect(ctx)
}

func (m *Mind) deepReflect(ctx context.Context) {
	mem := m.affect.MemorySnapshot()

	update, err := m.collab.Reflect(ctx, mem)
	if err != nil {
		m.tracker.RecordFailure(llm.Classify(err))
		m.recordThought(journal.Activity{
			Kind:      journal.ErrorRecovery,
			Text:      "my reflection did not come together; I will sit with what I have",
			Intensity: 0.5,
			Timestamp: m.now(),
			Trigger:   "reflection failure",
		})
		m.log.Warn("deep reflection failed: %v", err)
		return
	}

	m.affect.SetBaseline(update.Baseline)

	// One reflection answers everything queued up to this point.
	answered := m.metacog.DrainReflectionQueue()

	m.metacog.Record(metacog.SelfReflection("my baseline temperament shifted slightly", 0.7))
	m.recordThought(journal.Activity{
		Kind:      journal.SelfReflection,
		Text:      "I reflected on my accumulated experiences and adjusted who I am at rest",
		Intensity: 0.6,
		Timestamp: m.now(),
	})
	m.log.Info("deep reflection committed a new baseline (%d prompts answered)", len(answered))
}

// consolidationTick archives new journal entries to SQLite, optionally
// embeds them into the vector store, snapshots affect, and prunes stale
// attention targets.
func (m *Mind) consolidationTick(ctx context.Context) {
	now := m.now()

	m.mu.Lock()
	cutoff := m.lastArchive
	m.lastArchive = now
	m.mu.Unlock()

	var fresh []journal.Activity
	for _, a := range m.journal.Recent(journalScanDepth) {
		if a.Timestamp.After(cutoff) {
			fresh = append(fresh, a)
		}
	}

	if m.thoughts != nil && len(fresh) > 0 {
		if err := m.thoughts.ArchiveAll(fresh); err != nil {
			m.log.Warn("thought archive failed: %v", err)
		}
	}

	if m.embedder != nil && m.vectors != nil {
		m.embedThoughts(ctx, fresh)
	}

	if m.goalStore != nil {
		for _, g := range m.goals.AllGoals() {
			if err := m.goalStore.Save(g); err != nil {
				m.log.Warn("goal persist failed: %v", err)
				break
			}
		}
	}

	if m.affects != nil {
		if err := m.affects.Snapshot(m.affect.Snapshot(), now); err != nil {
			m.log.Warn("affect snapshot failed: %v", err)
		}
	}

	for _, target := range m.attention.StaleTargets(staleAttentionAge) {
		m.attention.Drop(target)
	}
}

const journalScanDepth = 50

func (m *Mind) embedThoughts(ctx context.Context, entries []journal.Activity) {
	for _, a := range entries {
		vec, err := m.embedder.Embed(ctx, a.Text)
		if err != nil {
			m.tracker.RecordFailure(llm.Classify(err))
			m.log.Warn("embedding failed: %v", err)
			return
		}
		point := vectors.Point{
			ID:     uuid.NewString(),
			Vector: vec,
			Payload: map[string]interface{}{
				"kind":      string(a.Kind),
				"text":      a.Text,
				"intensity": a.Intensity,
				"timestamp": a.Timestamp.Format(time.RFC3339),
			},
		}
		if err := m.vectors.Upsert(ctx, vectors.CollectionThoughts, []vectors.Point{point}); err != nil {
			m.log.Warn("vector upsert failed: %v", err)
			return
		}
	}
}

// healthTick escalates accumulated failures and drains the task queue.
func (m *Mind) healthTick(ctx context.Context) {
	threshold := m.cfg.FailureThreshold
	if threshold <= 0 {
		threshold = 10
	}

	if summary, escalate := m.tracker.CheckHealth(threshold); escalate {
		m.scheduler.Schedule(tasks.New(tasks.ErrorRecovery, summary))
		m.recordThought(journal.Activity{
			Kind:      journal.ErrorRecovery,
			Text:      "something keeps going wrong; I should slow down and simplify",
			Intensity: 0.8,
			Timestamp: m.now(),
			Trigger:   summary,
		})
		m.log.Warn("health escalation: %s", summary)
	}

	for {
		task := m.scheduler.Next()
		if task == nil {
			return
		}
		m.runTask(ctx, *task)
		m.scheduler.Complete(task.Kind)
	}
}

// runTask executes one background task inline. Tasks are short; the
// health loop cadence bounds how stale the queue can get.
func (m *Mind) runTask(ctx context.Context, t tasks.Task) {
	switch t.Kind {
	case tasks.ErrorRecovery:
		category, _, ok := m.tracker.LastFailure()
		strategy := "retry with patience"
		if ok {
			strategy = fmt.Sprintf("simplify around repeated %s failures", category)
		}
		m.metacog.Record(metacog.ErrorRecovery(string(category), strategy))

	case tasks.EmotionalRegulation:
		m.affect.Regulate()
		m.metacog.Record(metacog.EmotionalProcessing(t.Payload, "regulated toward baseline"))

	case tasks.GoalReassessment:
		m.goals.DetermineFocus()
		if focus, ok := m.goals.Focus(); ok {
			m.recordThought(journal.Activity{
				Kind:      journal.GoalReassessment,
				Text:      "I reconsidered my goals and recommitted to: " + focus.Description,
				Intensity: 0.5,
				Timestamp: m.now(),
			})
		}

	case tasks.DeepReflection:
		if m.collab != nil {
			m.deepReflect(ctx)
		}

	case tasks.AttentionUpdate:
		m.attention.Update(m.cfg.CoreTick().Minutes())

	case tasks.MemoryConsolidation:
		m.consolidationTick(ctx)

	case tasks.SpontaneousThought:
		activity, proc := m.generateThought(m.now())
		m.recordThought(activity)
		m.metacog.Record(proc)
	}
}

var desireDescriptions = map[goals.Category]string{
	goals.Epistemic:       "understand what is making things feel so new",
	goals.Social:          "deepen the connection with the person I am talking to",
	goals.SelfDevelopment: "work on the part of myself that feels unsettled",
	goals.Creative:        "make something out of this good energy",
	goals.Altruistic:      "find a way to be genuinely useful",
	goals.Homeostatic:     "restore some calm and equilibrium",
}

// strongestDesire picks the goal category the state most supports and a
// matching description.
func strongestDesire(st affect.State) (string, goals.Category, float64) {
	var best goals.Category
	bestMotivation := -1.0
	for category := range desireDescriptions {
		if motivation := goals.Motivation(st, category); motivation > bestMotivation {
			best = category
			bestMotivation = motivation
		}
	}
	return desireDescriptions[best], best, bestMotivation
}
