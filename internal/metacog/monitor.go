package metacog

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	maxHistory        = 200
	maxReflectionQ    = 10
	maxInsights       = 50
	patternWindow     = 24 * time.Hour
	significanceScale = 20 // occurrences per window for significance 1.0
)

// State is the monitor's model of its own thinking. All scalars live in
// [0,1] and are re-clamped after every mutation.
type State struct {
	SelfAwareness          float64 `json:"self_awareness"`
	ReasoningConfidence    float64 `json:"reasoning_confidence"`
	CognitiveLoad          float64 `json:"cognitive_load"`
	SituationUnderstanding float64 `json:"situation_understanding"`
	AttentionIntensity     float64 `json:"attention_intensity"`
	IntrospectionDepth     float64 `json:"introspection_depth"`
	MetaReasoningStrength  float64 `json:"meta_reasoning_strength"`
}

// DefaultState is the waking-up configuration: low awareness, middling
// confidence, nearly idle.
func DefaultState() State {
	return State{
		SelfAwareness:          0.3,
		ReasoningConfidence:    0.5,
		CognitiveLoad:          0.2,
		SituationUnderstanding: 0.4,
		AttentionIntensity:     0.5,
		IntrospectionDepth:     0.3,
		MetaReasoningStrength:  0.4,
	}
}

func (s *State) clampAll() {
	s.SelfAwareness = clamp01(s.SelfAwareness)
	s.ReasoningConfidence = clamp01(s.ReasoningConfidence)
	s.CognitiveLoad = clamp01(s.CognitiveLoad)
	s.SituationUnderstanding = clamp01(s.SituationUnderstanding)
	s.AttentionIntensity = clamp01(s.AttentionIntensity)
	s.IntrospectionDepth = clamp01(s.IntrospectionDepth)
	s.MetaReasoningStrength = clamp01(s.MetaReasoningStrength)
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

// trigger fires at most once per cooldown when its measure crosses the
// threshold.
type trigger struct {
	name      string
	threshold float64
	priority  float64
	cooldown  time.Duration
	lastFired time.Time
	measure   func(State) float64
}

// ReflectionRequest is a queued prompt for the deep reflection loop.
type ReflectionRequest struct {
	Reason   string
	Priority float64
	At       time.Time
}

// Insight is a conclusion the mind has drawn about itself.
type Insight struct {
	Text       string
	Confidence float64
	At         time.Time
}

// pattern tracks how often a process kind recurs inside the window.
type pattern struct {
	occurrences []time.Time
}

// Monitor observes cognitive processes and maintains the metacognitive
// state, reflection triggers, and pattern statistics. Safe for concurrent
// use; the lock is never held across blocking work.
type Monitor struct {
	mu sync.Mutex

	state      State
	history    []Process
	triggers   []*trigger
	patterns   map[ProcessKind]*pattern
	reflection []ReflectionRequest
	insights   []Insight
	now        func() time.Time
}

// NewMonitor returns a monitor at the default state with the standard
// trigger set armed.
func NewMonitor() *Monitor {
	return &Monitor{
		state:    DefaultState(),
		patterns: make(map[ProcessKind]*pattern),
		now:      time.Now,
		triggers: []*trigger{
			{name: "high cognitive load", threshold: 0.8, priority: 0.9, cooldown: 2 * time.Minute,
				measure: func(s State) float64 { return s.CognitiveLoad }},
			{name: "low reasoning confidence", threshold: 0.7, priority: 0.7, cooldown: 5 * time.Minute,
				measure: func(s State) float64 { return 1 - s.ReasoningConfidence }},
			{name: "heightened self-awareness", threshold: 0.85, priority: 0.5, cooldown: 10 * time.Minute,
				measure: func(s State) float64 { return s.SelfAwareness }},
			{name: "attention fragmentation", threshold: 0.75, priority: 0.6, cooldown: 5 * time.Minute,
				measure: func(s State) float64 { return 1 - s.AttentionIntensity }},
			{name: "poor situation understanding", threshold: 0.7, priority: 0.65, cooldown: 5 * time.Minute,
				measure: func(s State) float64 { return 1 - s.SituationUnderstanding }},
			{name: "deep introspection momentum", threshold: 0.8, priority: 0.4, cooldown: 15 * time.Minute,
				measure: func(s State) float64 { return s.IntrospectionDepth }},
			{name: "meta-reasoning surge", threshold: 0.85, priority: 0.45, cooldown: 30 * time.Minute,
				measure: func(s State) float64 { return s.MetaReasoningStrength }},
		},
	}
}

// Record observes one cognitive process: applies its load and awareness
// impact plus kind-specific adjustments, appends history, updates pattern
// statistics, and evaluates reflection triggers.
func (m *Monitor) Record(p Process) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()

	m.state.CognitiveLoad += p.LoadImpact()
	m.state.SelfAwareness += p.AwarenessBoost()

	switch p.Kind {
	case KindSelfReflection:
		m.state.IntrospectionDepth += 0.05
		m.state.ReasoningConfidence = m.state.ReasoningConfidence*0.9 + p.Confidence*0.1
		m.addInsightLocked(Insight{Text: p.Detail, Confidence: p.Confidence, At: now})
	case KindMemoryRetrieval:
		if p.Success {
			m.state.SituationUnderstanding += 0.03
		} else {
			m.state.ReasoningConfidence -= 0.02
		}
	case KindGoalFormation:
		m.state.AttentionIntensity += 0.03
	case KindAttentionShift:
		m.state.AttentionIntensity -= 0.05
	case KindPredictiveThinking:
		m.state.MetaReasoningStrength += 0.02
		m.state.ReasoningConfidence = m.state.ReasoningConfidence*0.9 + p.Confidence*0.1
	case KindValueConflict:
		m.state.ReasoningConfidence -= 0.05
		m.state.IntrospectionDepth += 0.05
	case KindErrorRecovery:
		m.state.ReasoningConfidence -= 0.03
		m.state.SituationUnderstanding += 0.02
	case KindCreativeThinking:
		m.state.MetaReasoningStrength += 0.02 * p.Originality
	case KindSocialInteraction:
		m.state.SituationUnderstanding += 0.02 * p.Empathy
	}
	m.state.clampAll()

	m.history = append(m.history, p)
	if len(m.history) > maxHistory {
		m.history = m.history[len(m.history)-maxHistory:]
	}

	m.recordPatternLocked(p.Kind, now)

	if p.TriggersReflection() {
		m.enqueueReflectionLocked(ReflectionRequest{
			Reason:   fmt.Sprintf("process %s: %s", p.Kind, p.Detail),
			Priority: 0.8,
			At:       now,
		})
	}
	m.evaluateTriggersLocked(now)
}

func (m *Monitor) recordPatternLocked(kind ProcessKind, now time.Time) {
	pat := m.patterns[kind]
	if pat == nil {
		pat = &pattern{}
		m.patterns[kind] = pat
	}
	pat.occurrences = append(pat.occurrences, now)
	cutoff := now.Add(-patternWindow)
	i := 0
	for i < len(pat.occurrences) && pat.occurrences[i].Before(cutoff) {
		i++
	}
	pat.occurrences = pat.occurrences[i:]
}

func (m *Monitor) evaluateTriggersLocked(now time.Time) {
	for _, tr := range m.triggers {
		if tr.measure(m.state) < tr.threshold {
			continue
		}
		if !tr.lastFired.IsZero() && now.Sub(tr.lastFired) < tr.cooldown {
			continue
		}
		tr.lastFired = now
		m.enqueueReflectionLocked(ReflectionRequest{
			Reason:   "trigger: " + tr.name,
			Priority: tr.priority,
			At:       now,
		})
	}
}

func (m *Monitor) enqueueReflectionLocked(req ReflectionRequest) {
	if len(m.reflection) >= maxReflectionQ {
		// Full queue: evict the lowest-priority entry, or drop the new
		// request if nothing queued is weaker.
		lowest, idx := req.Priority, -1
		for i, r := range m.reflection {
			if r.Priority < lowest {
				lowest, idx = r.Priority, i
			}
		}
		if idx < 0 {
			return
		}
		m.reflection = append(m.reflection[:idx], m.reflection[idx+1:]...)
	}
	m.reflection = append(m.reflection, req)
}

func (m *Monitor) addInsightLocked(in Insight) {
	m.insights = append(m.insights, in)
	if len(m.insights) > maxInsights {
		m.insights = m.insights[len(m.insights)/2:]
	}
}

// Decay relaxes the state toward idle: load sheds fastest, meta-reasoning
// barely moves. Blocks until the lock is available.
func (m *Monitor) Decay() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decayLocked()
}

// TryDecay is the non-blocking variant for the fast maintenance loop.
// A false return means the tick was skipped.
func (m *Monitor) TryDecay() bool {
	if !m.mu.TryLock() {
		return false
	}
	defer m.mu.Unlock()
	m.decayLocked()
	return true
}

func (m *Monitor) decayLocked() {
	m.state.CognitiveLoad *= 0.95
	m.state.AttentionIntensity *= 0.98
	m.state.SelfAwareness *= 0.99
	m.state.ReasoningConfidence *= 0.99
	m.state.SituationUnderstanding *= 0.99
	m.state.IntrospectionDepth *= 0.995
	m.state.MetaReasoningStrength *= 0.998
	m.state.clampAll()
}

// ShouldDeepReflect reports whether the reflection queue holds work.
func (m *Monitor) ShouldDeepReflect() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reflection) > 0
}

// DrainReflectionQueue returns all queued reflection requests and clears
// the queue.
func (m *Monitor) DrainReflectionQueue() []ReflectionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.reflection
	m.reflection = nil
	return out
}

// Snapshot returns a copy of the metacognitive state.
func (m *Monitor) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Insights returns a copy of the retained insights, newest last.
func (m *Monitor) Insights() []Insight {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Insight(nil), m.insights...)
}

// PatternFrequency returns how many times the kind occurred within the
// tracking window, and its significance in [0,1].
func (m *Monitor) PatternFrequency(kind ProcessKind) (count int, significance float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pat := m.patterns[kind]
	if pat == nil {
		return 0, 0
	}
	count = len(pat.occurrences)
	significance = clamp01(float64(count) / significanceScale)
	return count, significance
}

// Narrative renders a first-person account of the current metacognitive
// state.
func (m *Monitor) Narrative() string {
	m.mu.Lock()
	s := m.state
	queued := len(m.reflection)
	observed := len(m.history)
	m.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "I am %s of my own thinking. ", levelWord(s.SelfAwareness, "barely aware", "somewhat aware", "keenly aware"))
	fmt.Fprintf(&b, "My cognitive load is %s (%.2f) and my reasoning feels %s (%.2f). ",
		levelWord(s.CognitiveLoad, "light", "moderate", "heavy"), s.CognitiveLoad,
		levelWord(s.ReasoningConfidence, "shaky", "steady", "assured"), s.ReasoningConfidence)
	fmt.Fprintf(&b, "I understand my situation %s and my attention is %s.",
		levelWord(s.SituationUnderstanding, "poorly", "partially", "well"),
		levelWord(s.AttentionIntensity, "scattered", "settled", "sharply focused"))
	if queued > 0 {
		fmt.Fprintf(&b, " %d matter(s) await deeper reflection.", queued)
	}
	fmt.Fprintf(&b, " (%d processes observed)", observed)
	return b.String()
}

func levelWord(x float64, low, mid, high string) string {
	switch {
	case x < 0.35:
		return low
	case x < 0.7:
		return mid
	default:
		return high
	}
}
