// Package mind wires the cognitive containers into one continuously
// running supervisor. The containers own their own locks; the mind owns
// the loops that drive them and a small set of derived signals.
package mind

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/quantumlife/cogmind/internal/affect"
	"github.com/quantumlife/cogmind/internal/attention"
	"github.com/quantumlife/cogmind/internal/config"
	"github.com/quantumlife/cogmind/internal/embeddings"
	"github.com/quantumlife/cogmind/internal/goals"
	"github.com/quantumlife/cogmind/internal/health"
	"github.com/quantumlife/cogmind/internal/journal"
	"github.com/quantumlife/cogmind/internal/llm"
	"github.com/quantumlife/cogmind/internal/logging"
	"github.com/quantumlife/cogmind/internal/metacog"
	"github.com/quantumlife/cogmind/internal/storage"
	"github.com/quantumlife/cogmind/internal/tasks"
	"github.com/quantumlife/cogmind/internal/vectors"
)

const (
	maxPendingActions = 10
	pendingDrain      = 5 // oldest entries dropped on overflow

	regulateSpacing   = 2 * time.Second
	goalPassSpacing   = 10 * time.Second
	reflectionSpacing = 120 * time.Second

	staleAttentionAge = 10 * time.Minute
)

// Options carries the collaborators a mind may run with. Everything
// except Config is optional; a nil field disables that capability and
// nothing else.
type Options struct {
	Config config.MindConfig

	Collaborator *llm.Collaborator
	Thoughts     *storage.ThoughtStore
	Goals        *storage.GoalStore
	Affects      *storage.AffectStore
	Embedder     *embeddings.Service
	Vectors      *vectors.Store
}

// Mind is the supervisor: one of each cognitive container plus the
// periodic loops that keep them moving between user turns.
type Mind struct {
	affect    *affect.Core
	metacog   *metacog.Monitor
	goals     *goals.System
	attention *attention.System
	journal   *journal.Journal
	scheduler *tasks.Scheduler
	tracker   *health.Tracker

	collab    *llm.Collaborator
	thoughts  *storage.ThoughtStore
	goalStore *storage.GoalStore
	affects   *storage.AffectStore
	embedder  *embeddings.Service
	vectors   *vectors.Store

	cfg config.MindConfig
	log *logging.Logger

	// Derived signals and loop bookkeeping. Held briefly, never across
	// container calls that block.
	mu             sync.RWMutex
	mentalActivity float64
	introspection  float64
	pendingActions []string
	lastRegulate   time.Time
	lastThought    time.Time
	lastGoalPass   time.Time
	lastReflection time.Time
	lastArchive    time.Time

	onThought func(journal.Activity)

	// rng is shared by the thought, goal, and health loops. math/rand
	// sources are not goroutine safe; rngMu serializes access.
	rngMu sync.Mutex
	rng   *rand.Rand

	now    func() time.Time
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New assembles a mind. It does not start any loops; call Start.
func New(opts Options) *Mind {
	return &Mind{
		affect:    affect.NewCore(),
		metacog:   metacog.NewMonitor(),
		goals:     goals.NewSystem(),
		attention: attention.NewSystem(),
		journal:   journal.New(),
		scheduler: tasks.NewSchedulerWithCap(opts.Config.MaxConcurrentTasks),
		tracker:   health.NewTracker(),

		collab:    opts.Collaborator,
		thoughts:  opts.Thoughts,
		goalStore: opts.Goals,
		affects:   opts.Affects,
		embedder:  opts.Embedder,
		vectors:   opts.Vectors,

		cfg: opts.Config,
		log: logging.WithField("component", "mind"),

		mentalActivity: 0.4,
		introspection:  0.3,

		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
}

// Start launches the periodic loops. They run until the context is
// cancelled or Stop is called.
func (m *Mind) Start(ctx context.Context) {
	ctx, m.cancel = context.WithCancel(ctx)

	loops := []struct {
		name     string
		interval time.Duration
		tick     func(context.Context)
	}{
		{"core", m.cfg.CoreTick(), m.coreTick},
		{"thought", m.cfg.ThoughtInterval(), m.thoughtTick},
		{"goal", m.cfg.GoalInterval(), m.goalTick},
		{"reflection", m.cfg.ReflectionInterval(), m.reflectionTick},
		{"consolidation", m.cfg.ConsolidationInterval(), m.consolidationTick},
		{"health", m.cfg.HealthInterval(), m.healthTick},
	}

	for _, l := range loops {
		m.wg.Add(1)
		go m.runLoop(ctx, l.name, l.interval, l.tick)
	}

	m.log.Info("mind started: %d loops running", len(loops))
}

// Stop cancels the loops. Wait joins them.
func (m *Mind) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
}

// Wait blocks until every loop has exited.
func (m *Mind) Wait() {
	m.wg.Wait()
}

func (m *Mind) runLoop(ctx context.Context, name string, interval time.Duration, tick func(context.Context)) {
	defer m.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Debug("%s loop stopped", name)
			return
		case <-ticker.C:
			tick(ctx)
		}
	}
}

// recomputeSignals folds the container snapshots into the two derived
// signals with exponential smoothing.
func (m *Mind) recomputeSignals() {
	st := m.affect.Snapshot()
	mc := m.metacog.Snapshot()
	active := float64(m.goals.ActiveCount())

	target := 0.4*st.Arousal + 0.3*mc.CognitiveLoad + 0.3*math.Min(1, active/10)

	m.mu.Lock()
	m.mentalActivity = clampRange(0.8*m.mentalActivity+0.2*target, 0.1, 1.0)
	m.introspection = 0.9*m.introspection + 0.1*mc.SelfAwareness
	m.mu.Unlock()
}

// OnThought registers a listener invoked for every thought the loops
// record. Called from loop goroutines; the listener must not block.
func (m *Mind) OnThought(fn func(journal.Activity)) {
	m.mu.Lock()
	m.onThought = fn
	m.mu.Unlock()
}

// recordThought journals an activity and notifies the listener.
func (m *Mind) recordThought(a journal.Activity) {
	m.journal.Record(a)
	m.mu.RLock()
	fn := m.onThought
	m.mu.RUnlock()
	if fn != nil {
		fn(a)
	}
}

// MentalActivityLevel reports how busy the mind currently is, 0.1..1.
func (m *Mind) MentalActivityLevel() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mentalActivity
}

// IntrospectionTendency reports the smoothed pull toward self-directed
// thought.
func (m *Mind) IntrospectionTendency() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.introspection
}

func (m *Mind) randFloat() float64 {
	m.rngMu.Lock()
	defer m.rngMu.Unlock()
	return m.rng.Float64()
}

func (m *Mind) randIntn(n int) int {
	m.rngMu.Lock()
	defer m.rngMu.Unlock()
	return m.rng.Intn(n)
}

func clampRange(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
