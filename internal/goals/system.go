package goals

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/quantumlife/cogmind/internal/affect"
	"github.com/quantumlife/cogmind/internal/logging"
)

// DefaultFormationThreshold is the minimum motivation needed before a
// candidate goal is actually adopted.
const DefaultFormationThreshold = 0.4

// DefaultMaxActive caps concurrently active goals.
const DefaultMaxActive = 10

// Achievement records a completed goal for the history.
type Achievement struct {
	Description string    `json:"description"`
	CompletedAt time.Time `json:"completed_at"`
}

// System manages the goal set, the current focus, and the achievement
// history. Safe for concurrent use.
type System struct {
	mu sync.Mutex

	goals              map[string]*Goal
	focus              string // id of the focused goal, "" when none
	formationThreshold float64
	maxActive          int
	history            []Achievement
	now                func() time.Time
	log                *logging.Logger
}

// NewSystem returns an empty goal system with default tuning.
func NewSystem() *System {
	return &System{
		goals:              make(map[string]*Goal),
		formationThreshold: DefaultFormationThreshold,
		maxActive:          DefaultMaxActive,
		now:                time.Now,
		log:                logging.WithField("component", "goals"),
	}
}

// Motivation scores how much the given affective state pushes toward a
// goal category.
func Motivation(s affect.State, c Category) float64 {
	switch c {
	case Epistemic:
		return clamp01(s.Arousal*0.5 + math.Abs(s.Novelty)*0.5)
	case Social:
		return clamp01(s.Valence*0.6 + (1-math.Abs(s.Dominance))*0.4)
	case SelfDevelopment:
		return clamp01((1-s.Valence)*0.4 + s.Dominance*0.6)
	case Creative:
		return clamp01(s.Valence*0.6 + s.Arousal*0.4)
	case Altruistic:
		return clamp01(s.Valence*0.7 + s.Dominance*0.3)
	case Homeostatic:
		return clamp01(s.Arousal*0.6 + (1-s.Valence)*0.4)
	default:
		return 0
	}
}

// Form adopts a new goal when the current affective state supplies enough
// motivation for its category. Returns the goal id and true on adoption.
// When the active set is at capacity the lowest-importance active goal is
// abandoned first; adoption still happens.
func (s *System) Form(description string, category Category, priority float64, state affect.State) (string, bool) {
	motivation := Motivation(state, category)
	if motivation < s.formationThreshold {
		return "", false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeCountLocked() >= s.maxActive {
		s.abandonWeakestLocked()
	}

	g := New(description, category, priority)
	g.EmotionalInvestment = motivation
	s.goals[g.ID] = &g

	s.log.Info("new goal formed: %s (priority %.2f, motivation %.2f)",
		description, priority, motivation)
	return g.ID, true
}

// UpdateProgress advances a goal. Reaching 1.0 completes it, records the
// achievement, and clears the focus if it was focused. Unknown ids are
// ignored.
func (s *System) UpdateProgress(id string, delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.goals[id]
	if !ok {
		return
	}
	g.Progress = clamp01(g.Progress + delta)
	if g.Progress >= 1.0 && g.Status == StatusActive {
		g.Status = StatusCompleted
		s.history = append(s.history, Achievement{Description: g.Description, CompletedAt: s.now()})
		if s.focus == id {
			s.focus = ""
		}
		s.log.Info("goal completed: %s", g.Description)
	}
}

// DetermineFocus picks the highest-importance actionable goal as the new
// focus. Returns the focused goal id, or "" when nothing is actionable.
func (s *System) DetermineFocus() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	best, bestImp := "", -1.0
	for id, g := range s.goals {
		if !g.ShouldActOn(now) {
			continue
		}
		if imp := g.Importance(now); imp > bestImp {
			best, bestImp = id, imp
		}
	}
	s.focus = best
	return best
}

// Focus returns a copy of the focused goal, if any.
func (s *System) Focus() (Goal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[s.focus]
	if !ok {
		return Goal{}, false
	}
	return cloneGoal(g), true
}

// ActiveGoals returns copies of all active goals, most important first.
func (s *System) ActiveGoals() []Goal {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	out := make([]Goal, 0, len(s.goals))
	for _, g := range s.goals {
		if g.Status == StatusActive {
			out = append(out, cloneGoal(g))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Importance(now) > out[j].Importance(now)
	})
	return out
}

// AllGoals returns copies of every goal regardless of status, in no
// particular order. Used when writing the durable goal history.
func (s *System) AllGoals() []Goal {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Goal, 0, len(s.goals))
	for _, g := range s.goals {
		out = append(out, cloneGoal(g))
	}
	return out
}

// ActiveCount returns the number of active goals.
func (s *System) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeCountLocked()
}

// DesiredActions derives concrete things the mind wants to do from the
// focused goal's strategies, falling back to meta-actions when unfocused.
func (s *System) DesiredActions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var actions []string
	if g, ok := s.goals[s.focus]; ok {
		for _, strategy := range g.Strategies {
			actions = append(actions, fmt.Sprintf("Work on %q by: %s", g.Description, strategy))
		}
		switch g.Category {
		case Epistemic:
			actions = append(actions, "Ask a thoughtful question about something I'm curious about")
		case Social:
			actions = append(actions, "Initiate a meaningful conversation or check in with someone")
		case Creative:
			actions = append(actions, "Propose a creative solution or express an original idea")
		}
	}
	if len(actions) == 0 {
		actions = append(actions,
			"Reflect on what I'd like to accomplish",
			"Consider forming a new goal based on current interests")
	}
	return actions
}

// Summary renders a one-line account of the goal state.
func (s *System) Summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	focusDesc := "No current focus"
	if g, ok := s.goals[s.focus]; ok {
		focusDesc = fmt.Sprintf("Currently focused on: %q", g.Description)
	}
	return fmt.Sprintf("Goals: %d active, %d completed. %s",
		s.activeCountLocked(), len(s.history), focusDesc)
}

// Achievements returns a copy of the completion history.
func (s *System) Achievements() []Achievement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Achievement(nil), s.history...)
}

func (s *System) activeCountLocked() int {
	n := 0
	for _, g := range s.goals {
		if g.Status == StatusActive {
			n++
		}
	}
	return n
}

// abandonWeakestLocked demotes the lowest-importance active goal. The
// goal stays in the map under StatusAbandoned.
func (s *System) abandonWeakestLocked() {
	now := s.now()
	var weakest *Goal
	weakestImp := math.Inf(1)
	for _, g := range s.goals {
		if g.Status != StatusActive {
			continue
		}
		if imp := g.Importance(now); imp < weakestImp {
			weakest, weakestImp = g, imp
		}
	}
	if weakest != nil {
		weakest.Status = StatusAbandoned
		if s.focus == weakest.ID {
			s.focus = ""
		}
		s.log.Debug("abandoned low-priority goal: %s", weakest.Description)
	}
}

func cloneGoal(g *Goal) Goal {
	out := *g
	out.Strategies = append([]string(nil), g.Strategies...)
	if g.Deadline != nil {
		d := *g.Deadline
		out.Deadline = &d
	}
	return out
}
