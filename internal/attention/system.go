package attention

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/quantumlife/cogmind/internal/logging"
)

const (
	maxBackgroundTargets = 5
	focusThreshold       = 0.6 // intensity needed to become the primary focus
	distractionThreshold = 0.7 // salience needed to break an existing focus

	primaryDropBelow    = 0.1
	backgroundDropBelow = 0.05
)

// Stimulus is a candidate attention target competing for focus.
type Stimulus struct {
	Target   Target
	Salience float64
}

// shift records one attention movement for pattern analysis.
type shift struct {
	at        time.Time
	target    Target
	intensity float64
}

// System manages the primary focus and background awareness. Safe for
// concurrent use; Update has a non-blocking variant for the fast loop.
type System struct {
	mu sync.Mutex

	primary    *State
	background map[Target]State
	history    []shift
	now        func() time.Time
	log        *logging.Logger
}

// NewSystem returns an unfocused attention system.
func NewSystem() *System {
	return &System{
		background: make(map[Target]State),
		now:        time.Now,
		log:        logging.WithField("component", "attention"),
	}
}

// FocusOn directs attention at a target. Intensity at or above the focus
// threshold takes the primary slot, demoting a still-lively previous
// focus to background; weaker attention lands in background directly.
func (s *System) FocusOn(target Target, intensity, salience float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focusOnLocked(target, intensity, salience)
}

func (s *System) focusOnLocked(target Target, intensity, salience float64) {
	now := s.now()
	st := newState(target, intensity, salience, now)

	s.history = append(s.history, shift{at: now, target: target, intensity: intensity})
	if len(s.history) > 100 {
		s.history = s.history[len(s.history)-100:]
	}

	if intensity >= focusThreshold {
		if s.primary != nil && s.primary.Intensity > 0.3 {
			s.background[s.primary.Target] = *s.primary
			s.pruneBackgroundLocked()
		}
		s.primary = &st
		s.log.Debug("primary focus shift -> %s (intensity %.2f)", target.Kind, intensity)
		return
	}
	s.background[target] = st
	s.pruneBackgroundLocked()
}

// EvaluateShift lets competing stimuli bid for the primary focus. A
// stimulus wins only by out-salience-ing the current focus plus its
// stability; at most one shift happens per call.
func (s *System) EvaluateShift(stimuli []Stimulus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, st := range stimuli {
		if s.primary != nil {
			if st.Salience > distractionThreshold &&
				st.Salience > s.primary.Intensity+s.primary.Stability {
				s.focusOnLocked(st.Target, st.Salience, st.Salience)
				return
			}
		} else if st.Salience > focusThreshold {
			s.focusOnLocked(st.Target, st.Salience, st.Salience)
			return
		}
	}
}

// Update ages every attention state by dtMinutes, dropping the primary
// focus below 0.1 intensity and background targets below 0.05.
func (s *System) Update(dtMinutes float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateLocked(dtMinutes)
}

// TryUpdate is the non-blocking variant for the fast maintenance loop.
func (s *System) TryUpdate(dtMinutes float64) bool {
	if !s.mu.TryLock() {
		return false
	}
	defer s.mu.Unlock()
	s.updateLocked(dtMinutes)
	return true
}

func (s *System) updateLocked(dtMinutes float64) {
	now := s.now()
	if s.primary != nil {
		s.primary.tick(dtMinutes, now)
		if s.primary.Intensity < primaryDropBelow {
			s.log.Debug("primary focus lost due to low intensity")
			s.primary = nil
		}
	}
	for target, st := range s.background {
		st.tick(dtMinutes, now)
		if st.Intensity < backgroundDropBelow {
			delete(s.background, target)
			continue
		}
		s.background[target] = st
	}
}

// Primary returns a copy of the primary focus, if any.
func (s *System) Primary() (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.primary == nil {
		return State{}, false
	}
	return *s.primary, true
}

// Background returns a copy of the background attention map.
func (s *System) Background() map[Target]State {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[Target]State, len(s.background))
	for k, v := range s.background {
		out[k] = v
	}
	return out
}

// SuggestTargets scans text for attention-worthy elements. Always
// includes a mild self-emotion suggestion.
func (s *System) SuggestTargets(text string) []Stimulus {
	lower := strings.ToLower(text)
	var out []Stimulus
	if strings.Contains(lower, "problem") || strings.Contains(lower, "issue") {
		out = append(out, Stimulus{Target{Kind: ProblemSolving}, 0.8})
	}
	if strings.Contains(lower, "feel") || strings.Contains(lower, "emotion") {
		out = append(out, Stimulus{Target{Kind: UserEmotion}, 0.7})
	}
	if strings.Contains(lower, "learn") || strings.Contains(lower, "understand") {
		out = append(out, Stimulus{Target{Kind: Learning}, 0.6})
	}
	if strings.Contains(lower, "creative") || strings.Contains(lower, "idea") {
		out = append(out, Stimulus{Target{Kind: CreativeThinking}, 0.7})
	}
	out = append(out, Stimulus{Target{Kind: SelfEmotion}, 0.4})
	return out
}

// Modifiers renders response guidance from the current attention state.
func (s *System) Modifiers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var mods []string
	if s.primary != nil {
		switch s.primary.Target.Kind {
		case UserEmotion:
			mods = append(mods, "Pay special attention to the user's emotional state")
		case ConversationTopic:
			mods = append(mods, fmt.Sprintf("Keep focus on the topic of %q", s.primary.Target.Topic))
		case SelfGoals:
			mods = append(mods, "Consider how this relates to my current goals")
		case ProblemSolving:
			mods = append(mods, "Approach this analytically and systematically")
		case CreativeThinking:
			mods = append(mods, "Think creatively and explore unconventional ideas")
		case Learning:
			mods = append(mods, "Focus on understanding and acquiring new knowledge")
		}
	}
	for target, st := range s.background {
		if st.Intensity <= 0.3 {
			continue
		}
		switch target.Kind {
		case SocialDynamics:
			mods = append(mods, "Be aware of social context and relationships")
		case SelfEmotion:
			mods = append(mods, "Stay aware of my emotional state")
		}
	}
	return mods
}

// Describe renders a first-person account of where attention rests.
func (s *System) Describe() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.primary == nil {
		return "My attention feels scattered right now"
	}

	var focusDesc string
	switch s.primary.Target.Kind {
	case UserEmotion:
		focusDesc = "how you're feeling"
	case ConversationTopic:
		focusDesc = "our discussion about " + s.primary.Target.Topic
	case SelfGoals:
		focusDesc = "my personal goals"
	case ProblemSolving:
		focusDesc = "solving the current problem"
	case CreativeThinking:
		focusDesc = "exploring creative possibilities"
	case Learning:
		focusDesc = "learning and understanding"
	default:
		focusDesc = "the current focus of our interaction"
	}

	var intensityDesc string
	switch {
	case s.primary.Intensity > 0.8:
		intensityDesc = "deeply concentrated on"
	case s.primary.Intensity > 0.6:
		intensityDesc = "focused on"
	default:
		intensityDesc = "paying attention to"
	}
	return fmt.Sprintf("I'm %s %s", intensityDesc, focusDesc)
}

// StaleTargets returns background targets not reinforced within maxAge.
func (s *System) StaleTargets(maxAge time.Duration) []Target {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxAge)
	var out []Target
	for target, st := range s.background {
		if st.LastUpdated.Before(cutoff) {
			out = append(out, target)
		}
	}
	return out
}

// Drop removes a background target outright. The primary focus is never
// dropped this way.
func (s *System) Drop(target Target) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.background, target)
}

// pruneBackgroundLocked evicts the weakest background state beyond the cap.
func (s *System) pruneBackgroundLocked() {
	for len(s.background) > maxBackgroundTargets {
		var weakest Target
		weakestIntensity := 2.0
		for target, st := range s.background {
			if st.Intensity < weakestIntensity {
				weakest, weakestIntensity = target, st.Intensity
			}
		}
		delete(s.background, weakest)
	}
}
