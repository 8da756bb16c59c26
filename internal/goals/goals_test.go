package goals

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/quantumlife/cogmind/internal/affect"
	"github.com/quantumlife/cogmind/internal/logging"
)

// A state energetic and novel enough to motivate any category used below.
var eagerState = affect.State{Valence: 0.6, Arousal: 0.7, Dominance: 0.3, Novelty: 0.6}

func TestMotivation_PerCategory(t *testing.T) {
	tests := []struct {
		name     string
		state    affect.State
		category Category
		wantMin  float64
		wantMax  float64
	}{
		{"novelty drives epistemic", affect.State{Arousal: 0.8, Novelty: 0.8}, Epistemic, 0.7, 1},
		{"flat state starves epistemic", affect.State{}, Epistemic, 0, 0.1},
		{"positive valence drives social", affect.State{Valence: 0.8, Arousal: 0.3}, Social, 0.7, 1},
		{"stress drives homeostatic", affect.State{Valence: -0.6, Arousal: 0.9}, Homeostatic, 0.9, 1},
		{"contentment starves homeostatic", affect.State{Valence: 0.9, Arousal: 0.1}, Homeostatic, 0, 0.2},
		{"joy plus energy drives creative", affect.State{Valence: 0.7, Arousal: 0.7}, Creative, 0.6, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Motivation(tt.state, tt.category)
			if got < tt.wantMin || got > tt.wantMax {
				t.Errorf("Motivation(%v) = %v, want in [%v,%v]", tt.category, got, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestSystem_Form_GatedByMotivation(t *testing.T) {
	s := NewSystem()

	if _, ok := s.Form("learn everything", Epistemic, 0.8, affect.State{}); ok {
		t.Error("flat state should not motivate an epistemic goal")
	}
	id, ok := s.Form("learn everything", Epistemic, 0.8, eagerState)
	if !ok || id == "" {
		t.Fatal("eager state should form the goal")
	}
	if n := s.ActiveCount(); n != 1 {
		t.Errorf("active = %d, want 1", n)
	}
}

func TestSystem_Form_AtCapAbandonsWeakest(t *testing.T) {
	s := NewSystem()
	s.maxActive = 2

	idHigh, _ := s.Form("high", Epistemic, 0.9, eagerState)
	idMid, _ := s.Form("mid", Epistemic, 0.5, eagerState)
	idLow, ok := s.Form("low", Epistemic, 0.2, eagerState)
	if !ok {
		t.Fatal("formation at cap should still adopt after abandoning the weakest")
	}

	byID := make(map[string]Goal)
	for _, g := range s.AllGoals() {
		byID[g.ID] = g
	}
	if byID[idHigh].Status != StatusActive {
		t.Errorf("high goal status = %s, want active", byID[idHigh].Status)
	}
	if byID[idMid].Status != StatusAbandoned {
		t.Errorf("mid goal status = %s, want abandoned (weakest at formation time)", byID[idMid].Status)
	}
	if byID[idLow].Status != StatusActive {
		t.Errorf("new goal status = %s, want active", byID[idLow].Status)
	}
	if n := s.ActiveCount(); n != 2 {
		t.Errorf("active = %d, want cap 2", n)
	}
}

func TestSystem_UpdateProgress_CompletesAndClearsFocus(t *testing.T) {
	s := NewSystem()
	id, _ := s.Form("finish the essay", Creative, 0.8, eagerState)

	if got := s.DetermineFocus(); got != id {
		t.Fatalf("focus = %q, want %q", got, id)
	}

	s.UpdateProgress(id, 0.6)
	if _, ok := s.Focus(); !ok {
		t.Error("partially complete goal should stay focused")
	}

	s.UpdateProgress(id, 0.6)
	if _, ok := s.Focus(); ok {
		t.Error("completed goal should clear the focus")
	}
	if n := len(s.Achievements()); n != 1 {
		t.Errorf("achievements = %d, want 1", n)
	}
	if n := s.ActiveCount(); n != 0 {
		t.Errorf("active = %d, want 0", n)
	}
}

func TestSystem_UpdateProgress_UnknownIDIsNoop(t *testing.T) {
	s := NewSystem()
	s.UpdateProgress("no-such-goal", 0.5)
	if n := len(s.Achievements()); n != 0 {
		t.Errorf("achievements = %d, want 0", n)
	}
}

func TestSystem_DetermineFocus_PicksHighestImportance(t *testing.T) {
	s := NewSystem()
	s.Form("minor curiosity", Epistemic, 0.2, eagerState)
	idBig, _ := s.Form("major pursuit", Epistemic, 0.95, eagerState)

	if got := s.DetermineFocus(); got != idBig {
		t.Errorf("focus = %q, want the high-priority goal %q", got, idBig)
	}
	g, ok := s.Focus()
	if !ok || g.Description != "major pursuit" {
		t.Errorf("Focus() = %+v, %v", g, ok)
	}
}

func TestSystem_DetermineFocus_EmptyClearsFocus(t *testing.T) {
	s := NewSystem()
	if got := s.DetermineFocus(); got != "" {
		t.Errorf("focus on empty system = %q, want empty", got)
	}
}

func TestGoal_Importance_DeadlinePressure(t *testing.T) {
	now := time.Now()
	g := New("ship it", SelfDevelopment, 0.5)

	relaxed := g.Importance(now)

	soon := now.Add(30 * time.Minute)
	g.Deadline = &soon
	urgent := g.Importance(now)

	if urgent <= relaxed {
		t.Errorf("imminent deadline should raise importance: %v <= %v", urgent, relaxed)
	}
}

func TestSystem_DesiredActions(t *testing.T) {
	s := NewSystem()

	actions := s.DesiredActions()
	if len(actions) == 0 {
		t.Fatal("unfocused system should still suggest meta-actions")
	}

	s.Form("understand birdsong", Epistemic, 0.8, eagerState)
	s.DetermineFocus()
	actions = s.DesiredActions()
	found := false
	for _, a := range actions {
		if strings.Contains(a, "understand birdsong") {
			found = true
		}
	}
	if !found {
		t.Errorf("actions should reference the focused goal, got %v", actions)
	}
}

func TestSystem_ActiveGoals_SortedByImportance(t *testing.T) {
	s := NewSystem()
	s.Form("a", Epistemic, 0.3, eagerState)
	s.Form("b", Epistemic, 0.9, eagerState)
	s.Form("c", Epistemic, 0.6, eagerState)

	got := s.ActiveGoals()
	if len(got) != 3 {
		t.Fatalf("active goals = %d, want 3", len(got))
	}
	now := time.Now()
	for i := 1; i < len(got); i++ {
		if got[i-1].Importance(now) < got[i].Importance(now) {
			t.Errorf("goals out of order at %d: %v < %v", i,
				got[i-1].Importance(now), got[i].Importance(now))
		}
	}
}

func TestSystem_Summary(t *testing.T) {
	s := NewSystem()
	s.Form("read more", Epistemic, 0.7, eagerState)
	s.DetermineFocus()
	got := s.Summary()
	if !strings.Contains(got, "1 active") || !strings.Contains(got, "read more") {
		t.Errorf("summary = %q", got)
	}
}

func TestUpdateProgress_CompletionLogsDescriptionVerbatim(t *testing.T) {
	var buf bytes.Buffer
	logging.SetOutput(&buf)
	defer logging.SetOutput(os.Stdout)

	s := NewSystem()
	id, ok := s.Form("give 100% attention to this", Creative, 0.5, eagerState)
	if !ok {
		t.Fatal("formation should succeed for an eager state")
	}

	s.UpdateProgress(id, 1.0)

	if out := buf.String(); !strings.Contains(out, "give 100% attention to this") {
		t.Errorf("completion log garbled the description: %q", out)
	}
}

func TestAllGoals_IncludesEveryStatus(t *testing.T) {
	s := NewSystem()

	id1, _ := s.Form("first", Creative, 0.5, eagerState)
	s.Form("second", Epistemic, 0.5, eagerState)
	s.UpdateProgress(id1, 1.0)

	all := s.AllGoals()
	if len(all) != 2 {
		t.Fatalf("AllGoals() = %d goals, want 2 regardless of status", len(all))
	}
	statuses := map[Status]bool{}
	for _, g := range all {
		statuses[g.Status] = true
	}
	if !statuses[StatusCompleted] || !statuses[StatusActive] {
		t.Errorf("statuses = %v, want both active and completed present", statuses)
	}
}
