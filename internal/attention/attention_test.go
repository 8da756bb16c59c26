package attention

import (
	"fmt"
	"strings"
	"testing"
)

func TestSystem_FocusOn_IntenseTakesPrimary(t *testing.T) {
	s := NewSystem()
	s.FocusOn(Target{Kind: ProblemSolving}, 0.8, 0.7)

	p, ok := s.Primary()
	if !ok {
		t.Fatal("intense focus should occupy the primary slot")
	}
	if p.Target.Kind != ProblemSolving {
		t.Errorf("primary = %v, want problem_solving", p.Target.Kind)
	}
}

func TestSystem_FocusOn_WeakGoesToBackground(t *testing.T) {
	s := NewSystem()
	s.FocusOn(Target{Kind: SelfEmotion}, 0.4, 0.4)

	if _, ok := s.Primary(); ok {
		t.Error("weak focus should not take the primary slot")
	}
	if _, ok := s.Background()[Target{Kind: SelfEmotion}]; !ok {
		t.Error("weak focus missing from background")
	}
}

func TestSystem_FocusOn_DemotesLivelyPrimaryToBackground(t *testing.T) {
	s := NewSystem()
	s.FocusOn(Target{Kind: Learning}, 0.9, 0.8)
	s.FocusOn(Target{Kind: UserEmotion}, 0.85, 0.85)

	p, _ := s.Primary()
	if p.Target.Kind != UserEmotion {
		t.Errorf("primary = %v, want user_emotion", p.Target.Kind)
	}
	if _, ok := s.Background()[Target{Kind: Learning}]; !ok {
		t.Error("previous lively focus should be demoted to background, not lost")
	}
}

func TestSystem_BackgroundBounded(t *testing.T) {
	s := NewSystem()
	for i := 0; i < maxBackgroundTargets+3; i++ {
		// Distinct topics, rising intensity, all below the focus threshold.
		s.FocusOn(Topic(fmt.Sprintf("topic-%d", i)), 0.2+float64(i)*0.04, 0.5)
	}
	bg := s.Background()
	if len(bg) != maxBackgroundTargets {
		t.Fatalf("background = %d targets, want cap %d", len(bg), maxBackgroundTargets)
	}
	// The weakest (earliest, lowest-intensity) topics are the evicted ones.
	if _, ok := bg[Topic("topic-0")]; ok {
		t.Error("weakest background target should have been evicted")
	}
	if _, ok := bg[Topic("topic-7")]; !ok {
		t.Error("strongest background target should have survived")
	}
}

func TestSystem_EvaluateShift_RequiresDistractionMargin(t *testing.T) {
	s := NewSystem()
	s.FocusOn(Target{Kind: Learning}, 0.8, 0.8) // stability 0.5

	// Salient, but not beyond intensity+stability: focus holds.
	s.EvaluateShift([]Stimulus{{Target{Kind: UserEmotion}, 0.9}})
	p, _ := s.Primary()
	if p.Target.Kind != Learning {
		t.Errorf("focus broke on an insufficient distraction: %v", p.Target.Kind)
	}

	// Overwhelming salience wins.
	s.EvaluateShift([]Stimulus{{Target{Kind: UserEmotion}, 1.4}})
	p, _ = s.Primary()
	if p.Target.Kind != UserEmotion {
		t.Errorf("overwhelming stimulus should capture focus, got %v", p.Target.Kind)
	}
}

func TestSystem_EvaluateShift_FillsEmptyFocus(t *testing.T) {
	s := NewSystem()
	s.EvaluateShift([]Stimulus{{Target{Kind: CreativeThinking}, 0.7}})
	p, ok := s.Primary()
	if !ok || p.Target.Kind != CreativeThinking {
		t.Errorf("unfocused system should adopt a salient stimulus, got %+v ok=%v", p, ok)
	}
}

func TestSystem_Update_DecaysAndDrops(t *testing.T) {
	s := NewSystem()
	s.FocusOn(Target{Kind: Learning}, 0.7, 0.7)
	s.FocusOn(Topic("weather"), 0.3, 0.3)

	before, _ := s.Primary()
	s.Update(1)
	after, _ := s.Primary()
	if after.Intensity >= before.Intensity {
		t.Errorf("intensity did not decay: %v -> %v", before.Intensity, after.Intensity)
	}
	if after.Duration != 1 {
		t.Errorf("duration = %v, want 1", after.Duration)
	}

	// Enough elapsed minutes to push everything under the drop floors.
	for i := 0; i < 300; i++ {
		s.Update(1)
	}
	if _, ok := s.Primary(); ok {
		t.Error("decayed primary focus should be dropped")
	}
	if n := len(s.Background()); n != 0 {
		t.Errorf("decayed background should be empty, has %d", n)
	}
}

func TestSystem_Update_StabilityGrowsUnderSustainedFocus(t *testing.T) {
	s := NewSystem()
	s.FocusOn(Target{Kind: ProblemSolving}, 0.9, 0.9)
	s.Update(2)
	p, _ := s.Primary()
	if p.Stability <= 0.5 {
		t.Errorf("stability should grow while intensity > 0.5, got %v", p.Stability)
	}
}

func TestSystem_SuggestTargets(t *testing.T) {
	s := NewSystem()
	got := s.SuggestTargets("I have a problem understanding how you feel")

	kinds := make(map[TargetKind]float64)
	for _, st := range got {
		kinds[st.Target.Kind] = st.Salience
	}
	for _, want := range []TargetKind{ProblemSolving, UserEmotion, Learning, SelfEmotion} {
		if _, ok := kinds[want]; !ok {
			t.Errorf("suggestions missing %v: %v", want, got)
		}
	}
	if kinds[SelfEmotion] != 0.4 {
		t.Errorf("self-emotion salience = %v, want the standing 0.4", kinds[SelfEmotion])
	}
}

func TestSystem_Describe(t *testing.T) {
	s := NewSystem()
	if got := s.Describe(); !strings.Contains(got, "scattered") {
		t.Errorf("unfocused description = %q", got)
	}

	s.FocusOn(Topic("music"), 0.9, 0.9)
	got := s.Describe()
	if !strings.Contains(got, "deeply concentrated") || !strings.Contains(got, "music") {
		t.Errorf("focused description = %q", got)
	}
}

func TestSystem_Modifiers(t *testing.T) {
	s := NewSystem()
	s.FocusOn(Target{Kind: CreativeThinking}, 0.8, 0.8)
	s.FocusOn(Target{Kind: SocialDynamics}, 0.4, 0.4)

	mods := s.Modifiers()
	joined := strings.Join(mods, "\n")
	if !strings.Contains(joined, "creatively") {
		t.Errorf("modifiers missing primary guidance: %v", mods)
	}
	if !strings.Contains(joined, "social context") {
		t.Errorf("modifiers missing background guidance: %v", mods)
	}
}
