package affect

import "fmt"

// Summary returns a short first-person mood phrase synthesized from the
// valence/arousal/dominance octant.
func (s State) Summary() string {
	v, a, d := s.Valence, s.Arousal, s.Dominance
	switch {
	case v > 0.4 && a > 0.45:
		return "elated and proud"
	case v > 0.4:
		return "pleased and content"
	case v < -0.5 && a > 0.5 && d > 0.4:
		return "indignant and assertive"
	case v < -0.5 && a > 0.5:
		return "anxious and distressed"
	case v < -0.5 && d < -0.4:
		return "dejected and powerless"
	case v < -0.5:
		return "somber and disappointed"
	case a > 0.6:
		return "alert and focused"
	case a < 0.25:
		return "calm and relaxed"
	default:
		return "calmly neutral"
	}
}

// PromptText renders the state as instructional text for the turn prompt.
func (s State) PromptText() string {
	return fmt.Sprintf(
		"Your current internal affective state is described by these dimensions:\n"+
			"- Valence (Pleasure): %s (%.2f)\n"+
			"- Arousal (Energy): %s (%.2f)\n"+
			"- Dominance (Control): %s (%.2f)\n"+
			"- Novelty (Surprise): %s (%.2f)\n\n"+
			"Overall, this makes you feel %s. Subtly reflect this state in your response.",
		describeValence(s.Valence), s.Valence,
		describeArousal(s.Arousal), s.Arousal,
		describeDominance(s.Dominance), s.Dominance,
		describeNovelty(s.Novelty), s.Novelty,
		s.Summary(),
	)
}

func describeValence(v float64) string {
	switch {
	case v > 0.7:
		return "very positive"
	case v > 0.3:
		return "positive"
	case v < -0.7:
		return "very negative"
	case v < -0.3:
		return "negative"
	default:
		return "neutral"
	}
}

func describeArousal(a float64) string {
	switch {
	case a > 0.8:
		return "very high energy"
	case a > 0.6:
		return "high energy"
	case a < 0.2:
		return "very low energy"
	case a < 0.4:
		return "low energy"
	default:
		return "moderate energy"
	}
}

func describeDominance(d float64) string {
	switch {
	case d > 0.7:
		return "very high control"
	case d > 0.3:
		return "in control"
	case d < -0.7:
		return "very low control"
	case d < -0.3:
		return "lacking control"
	default:
		return "neutral control"
	}
}

func describeNovelty(n float64) string {
	switch {
	case n > 0.7:
		return "highly surprising"
	case n > 0.3:
		return "surprising"
	case n < -0.7:
		return "highly expected"
	case n < -0.3:
		return "expected"
	default:
		return "neutral"
	}
}
