package affect

import (
	"strings"
	"unicode"
)

// maxMilestones bounds the emotional milestone list; oldest dropped first.
const maxMilestones = 20

// UserProfile holds what the mind has learned about its interlocutor.
type UserProfile struct {
	Name        string            `json:"name,omitempty"`
	Preferences map[string]string `json:"preferences,omitempty"`
}

// Personality is the long-term baseline the affective state decays toward.
// Reflection may replace it wholesale.
type Personality struct {
	Baseline State `json:"baseline_state"`
}

// Memory is the snapshot handed to the LLM collaborator: user profile,
// interaction count, and significant emotional milestones.
type Memory struct {
	UserProfile         UserProfile `json:"user_profile"`
	InteractionCount    uint64      `json:"interaction_count"`
	EmotionalMilestones []string    `json:"emotional_milestones"`
	Personality         Personality `json:"personality"`
}

// NewMemory returns an empty memory with a neutral personality.
func NewMemory() Memory {
	return Memory{
		Personality: Personality{Baseline: Neutral()},
	}
}

// LearnFromPrompt scans a user utterance for a self-introduction and
// records the name if none is known yet.
func (m *Memory) LearnFromPrompt(prompt string) {
	if m.UserProfile.Name != "" {
		return
	}
	lower := strings.ToLower(prompt)
	idx := strings.Index(lower, "my name is")
	if idx < 0 {
		return
	}
	rest := strings.TrimSpace(prompt[idx+len("my name is"):])
	name := strings.FieldsFunc(rest, func(r rune) bool {
		return r == ' ' || r == ',' || r == '.'
	})
	if len(name) == 0 || name[0] == "" {
		return
	}
	runes := []rune(name[0])
	runes[0] = unicode.ToUpper(runes[0])
	m.UserProfile.Name = string(runes)
}

// RecordMilestone appends a significant emotional event, evicting the
// oldest entry beyond the cap.
func (m *Memory) RecordMilestone(details string) {
	m.EmotionalMilestones = append(m.EmotionalMilestones, details)
	if len(m.EmotionalMilestones) > maxMilestones {
		m.EmotionalMilestones = m.EmotionalMilestones[len(m.EmotionalMilestones)-maxMilestones:]
	}
}
