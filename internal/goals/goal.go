// Package goals implements goal formation, focus, and pursuit: the
// mind's capacity to want things and work toward them.
package goals

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies what kind of desire a goal expresses.
type Category string

const (
	Epistemic       Category = "epistemic"        // learning and understanding
	Social          Category = "social"           // connection and relationships
	SelfDevelopment Category = "self_development" // self-improvement
	Creative        Category = "creative"         // creative expression
	Altruistic      Category = "altruistic"       // helping others
	Homeostatic     Category = "homeostatic"      // stability and equilibrium
)

// Status tracks a goal through its lifecycle. Goals are never deleted;
// they move to a terminal status instead.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
	StatusPaused    Status = "paused"
	StatusFailed    Status = "failed"
)

// Goal is one objective the mind is pursuing.
type Goal struct {
	ID                  string     `json:"id"`
	Description         string     `json:"description"`
	Category            Category   `json:"category"`
	Priority            float64    `json:"priority"` // 0..1
	Urgency             float64    `json:"urgency"`  // 0..1
	Progress            float64    `json:"progress"` // 0..1
	Status              Status     `json:"status"`
	CreatedAt           time.Time  `json:"created_at"`
	Deadline            *time.Time `json:"deadline,omitempty"`
	Strategies          []string   `json:"strategies,omitempty"`
	EmotionalInvestment float64    `json:"emotional_investment"`
}

// New creates an active goal with a fresh id. Investment starts tied to
// priority until formation motivation overrides it.
func New(description string, category Category, priority float64) Goal {
	return Goal{
		ID:                  uuid.NewString(),
		Description:         description,
		Category:            category,
		Priority:            clamp01(priority),
		Urgency:             0.5,
		Status:              StatusActive,
		CreatedAt:           time.Now(),
		Strategies:          defaultStrategies(category),
		EmotionalInvestment: clamp01(priority),
	}
}

// Importance blends priority, urgency, investment, and deadline pressure.
func (g Goal) Importance(now time.Time) float64 {
	timeFactor := 0.5
	if g.Deadline != nil {
		switch left := g.Deadline.Sub(now); {
		case left < time.Hour:
			timeFactor = 1.0
		case left < 24*time.Hour:
			timeFactor = 0.8
		}
	}
	return clamp01(g.Priority*0.4 + g.Urgency*0.3 + g.EmotionalInvestment*0.2 + timeFactor*0.1)
}

// ShouldActOn reports whether the goal is worth acting on right now.
func (g Goal) ShouldActOn(now time.Time) bool {
	return g.Status == StatusActive && g.Importance(now) > 0.3
}

func defaultStrategies(c Category) []string {
	switch c {
	case Epistemic:
		return []string{
			"Ask clarifying questions",
			"Seek additional information sources",
			"Reflect on what I already know",
		}
	case Social:
		return []string{
			"Show genuine interest in others",
			"Share appropriate personal insights",
			"Practice empathetic listening",
		}
	case SelfDevelopment:
		return []string{
			"Identify specific areas for improvement",
			"Set measurable milestones",
			"Reflect on progress regularly",
		}
	case Creative:
		return []string{
			"Explore unconventional combinations",
			"Draw inspiration from diverse sources",
			"Embrace experimentation",
		}
	case Altruistic:
		return []string{
			"Understand others' needs deeply",
			"Offer help without being asked",
			"Provide value through my unique capabilities",
		}
	case Homeostatic:
		return []string{
			"Identify sources of instability",
			"Develop coping mechanisms",
			"Seek equilibrium gradually",
		}
	default:
		return nil
	}
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
