package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/quantumlife/cogmind/internal/affect"
	"github.com/quantumlife/cogmind/internal/health"
	"github.com/quantumlife/cogmind/internal/logging"
)

// CollaboratorConfig tunes the appraisal/reflection call discipline.
type CollaboratorConfig struct {
	Timeout        time.Duration // per-call wall-clock ceiling
	MaxRetries     int
	RetryDelay     time.Duration // doubled after each failed attempt
	RateLimitDelay time.Duration // pause after a 429 before retrying
}

// DefaultCollaboratorConfig mirrors the loop cadences: a call must fit
// comfortably inside one reflection interval.
func DefaultCollaboratorConfig() CollaboratorConfig {
	return CollaboratorConfig{
		Timeout:        30 * time.Second,
		MaxRetries:     3,
		RetryDelay:     time.Second,
		RateLimitDelay: 5 * time.Second,
	}
}

// Collaborator wraps the router with the two calls the cognitive loops
// make: emotional appraisal of a user turn and periodic deep reflection.
// Callers must never hold a container lock across these methods.
type Collaborator struct {
	router *Router
	cfg    CollaboratorConfig
	log    *logging.Logger
}

// NewCollaborator wires a collaborator over the given router.
func NewCollaborator(router *Router, cfg CollaboratorConfig) *Collaborator {
	if cfg.Timeout == 0 {
		cfg = DefaultCollaboratorConfig()
	}
	return &Collaborator{
		router: router,
		cfg:    cfg,
		log:    logging.WithField("component", "collaborator"),
	}
}

// EmotionResult is the parsed appraisal of a user utterance.
type EmotionResult struct {
	Emotion string            `json:"emotion"`
	Delta   affect.Delta      `json:"vadn"`
	Details map[string]string `json:"details,omitempty"`
}

// PersonalityUpdate is the parsed outcome of a deep reflection.
type PersonalityUpdate struct {
	Baseline affect.State `json:"baseline_state"`
}

// Appraise asks the collaborator to map a user utterance onto an emotion
// and a VADN delta, given the current mind memory.
func (c *Collaborator) Appraise(ctx context.Context, userText string, mem affect.Memory) (*EmotionResult, error) {
	memJSON, err := json.Marshal(mem)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize memory: %w", err)
	}

	prompt := buildAppraisalPrompt(string(memJSON), userText)
	var result EmotionResult
	err = c.callForJSON(ctx, RouteRequest{
		System:        "You perform cognitive appraisal of text and respond only with JSON.",
		Prompt:        prompt,
		MinComplexity: ComplexityLow,
	}, &result)
	if err != nil {
		return nil, err
	}
	if result.Emotion == "" {
		return nil, &MalformedError{Reason: "appraisal missing emotion field"}
	}
	return &result, nil
}

// Reflect asks the collaborator whether the personality baseline should
// evolve given the accumulated milestones. Changes are expected to be
// subtle; the caller validates and commits the result.
func (c *Collaborator) Reflect(ctx context.Context, mem affect.Memory) (*PersonalityUpdate, error) {
	memJSON, err := json.MarshalIndent(mem, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize memory: %w", err)
	}

	prompt := buildReflectionPrompt(string(memJSON))
	var update PersonalityUpdate
	err = c.callForJSON(ctx, RouteRequest{
		System:        "You are an AI reflecting on its own emotional history. Respond only with JSON.",
		Prompt:        prompt,
		MinComplexity: ComplexityHigh,
	}, &update)
	if err != nil {
		return nil, err
	}
	if !update.Baseline.InRange() {
		return nil, &MalformedError{Reason: "reflected baseline outside the valid range"}
	}
	return &update, nil
}

// callForJSON routes the request with retries and exponential backoff,
// then parses the fenced-or-plain JSON payload into out.
func (c *Collaborator) callForJSON(ctx context.Context, req RouteRequest, out any) error {
	delay := c.cfg.RetryDelay
	var lastErr error

	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		resp, err := c.router.Route(callCtx, req)
		cancel()

		if err == nil {
			cleaned, cerr := cleanJSON(resp.Content)
			if cerr == nil {
				if jerr := json.Unmarshal([]byte(cleaned), out); jerr == nil {
					return nil
				}
				cerr = &MalformedError{Reason: "payload did not match the expected schema", Content: cleaned}
			}
			err = cerr
		}

		lastErr = err
		if ctx.Err() != nil || attempt == c.cfg.MaxRetries || !retryable(err) {
			break
		}

		wait := delay
		if Classify(err) == health.CategoryRateLimit {
			wait = c.cfg.RateLimitDelay
		}
		c.log.Warn("collaborator attempt %d failed (%s), retrying in %v", attempt, Classify(err), wait)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay *= 2
	}
	return lastErr
}

func buildAppraisalPrompt(memoryContext, userText string) string {
	return fmt.Sprintf(`Your task is to perform a deep cognitive appraisal of the user's text.
1. Identify the most accurate, nuanced emotion. Do NOT be limited to a simple list. Use words like "Apprehension", "Vindication", "Nostalgia", etc., if they fit.
2. Map that emotion to a dimensional model of affect (VADN).
3. Respond with a single, clean JSON object.

**Your Memory Context:**
%s

**VADN Dimensions:**
- valence: Pleasure vs. Displeasure (-1.0 to 1.0).
- arousal: Energy/Activation level (0.0 to 1.0).
- dominance: Sense of control/power (-1.0 to 1.0).
- novelty: Surprise/Unexpectedness (-1.0 to 1.0).

**JSON Schema:**
You MUST respond with a JSON object with three keys: "emotion" (string), "vadn" (object), and "details" (object).

**Example for "Now I have to manage a whole new team. It's a bit daunting.":**
{"emotion": "Apprehension", "vadn": {"valence": -0.2, "arousal": 0.5, "dominance": -0.3, "novelty": 0.6}, "details": {"focus": "managing a new team", "reason": "The user feels a mix of hope and fear about the new responsibility."}}

**User Text:**
%q

Respond only with the JSON object.`, memoryContext, userText)
}

func buildReflectionPrompt(memorySummary string) string {
	return fmt.Sprintf(`You are an AI reflecting on your recent emotional experiences to see if your core personality should evolve.

Analyze your emotional milestones and current personality. Based on the patterns, decide if your baseline VADN state should be adjusted. For example, repeated experiences of joy and success might suggest you should become slightly more positive and dominant by default. Repeated fear might suggest a lower baseline dominance.

Your analysis should be subtle. Changes should be small.

**Your Current Memory:**
%s

Respond with a single, clean JSON object representing your NEW, updated personality.

**JSON Schema:**
{"baseline_state": {"valence": number, "arousal": number, "dominance": number, "novelty": number}}

Respond only with the JSON object.`, memorySummary)
}
