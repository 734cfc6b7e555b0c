// Package risk runs the signal detector catalog against a message and folds
// the hits into a bounded score, a discrete tier, and a verification plan.
package risk

import (
	"strings"

	"github.com/dealguard-ai/dealguard/internal/extract"
	"github.com/dealguard-ai/dealguard/internal/signal"
)

// Tier classifies a clamped risk score.
type Tier string

const (
	TierLow    Tier = "LOW"
	TierMedium Tier = "MEDIUM"
	TierHigh   Tier = "HIGH"
)

const (
	baseScore = 10
	minScore  = 0
	maxScore  = 100

	mediumThreshold = 40
	highThreshold   = 70
)

// Result is the full outcome of scoring one message. It is derived entirely
// from the input text; there is no cross-call state.
type Result struct {
	Score   int             `json:"score"`
	Tier    Tier            `json:"tier"`
	Reasons []signal.Reason `json:"reasons"`
	Plan    []string        `json:"plan"`
	Links   []string        `json:"links,omitempty"`
}

// TierFor maps a score to its tier. Boundaries are closed on the lower end.
func TierFor(score int) Tier {
	switch {
	case score >= highThreshold:
		return TierHigh
	case score >= mediumThreshold:
		return TierMedium
	default:
		return TierLow
	}
}

// Score evaluates every detector in catalog order against text. All
// detectors are total over arbitrary input, so there is no error path.
func Score(text string) Result {
	lower := strings.ToLower(text)

	_, amountFound := extract.Amount(text)
	_, deadlineFound := extract.Deadline(text)
	links := extract.Links(text)

	fields := signal.Fields{
		AmountFound:   amountFound,
		DeadlineFound: deadlineFound,
		Links:         links,
	}

	total := baseScore
	reasons := []signal.Reason{}
	plan := []string{}
	planned := make(map[string]struct{})

	for _, d := range signal.Catalog {
		reason, fired := d.Eval(lower, fields)
		if !fired {
			continue
		}
		total += reason.Points
		reasons = append(reasons, reason)
		for _, action := range d.Actions {
			if _, dup := planned[action]; dup {
				continue
			}
			planned[action] = struct{}{}
			plan = append(plan, action)
		}
	}

	score := clamp(total)
	return Result{
		Score:   score,
		Tier:    TierFor(score),
		Reasons: reasons,
		Plan:    plan,
		Links:   links,
	}
}

// TriggerPhrases collects the union of all fired trigger phrases in reason
// order, deduplicated case-insensitively, for highlighting.
func (r Result) TriggerPhrases() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, reason := range r.Reasons {
		for _, p := range reason.TriggerPhrases {
			key := strings.ToLower(p)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

func clamp(score int) int {
	if score < minScore {
		return minScore
	}
	if score > maxScore {
		return maxScore
	}
	return score
}
