// Package ner is the optional entity-recognition collaborator. It augments
// the deal snapshot's parties field and nothing else: its absence or failure
// never blocks the deterministic analysis pipeline.
package ner

import (
	"context"
	"errors"
	"strings"
)

// Entity types reported by Recognize.
const (
	TypePerson       = "PERSON"
	TypeOrganization = "ORGANIZATION"
	TypeLocation     = "LOCATION"
	TypeMisc         = "MISC"
)

const (
	// MinConfidence is the cutoff below which callers discard entities.
	MinConfidence float32 = 0.60
	// MaxEntities caps how many entities one message can contribute.
	MaxEntities = 18
)

// ErrUnavailable is returned when the underlying model cannot be loaded or
// invoked. Callers downgrade the parties field to absent and continue.
var ErrUnavailable = errors.New("entity recognition unavailable")

// Entity is one recognized span of the input text.
type Entity struct {
	Text       string  `json:"text"`
	Type       string  `json:"type"`
	Confidence float32 `json:"confidence"`
}

// Engine classifies free text into entities. Implementations may be slow
// (model load, inference) and must respect ctx cancellation.
type Engine interface {
	Recognize(ctx context.Context, text string) ([]Entity, error)
}

// Filter applies the caller-side contract: drop entities below
// MinConfidence, dedupe by (text, type) preserving first-seen order, and cap
// the result at MaxEntities.
func Filter(entities []Entity) []Entity {
	if len(entities) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(entities))
	out := make([]Entity, 0, len(entities))
	for _, e := range entities {
		if e.Confidence < MinConfidence {
			continue
		}
		key := strings.ToLower(e.Text) + "\x00" + e.Type
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
		if len(out) == MaxEntities {
			break
		}
	}
	return out
}

// Parties renders the people and organizations among the entities as a
// single display string, first-seen order, or "" when there are none.
func Parties(entities []Entity) string {
	var names []string
	seen := make(map[string]struct{}, len(entities))
	for _, e := range entities {
		if e.Type != TypePerson && e.Type != TypeOrganization {
			continue
		}
		key := strings.ToLower(e.Text)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, e.Text)
	}
	return strings.Join(names, ", ")
}
