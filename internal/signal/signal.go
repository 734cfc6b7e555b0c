package signal

import "strings"

// Reason records one fired detector's contribution to a risk score.
// Instances are immutable once produced.
type Reason struct {
	Label          string   `json:"label"`
	Points         int      `json:"points"`
	TriggerPhrases []string `json:"trigger_phrases,omitempty"`
}

// Fields carries the extractor outputs that detectors may consult.
type Fields struct {
	AmountFound   bool
	DeadlineFound bool
	Links         []string
}

// Detector is one rule in the catalog: a predicate plus its effects.
// When Match is nil, the detector fires iff any vocabulary term appears
// in the lowercased text.
type Detector struct {
	ID         string
	Label      string
	Points     int
	Vocabulary []string
	Actions    []string
	Match      func(lower string, f Fields) (bool, []string)
}

// Eval applies the detector to the lowercased text and extractor fields.
// The returned Reason carries the phrases that triggered the hit.
func (d Detector) Eval(lower string, f Fields) (Reason, bool) {
	var (
		fired   bool
		phrases []string
	)
	if d.Match != nil {
		fired, phrases = d.Match(lower, f)
	} else {
		phrases = matchVocabulary(lower, d.Vocabulary)
		fired = len(phrases) > 0
	}
	if !fired {
		return Reason{}, false
	}
	return Reason{Label: d.Label, Points: d.Points, TriggerPhrases: phrases}, true
}

func matchVocabulary(lower string, vocab []string) []string {
	var hits []string
	for _, term := range vocab {
		if strings.Contains(lower, term) {
			hits = append(hits, term)
		}
	}
	return hits
}
