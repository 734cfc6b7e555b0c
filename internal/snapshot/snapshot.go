// Package snapshot assembles the structured deal summary extracted from one
// message: parties, amount, deadline, payment method, and outbound links.
package snapshot

import "github.com/dealguard-ai/dealguard/internal/extract"

// Snapshot is the structured summary of one input text. Parties is filled by
// the optional entity-recognition collaborator and stays empty when that
// collaborator is absent or fails.
type Snapshot struct {
	Parties  string   `json:"parties,omitempty"`
	Amount   string   `json:"amount,omitempty"`
	Deadline string   `json:"deadline,omitempty"`
	Payment  string   `json:"payment"`
	Links    []string `json:"links,omitempty"`
}

// Build extracts every field except parties from text. Payment is never
// empty; extract.Payment returns its "Unspecified" sentinel when nothing
// matches.
func Build(text string) Snapshot {
	amount, _ := extract.Amount(text)
	deadline, _ := extract.Deadline(text)
	return Snapshot{
		Amount:   amount,
		Deadline: deadline,
		Payment:  extract.Payment(text),
		Links:    extract.Links(text),
	}
}

// WithParties returns a copy of the snapshot with the parties field set.
func (s Snapshot) WithParties(parties string) Snapshot {
	s.Parties = parties
	return s
}
