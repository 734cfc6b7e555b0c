// Package reply drafts the safe-reply message sent back to a counterparty.
package reply

import (
	"fmt"
	"strings"

	"github.com/dealguard-ai/dealguard/internal/risk"
	"github.com/dealguard-ai/dealguard/internal/snapshot"
)

const (
	openingHigh = "Thanks for the details. Before anything moves, I need to verify a few things on my side. Several points in this request need confirmation."
	openingMed  = "Thanks for the details. A few things I'd like to confirm before we proceed."
	openingLow  = "Sounds good overall, just a couple of routine confirmations before we proceed."

	closing = "Once these are confirmed, I'm happy to move forward."
)

// Compose renders the numbered safe-reply checklist for the given tier and
// snapshot. It is deterministic in its two inputs.
func Compose(tier risk.Tier, snap snapshot.Snapshot) string {
	var b strings.Builder

	switch tier {
	case risk.TierHigh:
		b.WriteString(openingHigh)
	case risk.TierMedium:
		b.WriteString(openingMed)
	default:
		b.WriteString(openingLow)
	}
	b.WriteString("\n\n")

	items := []string{
		"Please confirm the exact amount and payment method in writing.",
		"I will confirm any payment details via a second, already-known channel before sending funds.",
		"Please send a standard invoice with your full company identity.",
	}
	if len(snap.Links) > 0 {
		items = append(items, "Please share the full destination domain for any links; I don't open shortened or unfamiliar URLs.")
	}
	if strings.Contains(snap.Payment, "Crypto") {
		items = append(items, "I can't pay in crypto for this deal; let's agree on a traceable payment method.")
	}

	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item)
	}

	b.WriteString("\n")
	b.WriteString(closing)
	return b.String()
}
