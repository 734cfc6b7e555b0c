package signal

import "github.com/dealguard-ai/dealguard/internal/extract"

// Plan action texts shared between detectors and tests. Duplicate actions
// across detectors collapse to one plan entry at aggregation time.
const (
	ActionVerifySecondChannel = "Confirm the new payment details via a verified second channel (call a number you already know)."
	ActionCompareInvoices     = "Compare the request against prior invoices from the same counterparty."
	ActionNoUpfrontFee        = "Do not pay any upfront or activation fee before verifying the counterparty."
	ActionRequestInvoice      = "Request a standard invoice with full company identity."
	ActionPauseAndVerify      = "Pause before acting: verify the request with a known contact before any payment."
	ActionInvolveSecondPerson = "Involve a second person; a legitimate deal survives scrutiny."
	ActionExpandShortLinks    = "Expand shortened links and verify the full destination domain before opening."
	ActionTraceablePayment    = "Propose a traceable payment method; crypto transfers are irreversible."
	ActionAgreeAmount         = "Agree on an exact amount and currency in writing."
	ActionAgreeDeadline       = "Agree on deadlines and deliverables in writing."
)

// Catalog is the fixed detector list. Order defines both evaluation order and
// the first-occurrence order of plan actions. Every detector runs on every
// input; none short-circuits another.
var Catalog = []Detector{
	{
		ID:         "urgency",
		Label:      "Urgency pressure",
		Points:     12,
		Vocabulary: []string{"urgent", "asap", "today", "immediately", "right now", "rush"},
		Actions:    []string{ActionPauseAndVerify},
	},
	{
		ID:         "secrecy",
		Label:      "Secrecy request",
		Points:     18,
		Vocabulary: []string{"confidential", "don't tell", "keep this secret"},
		Actions:    []string{ActionInvolveSecondPerson},
	},
	{
		ID:         "advance_fee",
		Label:      "Advance-fee / pay-first pattern",
		Points:     28,
		Vocabulary: []string{"activation fee", "processing fee", "advance fee", "to start, pay"},
		Actions:    []string{ActionNoUpfrontFee, ActionRequestInvoice},
	},
	{
		ID:         "payment_change",
		Label:      "Payment details change request",
		Points:     30,
		Vocabulary: []string{"bank details have changed", "new account", "updated payment details"},
		Actions:    []string{ActionVerifySecondChannel, ActionCompareInvoices},
	},
	{
		ID:      "short_link",
		Label:   "Shortened link",
		Points:  20,
		Actions: []string{ActionExpandShortLinks},
		Match: func(_ string, f Fields) (bool, []string) {
			var hits []string
			for _, l := range f.Links {
				if extract.IsShortened(l) {
					hits = append(hits, l)
				}
			}
			return len(hits) > 0, hits
		},
	},
	{
		ID:         "crypto_only",
		Label:      "Payment rail restriction (crypto-only)",
		Points:     16,
		Vocabulary: []string{"only accept crypto", "crypto only", "usdt only"},
		Actions:    []string{ActionTraceablePayment},
	},
	{
		ID:      "no_amount",
		Label:   "Missing or unclear amount",
		Points:  10,
		Actions: []string{ActionAgreeAmount},
		Match: func(_ string, f Fields) (bool, []string) {
			return !f.AmountFound, nil
		},
	},
	{
		ID:      "no_deadline",
		Label:   "Missing deadline / deliverables clarity",
		Points:  6,
		Actions: []string{ActionAgreeDeadline},
		Match: func(_ string, f Fields) (bool, []string) {
			return !f.DeadlineFound, nil
		},
	},
}
