package risk

import (
	"reflect"
	"testing"

	"github.com/dealguard-ai/dealguard/internal/extract"
)

const (
	cleanDeal = "Budget is $1,200, delivery in 10 days. " +
		"Payment: 50% upfront via bank transfer, the rest on delivery."

	bankChange = "Please note our bank details have changed. " +
		"Pay the invoice to the NEW account below. " +
		"Keep this confidential for now — and it's a rush, the old account is frozen."

	advanceFee = "To unlock the transfer there is an activation fee of $150. " +
		"Pay right now via bit.ly/pay-confirm — we only accept crypto. " +
		"Don't tell anyone until it clears."
)

func TestTierThresholds(t *testing.T) {
	cases := []struct {
		score int
		want  Tier
	}{
		{0, TierLow},
		{39, TierLow},
		{40, TierMedium},
		{69, TierMedium},
		{70, TierHigh},
		{100, TierHigh},
	}
	for _, c := range cases {
		if got := TierFor(c.score); got != c.want {
			t.Errorf("TierFor(%d) = %s, want %s", c.score, got, c.want)
		}
	}
}

func TestScoreAlwaysInRange(t *testing.T) {
	inputs := []string{
		"",
		"   \n\t ",
		cleanDeal,
		bankChange,
		advanceFee,
		"urgent urgent urgent confidential activation fee new account crypto only bit.ly/x",
	}
	for _, in := range inputs {
		res := Score(in)
		if res.Score < 0 || res.Score > 100 {
			t.Errorf("Score(%q).Score = %d, outside [0,100]", in, res.Score)
		}
		if res.Tier != TierFor(res.Score) {
			t.Errorf("tier %s inconsistent with score %d", res.Tier, res.Score)
		}
	}
}

func TestScoreIdempotent(t *testing.T) {
	a := Score(bankChange)
	b := Score(bankChange)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("two runs differ:\n%+v\n%+v", a, b)
	}
}

func TestCleanDealStaysLow(t *testing.T) {
	res := Score(cleanDeal)
	if res.Tier != TierLow {
		t.Fatalf("clean deal tier = %s (score %d), want LOW", res.Tier, res.Score)
	}
	for _, reason := range res.Reasons {
		switch reason.Label {
		case "Advance-fee / pay-first pattern", "Secrecy request", "Payment details change request":
			t.Errorf("detector %q fired on a clean deal", reason.Label)
		}
	}

	if amount, _ := extract.Amount(cleanDeal); amount != "$1,200" {
		t.Errorf("amount = %q, want $1,200", amount)
	}
	if deadline, _ := extract.Deadline(cleanDeal); deadline != "in 10 days" {
		t.Errorf("deadline = %q, want \"in 10 days\"", deadline)
	}
	if pay := extract.Payment(cleanDeal); pay != "Bank transfer" {
		t.Errorf("payment = %q, want Bank transfer", pay)
	}
}

func TestBankChangeScoresHigh(t *testing.T) {
	res := Score(bankChange)

	fired := firedLabels(res)
	for _, want := range []string{
		"Payment details change request",
		"Secrecy request",
		"Urgency pressure",
	} {
		if !fired[want] {
			t.Errorf("detector %q did not fire", want)
		}
	}
	if res.Score < 70 || res.Tier != TierHigh {
		t.Fatalf("score = %d tier = %s, want >= 70 and HIGH", res.Score, res.Tier)
	}
	if !containsPlan(res.Plan, "Confirm the new payment details via a verified second channel (call a number you already know).") {
		t.Fatal("plan is missing the second-channel verification action")
	}
}

func TestAdvanceFeeScoresHigh(t *testing.T) {
	res := Score(advanceFee)

	fired := firedLabels(res)
	for _, want := range []string{
		"Advance-fee / pay-first pattern",
		"Shortened link",
		"Payment rail restriction (crypto-only)",
		"Secrecy request",
		"Urgency pressure",
	} {
		if !fired[want] {
			t.Errorf("detector %q did not fire", want)
		}
	}
	if res.Tier != TierHigh {
		t.Fatalf("tier = %s (score %d), want HIGH", res.Tier, res.Score)
	}
	if pay := extract.Payment(advanceFee); pay != "Crypto" {
		t.Errorf("payment = %q, want Crypto", pay)
	}
}

func TestPlanHasNoDuplicates(t *testing.T) {
	inputs := []string{"", cleanDeal, bankChange, advanceFee}
	for _, in := range inputs {
		res := Score(in)
		seen := make(map[string]struct{}, len(res.Plan))
		for _, action := range res.Plan {
			if _, dup := seen[action]; dup {
				t.Errorf("duplicate plan action %q for input %q", action, in)
			}
			seen[action] = struct{}{}
		}
	}
}

func TestEmptyInputStillProducesValidResult(t *testing.T) {
	res := Score("")
	if res.Score < 0 || res.Score > 100 {
		t.Fatalf("score %d out of range", res.Score)
	}
	// Only the absence-driven detectors can fire on empty input.
	fired := firedLabels(res)
	if !fired["Missing or unclear amount"] || !fired["Missing deadline / deliverables clarity"] {
		t.Fatalf("absence detectors did not fire on empty input: %v", fired)
	}
	if len(res.Reasons) != 2 {
		t.Fatalf("expected exactly the two absence detectors, got %d reasons", len(res.Reasons))
	}
}

func TestTriggerPhrasesDeduplicated(t *testing.T) {
	res := Score("URGENT! I repeat, urgent. Keep this secret, it's confidential.")
	phrases := res.TriggerPhrases()
	seen := make(map[string]struct{}, len(phrases))
	for _, p := range phrases {
		if _, dup := seen[p]; dup {
			t.Errorf("duplicate trigger phrase %q", p)
		}
		seen[p] = struct{}{}
	}
	if len(phrases) == 0 {
		t.Fatal("expected trigger phrases")
	}
}

func firedLabels(res Result) map[string]bool {
	out := make(map[string]bool, len(res.Reasons))
	for _, r := range res.Reasons {
		out[r.Label] = true
	}
	return out
}

func containsPlan(plan []string, action string) bool {
	for _, a := range plan {
		if a == action {
			return true
		}
	}
	return false
}
