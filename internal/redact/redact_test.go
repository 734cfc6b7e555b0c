package redact

import (
	"strings"
	"testing"
)

func TestStringRedactsDealContents(t *testing.T) {
	cases := []struct {
		in       string
		mustLose string
	}{
		{"reply to john.doe@example.com now", "john.doe@example.com"},
		{"send to DE89370400440532013000 today", "DE89370400440532013000"},
		{"card 4111 1111 1111 1111 on file", "4111 1111 1111 1111"},
		{"open https://bit.ly/pay-confirm", "https://bit.ly/pay-confirm"},
		{"the budget is $1,200 total", "$1,200"},
		{"call +49 30 1234567 anytime", "+49 30 1234567"},
	}
	for _, c := range cases {
		out := String(c.in)
		if strings.Contains(out, c.mustLose) {
			t.Errorf("String(%q) leaked %q: %q", c.in, c.mustLose, out)
		}
		if !strings.Contains(out, "[REDACTED") {
			t.Errorf("String(%q) has no redaction marker: %q", c.in, out)
		}
	}
}

func TestStringLeavesPlainTextAlone(t *testing.T) {
	in := "analysis complete, tier HIGH, 5 detectors fired"
	if out := String(in); out != in {
		t.Fatalf("String altered a safe line: %q", out)
	}
}

func TestSprintf(t *testing.T) {
	out := Sprintf("contact %s for the deal", "a@b.example")
	if strings.Contains(out, "a@b.example") {
		t.Fatalf("Sprintf leaked an email: %q", out)
	}
}
