// Package redact keeps analyzed message contents out of log lines. Deal
// texts carry emails, account numbers, amounts, and links; log output must
// never reproduce them.
package redact

import (
	"fmt"
	"log"
	"regexp"
)

var (
	emailRe  = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	ibanRe   = regexp.MustCompile(`\b[A-Z]{2}\d{2}[A-Z0-9]{11,30}\b`)
	cardRe   = regexp.MustCompile(`\b(?:\d[ -]?){13,16}\b`)
	urlRe    = regexp.MustCompile(`https?://[^\s"'<>]+`)
	amountRe = regexp.MustCompile(`[$€£]\s?\d[\d,.]*`)
	phoneRe  = regexp.MustCompile(`\+\d[\d\s\-()]{7,}\d`)
)

// String redacts known sensitive patterns from free-form strings.
func String(s string) string {
	if s == "" {
		return s
	}

	out := s
	out = emailRe.ReplaceAllString(out, "[REDACTED_EMAIL]")
	out = ibanRe.ReplaceAllString(out, "[REDACTED_IBAN]")
	out = cardRe.ReplaceAllString(out, "[REDACTED_CARD]")
	out = urlRe.ReplaceAllString(out, "[REDACTED_URL]")
	out = amountRe.ReplaceAllString(out, "[REDACTED_AMOUNT]")
	out = phoneRe.ReplaceAllString(out, "[REDACTED_PHONE]")
	return out
}

// Any formats the value with %+v and redacts the result.
func Any(v any) string {
	return String(fmt.Sprintf("%+v", v))
}

// Sprintf formats like fmt.Sprintf and redacts the result.
func Sprintf(format string, args ...interface{}) string {
	return String(fmt.Sprintf(format, args...))
}

// Logf prints a redacted log line.
func Logf(format string, args ...interface{}) {
	log.Print(Sprintf(format, args...))
}
