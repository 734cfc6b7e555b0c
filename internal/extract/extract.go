package extract

import (
	"regexp"
	"strings"
)

// PaymentUnspecified is the payment value when no known method is mentioned.
const PaymentUnspecified = "Unspecified"

// maxLinks caps how many distinct links a single message can contribute.
const maxLinks = 8

var (
	amountRe = regexp.MustCompile(
		`[$€£]\s?\d{1,3}(?:,\d{3})+(?:\.\d+)?|[$€£]\s?\d+(?:\.\d+)?|\b\d[\d,]*(?:\.\d+)?\s?(?i:USD|EUR|GBP)\b`,
	)
	deadlineRe = regexp.MustCompile(
		`(?i)\bin\s+\d+\s+(?:days?|weeks?)\b|` +
			`\bby\s+[A-Za-z]+\s+\d{1,2}\b|` +
			`\b\d{1,2}/\d{1,2}/\d{2,4}\b|` +
			`\b\d{4}-\d{2}-\d{2}\b`,
	)
	linkRe = regexp.MustCompile(
		`(?i)https?://[^\s"'<>]+|` +
			`\b(?:bit\.ly|tinyurl\.com|t\.co|goo\.gl|is\.gd|cutt\.ly|rb\.gy|tiny\.cc|shorturl\.at)/[A-Za-z0-9._~/?=&%#-]+|` +
			`\b[a-z0-9][a-z0-9-]*(?:\.[a-z0-9-]+)+/[a-z0-9._~/?=&%#-]+`,
	)
)

var paymentFamilies = []struct {
	name string
	re   *regexp.Regexp
}{
	{"Bank transfer", regexp.MustCompile(`(?i)\b(?:iban|swift|bank\s+transfer|wire)\b`)},
	{"PayPal", regexp.MustCompile(`(?i)\bpaypal\b`)},
	{"Crypto", regexp.MustCompile(`(?i)\b(?:crypto|usdt|btc|eth|wallet)\b`)},
	{"Gift cards", regexp.MustCompile(`(?i)\bgift\s*cards?\b|\b(?:steam|itunes|google\s+play)\s+cards?\b`)},
}

var shortenerDomains = []string{
	"bit.ly", "tinyurl.com", "t.co", "goo.gl", "is.gd",
	"cutt.ly", "rb.gy", "tiny.cc", "shorturl.at",
}

// Amount returns the first monetary amount in text verbatim: a currency
// symbol followed by a number (comma grouping optional), or a bare number
// followed by a 3-letter currency code.
func Amount(text string) (string, bool) {
	m := amountRe.FindString(text)
	return m, m != ""
}

// Deadline returns the first deadline expression in text verbatim:
// "in N days/weeks", "by <month> <day>", DD/MM/YYYY, or an ISO date.
func Deadline(text string) (string, bool) {
	m := deadlineRe.FindString(text)
	return m, m != ""
}

// Payment names every payment family mentioned in text, joined by " + " in
// detection order. It never returns the empty string.
func Payment(text string) string {
	var found []string
	for _, f := range paymentFamilies {
		if f.re.MatchString(text) {
			found = append(found, f.name)
		}
	}
	if len(found) == 0 {
		return PaymentUnspecified
	}
	return strings.Join(found, " + ")
}

// Links returns outbound links in first-seen order: explicit http(s) URLs,
// shortener domains with a path, and bare domain-like tokens with a path.
// Exact duplicates are dropped and the result is capped at 8 entries.
func Links(text string) []string {
	matches := linkRe.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		m = strings.TrimRight(m, ".,;:!?)")
		if m == "" {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
		if len(out) == maxLinks {
			break
		}
	}
	return out
}

// IsShortened reports whether a link points at a known URL shortener.
func IsShortened(link string) bool {
	l := strings.ToLower(link)
	l = strings.TrimPrefix(l, "https://")
	l = strings.TrimPrefix(l, "http://")
	l = strings.TrimPrefix(l, "www.")
	for _, d := range shortenerDomains {
		if l == d || strings.HasPrefix(l, d+"/") {
			return true
		}
	}
	return false
}
