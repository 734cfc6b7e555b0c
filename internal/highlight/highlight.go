// Package highlight maps trigger phrases back onto the original text as a
// list of non-overlapping spans. It computes every match first and resolves
// overlaps by longest-phrase priority, instead of mutating the text one
// phrase at a time, so a short phrase can never fragment or double-mark a
// region a longer phrase already covers.
package highlight

import (
	"sort"
	"strings"
)

// Span is one matched region in original text coordinates. End is exclusive.
type Span struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Spans finds all case-insensitive literal occurrences of each phrase.
// Phrases are deduplicated and tried longest-first (ties broken
// lexicographically), and a span is kept only if it does not overlap a span
// claimed by an earlier phrase. The result is sorted by start offset.
func Spans(text string, phrases []string) []Span {
	if text == "" || len(phrases) == 0 {
		return nil
	}

	ordered := orderPhrases(phrases)
	lower := lowerASCII(text)
	claimed := make([]bool, len(text))

	var spans []Span
	for _, phrase := range ordered {
		for from := 0; from <= len(lower)-len(phrase); {
			i := strings.Index(lower[from:], phrase)
			if i < 0 {
				break
			}
			start := from + i
			end := start + len(phrase)
			from = end
			if rangeClaimed(claimed, start, end) {
				continue
			}
			claim(claimed, start, end)
			spans = append(spans, Span{Start: start, End: end, Text: text[start:end]})
		}
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	return spans
}

// Annotate wraps every span with the given markers. Spans must come from
// Spans for the same text; they are non-overlapping by construction.
func Annotate(text string, spans []Span, open, close string) string {
	if len(spans) == 0 {
		return text
	}
	var b strings.Builder
	prev := 0
	for _, s := range spans {
		if s.Start < prev || s.End > len(text) {
			continue
		}
		b.WriteString(text[prev:s.Start])
		b.WriteString(open)
		b.WriteString(text[s.Start:s.End])
		b.WriteString(close)
		prev = s.End
	}
	b.WriteString(text[prev:])
	return b.String()
}

// orderPhrases lowercases, deduplicates, and sorts phrases by descending
// length so longer phrases claim spans first. Equal lengths order
// lexicographically to keep claims deterministic.
func orderPhrases(phrases []string) []string {
	seen := make(map[string]struct{}, len(phrases))
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		lp := lowerASCII(p)
		if lp == "" {
			continue
		}
		if _, dup := seen[lp]; dup {
			continue
		}
		seen[lp] = struct{}{}
		out = append(out, lp)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}

// lowerASCII folds A-Z byte-wise, leaving everything else untouched so byte
// offsets into the lowered string match the original text exactly.
func lowerASCII(s string) string {
	var b []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			if b == nil {
				b = []byte(s)
			}
			b[i] = c + ('a' - 'A')
		}
	}
	if b == nil {
		return s
	}
	return string(b)
}

func rangeClaimed(claimed []bool, start, end int) bool {
	for i := start; i < end; i++ {
		if claimed[i] {
			return true
		}
	}
	return false
}

func claim(claimed []bool, start, end int) {
	for i := start; i < end; i++ {
		claimed[i] = true
	}
}
