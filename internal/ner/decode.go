package ner

import (
	"sort"
	"strings"
)

// tokenOffset is one token's byte range in the original text. Special tokens
// (CLS/SEP/padding) carry a negative or empty range and are skipped.
type tokenOffset struct {
	Start int
	End   int
}

// entitiesFromTokenLabels folds per-token BIO labels into entities. A "B-"
// prefix or a type change starts a new entity; "I-" of the same type extends
// the current one. An entity's confidence is the lowest confidence among its
// tokens.
func entitiesFromTokenLabels(text string, labels []string, confidences []float32, offsets []tokenOffset) []Entity {
	if len(labels) == 0 || len(offsets) == 0 {
		return nil
	}

	type span struct {
		typ        string
		start, end int
		confidence float32
	}

	var spans []span
	var cur *span

	flush := func() {
		if cur != nil {
			spans = append(spans, *cur)
			cur = nil
		}
	}

	for i, lbl := range labels {
		if i >= len(offsets) {
			break
		}
		off := offsets[i]
		if off.Start < 0 || off.End <= off.Start || off.End > len(text) {
			flush()
			continue
		}

		prefix, typ := splitBIOLabel(lbl)
		if typ == "" {
			flush()
			continue
		}

		conf := float32(1)
		if i < len(confidences) {
			conf = confidences[i]
		}

		if prefix == "B" || cur == nil || !strings.EqualFold(cur.typ, typ) {
			flush()
			cur = &span{typ: typ, start: off.Start, end: off.End, confidence: conf}
			continue
		}
		// "I" continuation of the current entity.
		if off.End > cur.end {
			cur.end = off.End
		}
		if conf < cur.confidence {
			cur.confidence = conf
		}
	}
	flush()

	if len(spans) == 0 {
		return nil
	}
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	out := make([]Entity, 0, len(spans))
	for _, s := range spans {
		out = append(out, Entity{
			Text:       strings.TrimSpace(text[s.start:s.end]),
			Type:       canonicalType(s.typ),
			Confidence: s.confidence,
		})
	}
	return out
}

// splitBIOLabel separates "B-PER" into ("B", "PER"). The "O" label and
// blanks map to an empty type.
func splitBIOLabel(lbl string) (prefix, typ string) {
	lbl = strings.TrimSpace(lbl)
	if lbl == "" || strings.EqualFold(lbl, "O") {
		return "", ""
	}
	parts := strings.SplitN(lbl, "-", 2)
	if len(parts) == 1 {
		return "", parts[0]
	}
	return strings.ToUpper(parts[0]), parts[1]
}

// canonicalType maps model label families onto the public entity types.
func canonicalType(typ string) string {
	switch strings.ToUpper(typ) {
	case "PER", "PERSON":
		return TypePerson
	case "ORG", "ORGANIZATION", "ORGANISATION":
		return TypeOrganization
	case "LOC", "LOCATION", "GPE":
		return TypeLocation
	default:
		return TypeMisc
	}
}
