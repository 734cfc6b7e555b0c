package telemetry

import (
	"testing"
)

func TestSafeAttributesFiltersDealText(t *testing.T) {
	kvs := map[string]interface{}{
		"message_text":  "should drop",
		"content":       "drop",
		"iban":          "DE89370400440532013000",
		"wallet":        "0xabc",
		"tier":          "HIGH",
		"long_string":   string(make([]byte, 600)),
		"score":         72,
		"link_count":    3,
		"authorization": "secret",
	}

	attrs := SafeAttributes(kvs)
	for _, a := range attrs {
		if a.Key == "message_text" || a.Key == "content" || a.Key == "iban" || a.Key == "wallet" || a.Key == "authorization" {
			t.Fatalf("unexpected unsafe attribute %s", a.Key)
		}
		if a.Key == "long_string" {
			t.Fatalf("expected long string to be skipped")
		}
	}
	found := false
	for _, a := range attrs {
		if a.Key == "tier" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected safe attribute to survive")
	}
}

func TestSafeAttributesKeepsInstrumentKeys(t *testing.T) {
	// Keys the Record* methods rely on must never be deny-listed.
	attrs := SafeAttributes(map[string]interface{}{
		"tier":     "MEDIUM",
		"score":    45,
		"detector": "Urgency pressure",
		"ok":       true,
	})
	if len(attrs) != 4 {
		t.Fatalf("expected all instrument attributes to survive, got %v", attrs)
	}
}

func TestSafeAttributesEmpty(t *testing.T) {
	if attrs := SafeAttributes(nil); attrs != nil {
		t.Fatalf("expected nil for empty input, got %v", attrs)
	}
}
