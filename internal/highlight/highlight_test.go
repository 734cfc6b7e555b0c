package highlight

import (
	"reflect"
	"testing"
)

func TestSpansCaseInsensitiveGlobal(t *testing.T) {
	got := Spans("ASAP asap", []string{"asap"})
	want := []Span{
		{Start: 0, End: 4, Text: "ASAP"},
		{Start: 5, End: 9, Text: "asap"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Spans = %+v, want %+v", got, want)
	}
}

func TestLongestPhraseWinsOverlap(t *testing.T) {
	text := "our bank details have changed, use the new bank"
	got := Spans(text, []string{"bank", "bank details have changed"})

	// The long phrase claims [4,29); "bank" may only match outside it.
	want := []Span{
		{Start: 4, End: 29, Text: "bank details have changed"},
		{Start: 43, End: 47, Text: "bank"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Spans = %+v, want %+v", got, want)
	}
}

func TestSpansNeverOverlap(t *testing.T) {
	text := "urgent URGENT urgently urgent"
	spans := Spans(text, []string{"urgent", "urgent urgent"})
	for i := 1; i < len(spans); i++ {
		if spans[i].Start < spans[i-1].End {
			t.Fatalf("spans overlap: %+v and %+v", spans[i-1], spans[i])
		}
	}
}

func TestSpansDeduplicatesPhrases(t *testing.T) {
	a := Spans("pay today", []string{"today", "TODAY", "today"})
	b := Spans("pay today", []string{"today"})
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("duplicate phrases changed the result: %+v vs %+v", a, b)
	}
}

func TestSpansEmptyInputs(t *testing.T) {
	if s := Spans("", []string{"x"}); s != nil {
		t.Errorf("Spans on empty text = %+v", s)
	}
	if s := Spans("text", nil); s != nil {
		t.Errorf("Spans with no phrases = %+v", s)
	}
	if s := Spans("text", []string{""}); s != nil {
		t.Errorf("Spans with empty phrase = %+v", s)
	}
}

func TestAnnotate(t *testing.T) {
	text := "pay ASAP please"
	spans := Spans(text, []string{"asap"})
	got := Annotate(text, spans, "[", "]")
	if got != "pay [ASAP] please" {
		t.Fatalf("Annotate = %q", got)
	}
}

func TestAnnotateNoNestedMarkers(t *testing.T) {
	text := "bank details have changed"
	spans := Spans(text, []string{"bank details have changed", "bank"})
	got := Annotate(text, spans, "<b>", "</b>")
	if got != "<b>bank details have changed</b>" {
		t.Fatalf("Annotate = %q", got)
	}
}
