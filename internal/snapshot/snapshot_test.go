package snapshot

import "testing"

func TestBuild(t *testing.T) {
	s := Build("Budget is $1,200, delivery in 10 days via bank transfer. Details: example.com/deal/7")
	if s.Amount != "$1,200" {
		t.Errorf("amount = %q", s.Amount)
	}
	if s.Deadline != "in 10 days" {
		t.Errorf("deadline = %q", s.Deadline)
	}
	if s.Payment != "Bank transfer" {
		t.Errorf("payment = %q", s.Payment)
	}
	if len(s.Links) != 1 || s.Links[0] != "example.com/deal/7" {
		t.Errorf("links = %v", s.Links)
	}
	if s.Parties != "" {
		t.Errorf("parties should start empty, got %q", s.Parties)
	}
}

func TestBuildEmptyTextDefaults(t *testing.T) {
	s := Build("")
	if s.Payment != "Unspecified" {
		t.Fatalf("payment = %q, want Unspecified sentinel", s.Payment)
	}
	if s.Amount != "" || s.Deadline != "" || len(s.Links) != 0 {
		t.Fatalf("unexpected fields on empty text: %+v", s)
	}
}

func TestWithPartiesDoesNotMutateReceiver(t *testing.T) {
	base := Build("pay $5 today")
	augmented := base.WithParties("Acme GmbH, J. Doe")
	if base.Parties != "" {
		t.Fatal("WithParties mutated the original snapshot")
	}
	if augmented.Parties != "Acme GmbH, J. Doe" {
		t.Fatalf("parties = %q", augmented.Parties)
	}
}
