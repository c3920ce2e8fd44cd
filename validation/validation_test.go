package validation

import "testing"

func TestRequiredAndFirstViolationWins(t *testing.T) {
	v := Violations{}
	Required("nom", "   ", v)
	Email("nom", "nope", v)
	if v["nom"] != "required" {
		t.Fatalf("expected required, got %q", v["nom"])
	}
	if v.Empty() {
		t.Fatalf("violations should not be empty")
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{"alice@example.com", true},
		{"a@b.fr", true},
		{"alice@example", false},
		{"alice example.com", false},
		{"", true},
	}
	for _, tt := range tests {
		v := Violations{}
		Email("email", tt.in, v)
		if v.Empty() != tt.valid {
			t.Errorf("Email(%q) valid=%v, want %v", tt.in, v.Empty(), tt.valid)
		}
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{"0612345678", true},
		{"061234567", false},
		{"06 12 34 56 78", false},
		{"+33612345678", false},
	}
	for _, tt := range tests {
		v := Violations{}
		Phone("telephone", tt.in, v)
		if v.Empty() != tt.valid {
			t.Errorf("Phone(%q) valid=%v, want %v", tt.in, v.Empty(), tt.valid)
		}
	}
}

func TestRating(t *testing.T) {
	v := Violations{}
	if n := Rating("note", "", v); n != nil || !v.Empty() {
		t.Fatalf("empty rating should be nil and valid")
	}
	if n := Rating("note", "4,5", v); n == nil || *n != 4.5 || !v.Empty() {
		t.Fatalf("4,5 should parse, got %v %v", n, v)
	}
	Rating("note", "6", v)
	if v["note"] != "out_of_range" {
		t.Fatalf("expected out_of_range, got %q", v["note"])
	}
	v2 := Violations{}
	Rating("note", "abc", v2)
	if v2["note"] != "invalid_number" {
		t.Fatalf("expected invalid_number, got %q", v2["note"])
	}
}

func TestNumbers(t *testing.T) {
	v := Violations{}
	if Float("prix", "12.5", v) != 12.5 || Int("stock", "3", v) != 3 || ID("client", "8", v) != 8 {
		t.Fatalf("valid numbers rejected: %v", v)
	}
	Float("prix", "", v)
	Int("stock", "x", v)
	ID("client", "0", v)
	PositiveFloat("cout", -1, v)
	if v["prix"] != "required" || v["stock"] != "invalid_number" || v["client"] != "required" || v["cout"] != "must_be_positive" {
		t.Fatalf("unexpected violations %v", v)
	}
}
