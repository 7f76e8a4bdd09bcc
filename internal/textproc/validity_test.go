package textproc

import "testing"

func TestValidityScoreWithDictionary(t *testing.T) {
	d := testDictionary(t)

	if got := ValidityScore("der zauberberg", d); got != 1.0 {
		t.Fatalf("all-known text scored %v, want 1.0", got)
	}
	// "der" (3 known) + "xxxx" (4 unknown): 3/7.
	if got := ValidityScore("der xxxx", d); got != 3.0/7.0 {
		t.Fatalf("got %v, want %v", got, 3.0/7.0)
	}
	if got := ValidityScore("qqq zzz", d); got != 0 {
		t.Fatalf("all-unknown text scored %v, want 0", got)
	}
}

func TestValidityScoreWithoutDictionary(t *testing.T) {
	// Letter fraction fallback: 4 letters of 8 runes.
	if got := ValidityScore("ab12 cd34", nil); got != 0.5 {
		t.Fatalf("got %v, want 0.5", got)
	}
	if got := ValidityScore("abc", nil); got != 1.0 {
		t.Fatalf("got %v, want 1.0", got)
	}
}

func TestValidityScoreEmpty(t *testing.T) {
	if got := ValidityScore("   ", nil); got != 0 {
		t.Fatalf("blank text scored %v, want 0", got)
	}
	if got := ValidityScore("", testDictionary(t)); got != 0 {
		t.Fatalf("empty text scored %v, want 0", got)
	}
}
