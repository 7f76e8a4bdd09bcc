package textproc

import "testing"

func TestCleanOCRTextFiltersAndLowercases(t *testing.T) {
	got := CleanOCRText("Der  Zauberberg! 1924", "de")
	if got != "der zauberberg 1924" {
		t.Fatalf("got %q, want %q", got, "der zauberberg 1924")
	}
}

func TestCleanOCRTextKeepsUmlauts(t *testing.T) {
	got := CleanOCRText("Die Verwandlung — Erzählungen", "de")
	if got != "die verwandlung erzählungen" {
		t.Fatalf("got %q, want %q", got, "die verwandlung erzählungen")
	}
}

func TestCleanOCRTextDefaultLanguages(t *testing.T) {
	// Defaults to de+fr: French accents and digits survive, noise
	// characters turn into spaces.
	got := CleanOCRText("Voilà #42 l'été")
	if got != "voilà 42 l été" {
		t.Fatalf("got %q, want %q", got, "voilà 42 l été")
	}
}

func TestCleanOCRTextKeepsDigits(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Published in 2022", "published in 2022"},
		{"2nd Edition", "2nd edition"},
		{"Der große Krieg 1914-1918", "der große krieg 1914-1918"},
		{"123456", "123456"},
	}
	for _, tc := range cases {
		if got := CleanOCRText(tc.in, "de", "en"); got != tc.want {
			t.Fatalf("CleanOCRText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCleanOCRTextWordInternalPunctuation(t *testing.T) {
	cases := []struct{ in, want string }{
		// Marks between word characters stay.
		{"Klasse 8/9", "klasse 8/9"},
		{"Version 2.1: Das neue Update", "version 2.1: das neue update"},
		{"978-3-123-45678", "978-3-123-45678"},
		// Standalone marks become spaces.
		{"Wort . Anderes - Wort", "wort anderes wort"},
		{"Die Buddenbrooks (1901) - Thomas Mann", "die buddenbrooks 1901 thomas mann"},
		{"Der Herr der Ringe: Die Gefährten", "der herr der ringe: die gefährten"},
	}
	for _, tc := range cases {
		if got := CleanOCRText(tc.in, "de"); got != tc.want {
			t.Fatalf("CleanOCRText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCleanOCRTextStripsTrademarkSigns(t *testing.T) {
	// Removed before NFKC, which would otherwise fold ™ into "tm". A
	// trailing mark run keeps only the dots that still join characters.
	got := CleanOCRText("Harry Potter™ & der Stein...", "de", "en")
	if got != "harry potter der stein.." {
		t.Fatalf("got %q, want %q", got, "harry potter der stein..")
	}
	if got := CleanOCRText("Rowohlt Verlag® 2023", "de"); got != "rowohlt verlag 2023" {
		t.Fatalf("got %q, want %q", got, "rowohlt verlag 2023")
	}
}

func TestCleanOCRTextNormalizesCompatibilityForms(t *testing.T) {
	// NFKC folds the ligature ﬁ into "fi".
	got := CleanOCRText("ﬁn", "en")
	if got != "fin" {
		t.Fatalf("got %q, want %q", got, "fin")
	}
}

func TestCleanOCRTextCollapsesWhitespace(t *testing.T) {
	got := CleanOCRText("  a \t b \n c  ", "en")
	if got != "a b c" {
		t.Fatalf("got %q, want %q", got, "a b c")
	}
}

func TestCleanOCRTextEmpty(t *testing.T) {
	if got := CleanOCRText("!@#$%^&*()", "en"); got != "" {
		t.Fatalf("pure noise should clean to empty, got %q", got)
	}
	if got := CleanOCRText("   \t\n   ", "en"); got != "" {
		t.Fatalf("whitespace should clean to empty, got %q", got)
	}
}

func TestLanguageCharset(t *testing.T) {
	cs := LanguageCharset([]string{"de"})
	if !cs['ß'] || !cs['a'] || !cs['Ü'] {
		t.Fatalf("German charset missing expected letters")
	}
	if cs['é'] {
		t.Fatalf("German charset should not contain French accents")
	}

	// Unknown languages contribute nothing.
	if len(LanguageCharset([]string{"xx"})) != 0 {
		t.Fatalf("unknown language should yield an empty charset")
	}
}
