package mp3

import (
	"regexp"
	"testing"
)

var alnumOnly = regexp.MustCompile(`^[A-Za-z0-9]*$`)

func TestMakeSafe(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"PlainASCII", "ChronoTrigger", "ChronoTrigger"},
		{"SpacesDropped", "Deja Vu", "DejaVu"},
		{"AccentsTransliterated", "Déjà Vu", "DejaVu"},
		{"Punctuation", "F-Zero: GP Legend!", "FZeroGPLegend"},
		{"Umlaut", "Türrican", "Turrican"},
		{"Tilde", "Mañana", "Manana"},
		{"Superscript", "Mega Man X²", "MegaManX2"},
		{"Cyrillic", "Совет", "Sovet"},
		{"Dashes", "one–two—three", "onetwothree"},
		{"Ideographs", "ごま油", "油"},
		{"Empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MakeSafe(tc.input)
			if got != tc.want {
				t.Errorf("MakeSafe(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestMakeSafeOutputIsAlnumForKnownCatalog(t *testing.T) {
	// These are representative of the album and title strings historically
	// seen in the catalog; MakeSafe must fully reduce all of them.
	inputs := []string{
		"Déjà Vu",
		"The Legend of Zelda: A Link to the Past",
		"Chrono Cross (Disc 2)",
		"Lufia & The Fortress of Doom",
		"Pokémon Red / Blue",
		"Éternité",
	}
	for _, input := range inputs {
		safe := MakeSafe(input)
		if !alnumOnly.MatchString(safe) {
			t.Errorf("MakeSafe(%q) = %q contains disallowed characters", input, safe)
		}
	}
}

func TestBadChars(t *testing.T) {
	t.Run("CleanString", func(t *testing.T) {
		if got := BadChars("DejaVu123"); got != nil {
			t.Errorf("expected nil for clean string, got %v", got)
		}
	})

	t.Run("SortedByCodePoint", func(t *testing.T) {
		// 'ø' (248) and '£' (163): the report must lead with the
		// lexicographically smallest.
		got := BadChars("søn£gs")
		if len(got) != 2 {
			t.Fatalf("expected 2 bad chars, got %v", got)
		}
		if got[0] != '£' || got[1] != 'ø' {
			t.Errorf("bad chars out of order: %q", string(got))
		}
		if int(got[0]) != 163 {
			t.Errorf("expected code point 163 for first bad char, got %d", got[0])
		}
	})

	t.Run("Deduplicated", func(t *testing.T) {
		if got := BadChars("a~b~c~"); len(got) != 1 || got[0] != '~' {
			t.Errorf("expected single '~', got %v", got)
		}
	})
}
