package textutil

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"The Matrix", "the matrix"},
		{"  Star Wars: Episode IV - A New Hope ", "star wars episode iv a new hope"},
		{"Am\u00e9lie", "am\u00e9lie"},
		{"Ame\u0301lie", "am\u00e9lie"},
		{"Léon: The Professional", "léon the professional"},
		{"WALL·E", "wall e"},
		{"snake_case_title", "snake_case_title"},
		{"...", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"The Matrix",
		"Am\u00e9lie",
		"Ame\u0301lie",
		"Crouching Tiger, Hidden Dragon",
		"  !!weird   __ spacing!! ",
		"Ⅻ Monkeys",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, twice, once)
		}
	}
}

func TestNormalizeComposedDecomposedEqual(t *testing.T) {
	composed := "Am\u00e9lie"
	decomposed := "Ame\u0301lie"
	if composed == decomposed {
		t.Fatal("test inputs must differ byte-wise")
	}
	if Normalize(composed) != Normalize(decomposed) {
		t.Fatalf("expected equal normalization, got %q and %q", Normalize(composed), Normalize(decomposed))
	}
}

func TestFormatTitle(t *testing.T) {
	tests := []struct {
		in         string
		capitalize bool
		want       string
	}{
		{"the matrix", true, "The Matrix"},
		{"the matrix", false, "the matrix"},
		{"Star Wars: A New Hope", false, "Star Wars A New Hope"},
		{"LÉON: the PROFESSIONAL", true, "Léon The Professional"},
		{"2001: A Space Odyssey", true, "2001 A Space Odyssey"},
		{"Ame\u0301lie", false, "Am\u00e9lie"},
		{"  ", true, ""},
	}
	for _, tt := range tests {
		if got := FormatTitle(tt.in, tt.capitalize); got != tt.want {
			t.Errorf("FormatTitle(%q, %v) = %q, want %q", tt.in, tt.capitalize, got, tt.want)
		}
	}
}

func TestFormatTitlePreservesCaseWithoutCapitalize(t *testing.T) {
	if got := FormatTitle("eXistenZ", false); got != "eXistenZ" {
		t.Fatalf("FormatTitle changed case: %q", got)
	}
	if Normalize("eXistenZ") != "existenz" {
		t.Fatalf("Normalize should fold case")
	}
}
