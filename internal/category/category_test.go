package category

import "testing"

func TestCanonicalize(t *testing.T) {
	cases := []struct {
		in       string
		wantName string
		wantIcon string
	}{
		{"napoje", "Napoje", "🥤"},
		{"  napoje  ", "Napoje", "🥤"},
		{"Warzywa", "Warzywa", "🥦"},
		{"warzywa liściaste", "Warzywa liściaste", "🥦"},
		{"mięso", "Mięso", "🥩"},
		{"ryż basmati", "Ryż basmati", "🍚"},
		{"", "Other", "📦"},
		{"   ", "Other", "📦"},
		{"elektronika", "Elektronika", "📦"},
	}
	for i, tc := range cases {
		name, icon := Canonicalize(tc.in)
		if name != tc.wantName {
			t.Fatalf("case %d: name %q, want %q", i, name, tc.wantName)
		}
		if icon != tc.wantIcon {
			t.Fatalf("case %d: icon %q, want %q", i, icon, tc.wantIcon)
		}
	}
}

func TestCanonicalizeIsPure(t *testing.T) {
	for i := 0; i < 3; i++ {
		name, icon := Canonicalize("nabiał")
		if name != "Nabiał" || icon != "🧀" {
			t.Fatalf("unstable result: %q %q", name, icon)
		}
	}
}

func TestIconFirstMatchWins(t *testing.T) {
	// Both "napoje" and "inne" appear; the table order decides.
	if got := Icon("napoje i inne"); got != "🥤" {
		t.Fatalf("expected first keyword to win, got %q", got)
	}
}

func TestCapitalizeFirstRuneOnly(t *testing.T) {
	name, _ := Canonicalize("słodycze DOMOWE")
	if name != "Słodycze DOMOWE" {
		t.Fatalf("rest of string must be unchanged, got %q", name)
	}
}
