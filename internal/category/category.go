// Package category normalizes free-text product categories into a
// canonical display name and a display icon.
package category

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// OtherLabel is the canonical name for products without a category.
const OtherLabel = "Other"

// FallbackIcon is used when no keyword matches.
const FallbackIcon = "📦"

type iconRule struct {
	keyword string
	icon    string
}

// iconTable is evaluated in order; the first keyword found as a
// substring of the lowercased raw category wins.
var iconTable = []iconRule{
	{"napoje", "🥤"},
	{"przyprawy", "🧂"},
	{"nabiał", "🧀"},
	{"mięso", "🥩"},
	{"wędliny", "🥓"},
	{"warzywa", "🥦"},
	{"owoce", "🍎"},
	{"pieczywo", "🍞"},
	{"makarony", "🍝"},
	{"ryż", "🍚"},
	{"słodycze", "🍬"},
	{"inne", "📦"},
}

// Canonicalize maps a raw category string to its display name and icon.
// The display transform trims whitespace and upper-cases only the first
// rune; it is not full title-casing. Empty input yields OtherLabel.
func Canonicalize(raw string) (string, string) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return OtherLabel, Icon(OtherLabel)
	}
	return capitalizeFirst(trimmed), Icon(trimmed)
}

// Icon returns the icon for a category via ordered substring matching
// against the lowercased input. Always returns a value.
func Icon(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, rule := range iconTable {
		if strings.Contains(lower, rule.keyword) {
			return rule.icon
		}
	}
	return FallbackIcon
}

func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
