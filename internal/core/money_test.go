package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"12.345", 1234, true},
		{"12.346", 1235, true},
		{"0.01", 1, true},
		{"", 0, false},
		{"-5", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
	}
	for i, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("case %d: got %d, %v; want %d", i, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestMoneyFromFloat(t *testing.T) {
	if got := MoneyFromFloat(11.20); got.Cents != 1120 {
		t.Fatalf("expected 1120, got %d", got.Cents)
	}
	if got := MoneyFromFloat(3.555); got.Cents != 356 {
		t.Fatalf("expected 356, got %d", got.Cents)
	}
	if got := MoneyFromFloat(0); got.Cents != 0 {
		t.Fatalf("expected 0, got %d", got.Cents)
	}
}

func TestMoneyAddAndString(t *testing.T) {
	sum := Money{Cents: 5000}.Add(Money{Cents: 3000})
	if sum.Cents != 8000 {
		t.Fatalf("expected 8000, got %d", sum.Cents)
	}
	if got := sum.String(); got != "80,00 zł" {
		t.Fatalf("unexpected format %q", got)
	}
	if got := (Money{Cents: -5}).String(); got != "-0,05 zł" {
		t.Fatalf("unexpected format %q", got)
	}
}
