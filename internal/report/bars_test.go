package report

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestBar(t *testing.T) {
	if bar(0, 100, 10) != "" {
		t.Fatalf("expected empty bar for zero value")
	}
	if got := bar(100, 100, 10); got != strings.Repeat("█", 10) {
		t.Fatalf("expected full bar, got %q", got)
	}
	if got := bar(1, 1000, 10); got != "▏" {
		t.Fatalf("expected minimal bar, got %q", got)
	}
	if got := bar(50, 100, 10); got != strings.Repeat("█", 5) {
		t.Fatalf("expected half bar, got %q", got)
	}
	if got := utf8.RuneCountInString(bar(500, 100, 10)); got != 10 {
		t.Fatalf("expected clamped bar, got %d cells", got)
	}
}

func TestUpperLimit(t *testing.T) {
	cases := map[int]int{0: 100, 1: 100, 100: 100, 101: 200, 1021: 1100}
	for in, want := range cases {
		if got := upperLimit(in); got != want {
			t.Fatalf("upperLimit(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestRedShade(t *testing.T) {
	if ShadeHex(0, 10) != "#fff5f0" {
		t.Fatalf("unexpected low shade %s", ShadeHex(0, 10))
	}
	if ShadeHex(10, 10) != "#67000d" {
		t.Fatalf("unexpected high shade %s", ShadeHex(10, 10))
	}
	if ShadeHex(5, 0) != "#fff5f0" {
		t.Fatalf("expected lowest shade for empty scale")
	}
	mid := redShade(1, 8)
	if mid != redStops[1] {
		t.Fatalf("expected exact stop, got %+v", mid)
	}
}

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"State", "Total", "White"}
	rows := [][]string{
		{"CA", "2", "12"},
		{"Unknown", "108", "3"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "State   Total White" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "CA          2    12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Unknown   108     3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestDisplayWidthIgnoresEscapes(t *testing.T) {
	if got := displayWidth("\x1b[31mabc\x1b[0m"); got != 3 {
		t.Fatalf("expected width 3, got %d", got)
	}
	if got := displayWidth("東京"); got != 4 {
		t.Fatalf("expected wide runes width 4, got %d", got)
	}
}
