package ui

import (
	"testing"
	"time"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"Tech Innovations Inc", 40, "Tech Innovations Inc"},
		{"Tech Innovations Inc", 8, "Tech In…"},
		{"  padded  ", 10, "padded"},
		{"abc", 1, "a"},
		{"anything", 0, "anything"},
		{"Überweisung", 4, "Übe…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.limit); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}

func TestFitColumn(t *testing.T) {
	if got := fitColumn("abc", 5); got != "abc  " {
		t.Fatalf("fitColumn pad = %q", got)
	}
	if got := fitColumn("abcdefgh", 5); got != "abcd…" {
		t.Fatalf("fitColumn cut = %q", got)
	}
}

func TestFormatAge(t *testing.T) {
	now := time.Date(2024, 6, 12, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		then time.Time
		want string
	}{
		{time.Time{}, "never"},
		{now.Add(-2 * time.Second), "just now"},
		{now.Add(-30 * time.Second), "30s ago"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-72 * time.Hour), "2024-06-09"},
	}
	for _, tt := range tests {
		if got := formatAge(tt.then, now); got != tt.want {
			t.Errorf("formatAge(%v) = %q, want %q", tt.then, got, tt.want)
		}
	}
}

func TestColumnWidths_FillWidth(t *testing.T) {
	cols := []column{{weight: 3}, {weight: 1}, {weight: 2}}
	widths := columnWidths(cols, 80)
	sum := len(cols) - 1
	for _, w := range widths {
		if w < 1 {
			t.Fatalf("column width %d < 1", w)
		}
		sum += w
	}
	if sum != 80 {
		t.Fatalf("widths %v plus gaps = %d, want 80", widths, sum)
	}
	if widths[0] <= widths[1] {
		t.Fatalf("heavier column should be wider: %v", widths)
	}
}

func TestDropWideColumns(t *testing.T) {
	cols := []column{{title: "Name"}, {title: "Website", wide: true}, {title: "Status"}}
	rows := []row{{cells: []string{"a", "b", "c"}, status: "Processed", target: "/x"}}

	gotCols, gotRows := dropWideColumns(cols, rows)
	if len(gotCols) != 2 || gotCols[1].title != "Status" {
		t.Fatalf("columns = %+v", gotCols)
	}
	if len(gotRows[0].cells) != 2 || gotRows[0].cells[1] != "c" || gotRows[0].target != "/x" {
		t.Fatalf("rows = %+v", gotRows)
	}
}
