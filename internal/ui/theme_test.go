package ui

import (
	"testing"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 2 {
		t.Fatalf("ThemeNames() returned %d names, want 2", len(names))
	}
	if names[0] != "Dracula" || names[1] != "Slate" {
		t.Fatalf("ThemeNames() = %v, want [Dracula Slate]", names)
	}
}

func TestNextTheme(t *testing.T) {
	if got := NextTheme("Dracula"); got != "Slate" {
		t.Fatalf("NextTheme(Dracula) = %q, want Slate", got)
	}
	if got := NextTheme("Slate"); got != "Dracula" {
		t.Fatalf("NextTheme(Slate) = %q, want Dracula", got)
	}
	if got := NextTheme("Unknown"); got != "Dracula" {
		t.Fatalf("NextTheme(Unknown) = %q, want Dracula", got)
	}
}

func TestGetTheme(t *testing.T) {
	if got := GetTheme("Slate").Name; got != "Slate" {
		t.Fatalf("GetTheme(Slate).Name = %q, want Slate", got)
	}
	if got := GetTheme("Unknown").Name; got != "Dracula" {
		t.Fatalf("GetTheme(Unknown).Name = %q, want Dracula (fallback)", got)
	}
}

func TestStatusColor_NormalizesLabels(t *testing.T) {
	th := GetTheme("Dracula")
	styles := th.Styles()

	tests := []struct {
		status string
		key    string
	}{
		{"InQueue", "inqueue"},
		{"In Progress", "inprogress"},
		{"submit failed", "submitfailed"},
		{"  Processed ", "processed"},
		{"NotExtracted", "notextracted"},
	}
	for _, tt := range tests {
		if got := styles.StatusColor(tt.status); got != th.StatusColors[tt.key] {
			t.Errorf("StatusColor(%q) = %q, want %q", tt.status, got, th.StatusColors[tt.key])
		}
	}
	if got := styles.StatusColor("unheard-of"); got != th.Muted {
		t.Fatalf("StatusColor(unknown) = %q, want muted %q", got, th.Muted)
	}
}

func TestThemesCoverTheSameStatuses(t *testing.T) {
	dracula, slate := GetTheme("Dracula"), GetTheme("Slate")
	for k := range dracula.StatusColors {
		if _, ok := slate.StatusColors[k]; !ok {
			t.Errorf("Slate is missing status color %q", k)
		}
	}
	if len(dracula.StatusColors) != len(slate.StatusColors) {
		t.Fatalf("status tables differ: %d vs %d", len(dracula.StatusColors), len(slate.StatusColors))
	}
}
