package ui

import (
	"strings"
	"testing"

	"github.com/vanderheijden86/taskpeek/pkg/route"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 8, "this is…"},
		{"日本語テキスト", 7, "日本語…"},
		{"anything", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestCellPadsToWidth(t *testing.T) {
	if got := cell("ab", 5); got != "ab   " {
		t.Errorf("expected padded cell, got %q", got)
	}
	if got := cell("abcdefgh", 5); got != "abcd…" {
		t.Errorf("expected truncated cell, got %q", got)
	}
}

func TestCycle(t *testing.T) {
	if got := cycle(route.Swimlanes, route.SwimlaneMilestone); got != route.SwimlaneStatus {
		t.Errorf("expected wrap to status, got %q", got)
	}
	if got := cycle(route.SortFields, "bogus"); got != route.SortFields[0] {
		t.Errorf("expected first field for unknown value, got %q", got)
	}
}

func TestWindow(t *testing.T) {
	lines := []string{"a", "b", "c", "d", "e"}
	if got := window(lines, 4, 3); strings.Join(got, "") != "cde" {
		t.Errorf("expected window ending at focus, got %v", got)
	}
	if got := window(lines, -1, 3); strings.Join(got, "") != "abc" {
		t.Errorf("expected top window, got %v", got)
	}
	if got := window(lines, 0, 10); len(got) != 5 {
		t.Errorf("expected all lines, got %v", got)
	}
}

func TestRenderStatusBadge(t *testing.T) {
	for status, label := range map[string]string{"to_do": "TODO", "in_progress": "PROG", "blocked": "BLKD", "done": "DONE", "x": "????"} {
		if got := RenderStatusBadge(status); !strings.Contains(got, label) {
			t.Errorf("badge for %q = %q, want %q", status, got, label)
		}
	}
}

func TestProgressBar(t *testing.T) {
	if got := progressBar(50, 10); strings.Count(got, "█") != 5 || strings.Count(got, "░") != 5 {
		t.Errorf("unexpected bar %q", got)
	}
	if got := progressBar(150, 4); strings.Count(got, "█") != 4 {
		t.Errorf("expected full bar, got %q", got)
	}
}
