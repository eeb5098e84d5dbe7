package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	widths := LayoutRow(100, 3)
	if widths[0] != 34 || widths[1] != 33 || widths[2] != 33 {
		t.Fatalf("LayoutRow(100, 3) = %v", widths)
	}
	if LayoutRow(10, 0) != nil {
		t.Fatal("LayoutRow with no items should be nil")
	}
}

func TestTabAtXMatchesRenderedTabs(t *testing.T) {
	for active := range Tabs {
		bar := RenderTabBar(active, 60)
		pos := 0
		for i := range Tabs {
			w := TabWidth(i, active)
			if got := TabAtX(pos+w/2, active); got != i {
				t.Fatalf("active=%d: midpoint of tab %d resolved to %d", active, i, got)
			}
			pos += w + len(tabSeparator)
		}
		if lipgloss.Width(bar) != 60 {
			t.Errorf("active=%d: tab bar width = %d, want 60", active, lipgloss.Width(bar))
		}
	}
	if TabAtX(500, 0) != -1 {
		t.Error("click past the last tab should hit nothing")
	}
}

func TestTabIdxByKey(t *testing.T) {
	if TabIdxByKey('b') != 1 || TabIdxByKey('z') != -1 {
		t.Fatal("unexpected tab lookup")
	}
}

func TestStatusBarWidth(t *testing.T) {
	bar := RenderStatusBar(40, "[q]uit", "3 transactions")
	if lipgloss.Width(bar) != 40 {
		t.Fatalf("status bar width = %d, want 40", lipgloss.Width(bar))
	}
	if !strings.Contains(bar, " [q]uit") || !strings.Contains(bar, "3 transactions") {
		t.Fatalf("status bar = %q", bar)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 7, -3, 14}, ""); got != "▁▄▁█" {
		t.Fatalf("Sparkline = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Groceries", 5); got != "Groc…" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("Food", 10); got != "Food" {
		t.Fatalf("truncate = %q", got)
	}
}
