package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/lucasb-eyer/go-colorful"
)

func TestGradientBar_Width(t *testing.T) {
	tests := []struct {
		name          string
		width, filled int
		wantFill      int
	}{
		{"empty", 10, 0, 0},
		{"half", 10, 5, 5},
		{"overfilled", 10, 15, 10},
		{"negative", 4, -2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ansi.Strip(GradientBar(tt.width, tt.filled, "━", "─", T().Primary, T().Secondary))
			if w := lipgloss.Width(got); w != tt.width {
				t.Errorf("width = %d, want %d", w, tt.width)
			}
			fill := 0
			for _, r := range got {
				if r == '━' {
					fill++
				}
			}
			if fill != tt.wantFill {
				t.Errorf("filled = %d, want %d", fill, tt.wantFill)
			}
		})
	}
}

func TestGradientBar_ZeroWidth(t *testing.T) {
	if got := GradientBar(0, 3, "━", "─", "#000000", "#ffffff"); got != "" {
		t.Errorf("GradientBar(0) = %q, want empty", got)
	}
}

func TestApplyGradient_PreservesText(t *testing.T) {
	got := ansi.Strip(ApplyBoldGradient("frvmusic", "#a78bfa", "#f1a208"))
	if got != "frvmusic" {
		t.Errorf("ApplyBoldGradient() text = %q, want %q", got, "frvmusic")
	}
}

func TestGradient(t *testing.T) {
	tests := []struct {
		n         int
		wantLen   int
		wantFirst lipgloss.Color
		wantLast  lipgloss.Color
	}{
		{0, 0, "", ""},
		{1, 1, "#000000", "#000000"},
		{5, 5, "#000000", "#ffffff"},
	}
	for _, tt := range tests {
		got := Gradient(tt.n, "#000000", "#ffffff")
		if len(got) != tt.wantLen {
			t.Fatalf("Gradient(%d) len = %d, want %d", tt.n, len(got), tt.wantLen)
		}
		if tt.wantLen == 0 {
			continue
		}
		if got[0] != tt.wantFirst || got[len(got)-1] != tt.wantLast {
			t.Errorf("Gradient(%d) ends = %s..%s, want %s..%s", tt.n, got[0], got[len(got)-1], tt.wantFirst, tt.wantLast)
		}
	}
}

func TestGradient_NonHexEndpoint(t *testing.T) {
	got := Gradient(3, "12", "#ffffff")
	if len(got) != 3 || got[0] != "12" {
		t.Fatalf("Gradient() = %v, want 3 colors starting with the ANSI index", got)
	}
	if _, err := colorful.Hex(string(got[1])); err != nil {
		t.Errorf("middle color %q is not hex: %v", got[1], err)
	}
}

func TestUse(t *testing.T) {
	t.Cleanup(func() { Use("dark") })

	Use("light")
	if T().Name != "light" {
		t.Errorf("T().Name = %q, want light", T().Name)
	}
	Use("neon")
	if T().Name != "dark" {
		t.Errorf("T().Name = %q, want dark", T().Name)
	}
}
