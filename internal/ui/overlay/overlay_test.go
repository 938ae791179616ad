package overlay

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func TestCompose(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		overlay string
		width   int
		want    string
	}{
		{"replaces at offset", "abcdefgh", "  XY", 8, "abXYefgh"},
		{"blank line keeps base", "abcd\nefgh", "    \n X", 4, "abcd\neXgh"},
		{"inner spaces overwrite", "abcdefgh", " X  Y", 8, "aX  Yfgh"},
		{"pads short base", "ab", "   Z", 5, "ab Z "},
		{"extra overlay lines ignored", "ab", "X\nY", 2, "Xb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compose(tt.base, tt.overlay, tt.width); got != tt.want {
				t.Errorf("Compose() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompose_StyledBase(t *testing.T) {
	base := lipgloss.NewStyle().Bold(true).Render("abcdef")
	got := ansi.Strip(Compose(base, "  ZZ", 6))
	if got != "abZZef" {
		t.Errorf("Compose() = %q, want %q", got, "abZZef")
	}
}

func TestCenter(t *testing.T) {
	base := strings.Repeat(strings.Repeat(".", 9)+"\n", 4) + strings.Repeat(".", 9)
	got := strings.Split(Center(base, "###", 9, 5), "\n")

	if len(got) != 5 {
		t.Fatalf("Center() has %d lines, want 5", len(got))
	}
	if got[2] != "...###..." {
		t.Errorf("middle line = %q, want %q", got[2], "...###...")
	}
	if got[0] != "........." {
		t.Errorf("first line = %q, want base", got[0])
	}
}
