// Package styles renders careshell CLI output with lipgloss.
package styles

import "github.com/charmbracelet/lipgloss"

// Palette holds the base colors of a theme.
type Palette struct {
	Background     string
	Surface        string
	SurfaceVariant string
	Text           string
	Muted          string
	Accent         string
	Border         string
}

// Theme holds lipgloss colors and the styles derived from them.
type Theme struct {
	Background     lipgloss.Color
	Surface        lipgloss.Color
	SurfaceVariant lipgloss.Color
	Text           lipgloss.Color
	Muted          lipgloss.Color
	Accent         lipgloss.Color
	Border         lipgloss.Color

	Error   lipgloss.Color
	Warning lipgloss.Color
	Success lipgloss.Color

	Title        lipgloss.Style
	Subtitle     lipgloss.Style
	Normal       lipgloss.Style
	Subtle       lipgloss.Style
	Highlight    lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	SuccessStyle lipgloss.Style

	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	TabBar      lipgloss.Style

	Badge      lipgloss.Style
	BadgeMuted lipgloss.Style

	Box lipgloss.Style
}

// DefaultDarkPalette returns the built-in dark colors.
func DefaultDarkPalette() Palette {
	return Palette{
		Background:     "#0a0a0b",
		Surface:        "#1a1a1b",
		SurfaceVariant: "#2d2d2d",
		Text:           "#ffffff",
		Muted:          "#909090",
		Accent:         "#38bdf8",
		Border:         "#333333",
	}
}

// NewTheme creates the default dark theme.
func NewTheme() *Theme {
	return NewThemeFromPalette(DefaultDarkPalette())
}

// NewThemeFromPalette creates a Theme from p.
func NewThemeFromPalette(p Palette) *Theme {
	t := &Theme{
		Background:     lipgloss.Color(p.Background),
		Surface:        lipgloss.Color(p.Surface),
		SurfaceVariant: lipgloss.Color(p.SurfaceVariant),
		Text:           lipgloss.Color(p.Text),
		Muted:          lipgloss.Color(p.Muted),
		Accent:         lipgloss.Color(p.Accent),
		Border:         lipgloss.Color(p.Border),

		Error:   lipgloss.Color("#ef4444"),
		Warning: lipgloss.Color("#f59e0b"),
		Success: lipgloss.Color("#4ade80"),
	}
	t.buildStyles()
	return t
}

func (t *Theme) buildStyles() {
	t.Title = lipgloss.NewStyle().
		Foreground(t.Text).
		Bold(true)

	t.Subtitle = lipgloss.NewStyle().
		Foreground(t.Muted).
		Bold(true)

	t.Normal = lipgloss.NewStyle().
		Foreground(t.Text)

	t.Subtle = lipgloss.NewStyle().
		Foreground(t.Muted)

	t.Highlight = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(t.Error)

	t.WarningStyle = lipgloss.NewStyle().
		Foreground(t.Warning)

	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(t.Success)

	t.ActiveTab = lipgloss.NewStyle().
		Foreground(t.Background).
		Background(t.Accent).
		Padding(0, 2).
		Bold(true)

	t.InactiveTab = lipgloss.NewStyle().
		Foreground(t.Muted).
		Background(t.Surface).
		Padding(0, 2)

	t.TabBar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(t.Border)

	t.Badge = lipgloss.NewStyle().
		Foreground(t.Background).
		Background(t.Accent).
		Padding(0, 1)

	t.BadgeMuted = lipgloss.NewStyle().
		Foreground(t.Text).
		Background(t.SurfaceVariant).
		Padding(0, 1)

	t.Box = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(1, 2)
}
