// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Similarity thresholds for colouring passage scores.
const (
	StrongMatch = 0.75
	FairMatch   = 0.40
)

// Theme is the colour palette. Each colour adapts to light and dark terminals.
type Theme struct {
	Accent    lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Text      lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	BarFill   lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor

	// Strong, Fair and Weak colour similarity scores by band.
	Strong lipgloss.AdaptiveColor
	Fair   lipgloss.AdaptiveColor
	Weak   lipgloss.AdaptiveColor
}

// DefaultTheme returns the default palette.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:    lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#2DD4BF"},
		Secondary: lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#93C5FD"},
		Text:      lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#E5E7EB"},
		Muted:     lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"},
		Border:    lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#374151"},
		BarFill:   lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#111827"},
		Error:     lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"},
		Strong:    lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"},
		Fair:      lipgloss.AdaptiveColor{Light: "#A16207", Dark: "#FACC15"},
		Weak:      lipgloss.AdaptiveColor{Light: "#9A3412", Dark: "#FB923C"},
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style

	// InputField frames the query box.
	InputField lipgloss.Style

	// StatusBar is the bottom line of the query view.
	StatusBar lipgloss.Style

	// Badge marks the active mode in the status bar.
	Badge lipgloss.Style

	// Answer frames an assembled answer so it reads as quoted context.
	Answer lipgloss.Style

	scoreStrong lipgloss.Style
	scoreFair   lipgloss.Style
	scoreWeak   lipgloss.Style
}

// NewStyles creates styles from a theme. A nil theme uses DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Accent),
		Subtitle: lipgloss.NewStyle().Bold(true).Foreground(theme.Secondary),
		Normal:   lipgloss.NewStyle().Foreground(theme.Text),
		Muted:    lipgloss.NewStyle().Foreground(theme.Muted),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(theme.Accent),
		Error:    lipgloss.NewStyle().Foreground(theme.Error),
		Help:     lipgloss.NewStyle().Foreground(theme.Muted).Italic(true),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.BarFill).
			Padding(0, 1),

		Badge: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.BarFill).
			Background(theme.Secondary).
			Padding(0, 1),

		Answer: lipgloss.NewStyle().
			Foreground(theme.Text).
			BorderStyle(lipgloss.ThickBorder()).
			BorderLeft(true).
			BorderForeground(theme.Accent).
			PaddingLeft(1),

		scoreStrong: lipgloss.NewStyle().Foreground(theme.Strong),
		scoreFair:   lipgloss.NewStyle().Foreground(theme.Fair),
		scoreWeak:   lipgloss.NewStyle().Foreground(theme.Weak),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Score returns the style for a cosine similarity.
func (s *Styles) Score(similarity float64) lipgloss.Style {
	switch {
	case similarity >= StrongMatch:
		return s.scoreStrong
	case similarity >= FairMatch:
		return s.scoreFair
	default:
		return s.scoreWeak
	}
}
