package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/DoyleJ11/bpl-pickems/internal/catalog"
)

// Static styles for content elements
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#0F172A")).
			Bold(true).
			Padding(0, 1)

	TabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A1A1AA")).
			Padding(0, 1)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0F172A")).
			Background(lipgloss.Color("#FACC15")).
			Bold(true).
			Padding(0, 1)

	RankStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717A")).
			Width(3).
			Align(lipgloss.Right)

	QualifiedRankStyle = RankStyle.
				Foreground(lipgloss.Color("#FACC15")).
				Bold(true)

	EmptySlotStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#334155")).
			Width(24)

	CutoffStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FACC15"))

	CursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true)

	SelectedStyle = lipgloss.NewStyle().
			Underline(true).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)
)

// TeamStyle paints a team card in its league colours.
func TeamStyle(t catalog.Team) lipgloss.Style {
	s := lipgloss.NewStyle().Width(24).Padding(0, 1)
	if bg, err := catalog.ParseColor(t.Color); err == nil {
		s = s.Background(lipgloss.Color(bg.Hex()))
	}
	if fg, err := catalog.ParseColor(t.TextColor); err == nil {
		s = s.Foreground(lipgloss.Color(fg.Hex()))
	}
	return s
}
