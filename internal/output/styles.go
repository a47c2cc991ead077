package output

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	ColorPrimary = lipgloss.Color("#F59E0B")
	ColorAccent  = lipgloss.Color("#3B82F6")
	ColorSuccess = lipgloss.Color("#10B981")
	ColorDanger  = lipgloss.Color("#EF4444")
	ColorMuted   = lipgloss.Color("#6B7280")
	ColorBorder  = lipgloss.Color("#374151")
)

// Console styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent).
			MarginTop(1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Width(26)

	ValueStyle = lipgloss.NewStyle().
			Bold(true)

	PositiveStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	NegativeStyle = lipgloss.NewStyle().
			Foreground(ColorDanger)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorAccent).
				Padding(0, 1)

	TableCellStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Align(lipgloss.Right)
)

// SignedStyle colors a value by its sign
func SignedStyle(negative bool) lipgloss.Style {
	if negative {
		return NegativeStyle
	}
	return PositiveStyle
}
