// Package style defines the lipgloss styles of the terminal renderer
package style

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/ui/view"
)

// Base styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			MarginTop(1)

	NormalStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	KeyStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Width(16)

	PathStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Italic(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	ErrorBoxStyle = BoxStyle.
			BorderForeground(ErrorColor)

	ListItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)
)

// ForStatus returns the style used for text with status s
func ForStatus(s view.Status) lipgloss.Style {
	switch s {
	case view.StatusOK:
		return SuccessStyle
	case view.StatusWarning:
		return WarningStyle
	case view.StatusError:
		return ErrorStyle
	case view.StatusInfo:
		return InfoStyle
	default:
		return NormalStyle
	}
}

// Symbol returns the list marker for status s
func Symbol(s view.Status) string {
	switch s {
	case view.StatusOK:
		return "✓"
	case view.StatusWarning:
		return "!"
	case view.StatusError:
		return "✗"
	default:
		return "•"
	}
}
