package display

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/weavex/quotabar/internal/actionbar"
	"github.com/weavex/quotabar/internal/quota"
	"github.com/weavex/quotabar/internal/widget"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	greenStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	yellowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	redStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func colorStyle(color string) lipgloss.Style {
	switch color {
	case "green":
		return greenStyle
	case "yellow":
		return yellowStyle
	case "red":
		return redStyle
	default:
		return lipgloss.NewStyle()
	}
}

// LoadingText is shown in place of the label while a refresh is in flight.
const LoadingText = "loading..."

// EditingText is shown in place of the label while a key is being entered.
const EditingText = "enter API key"

// LabelOptions configures RenderLabel.
type LabelOptions struct {
	NoColor bool
	// Spinner, when set, prefixes the loading text.
	Spinner string
}

// RenderLabel renders the compact quota label for a phase.
func RenderLabel(phase widget.Phase, view quota.View, opts LabelOptions) string {
	var text string
	style := lipgloss.NewStyle()

	switch phase {
	case widget.Loading:
		text = LoadingText
		if opts.Spinner != "" {
			text = opts.Spinner + " " + text
		}
		style = dimStyle
	case widget.EditingKey:
		text = EditingText
		style = dimStyle
	case widget.Error:
		text = view.Label()
		style = redStyle
	default:
		text = view.Label()
		style = colorStyle(CreditsToColor(view))
	}

	if opts.NoColor {
		return text
	}
	return style.Render(text)
}

// RenderBar lays out the action bar with the quota slot showing label.
func RenderBar(actions []actionbar.Action, label string, noColor bool) string {
	sep := " │ "
	if !noColor {
		sep = separatorStyle.Render(sep)
	}
	return strings.Join(actionbar.Labels(actions, label), sep)
}

// RenderNotice renders a widget notice with its level color.
func RenderNotice(n widget.Notice, noColor bool) string {
	prefix := "•"
	style := dimStyle
	switch n.Level {
	case widget.LevelWarn:
		prefix, style = "!", yellowStyle
	case widget.LevelError:
		prefix, style = "✗", redStyle
	}
	text := prefix + " " + n.Message
	if noColor {
		return text
	}
	return style.Render(text)
}

// RenderTitle renders a bold heading.
func RenderTitle(s string, noColor bool) string {
	if noColor {
		return s
	}
	return titleStyle.Render(s)
}
