package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderHelp renders the context-sensitive help footer.
func RenderHelp(editing bool, width int) string {
	if editing {
		return renderFormHelp(width)
	}
	return renderListHelp(width)
}

func renderListHelp(width int) string {
	keys := []string{
		helpKey("j/k", "navigate"),
		helpKey("enter", "edit"),
		helpKey("f", "favorite"),
		helpKey("n", "new event"),
		helpKey("1-4", "filter"),
		helpKey("D/T/P", "sort"),
		helpKey("?", "help"),
		helpKey("q", "quit"),
	}
	return renderHelpLine(keys, width)
}

func renderFormHelp(width int) string {
	keys := []string{
		helpKey("tab", "next field"),
		helpKey("shift+tab", "prev field"),
		helpKey("ctrl+s", "save"),
		helpKey("ctrl+d", "delete"),
		helpKey("esc", "close"),
	}
	return renderHelpLine(keys, width)
}

func helpKey(key, desc string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(desc)
}

func renderHelpLine(keys []string, width int) string {
	line := strings.Join(keys, "  ")
	return FooterStyle.Width(width).Render(line)
}

// RenderFullHelp renders the full help screen.
func RenderFullHelp(width, height int) string {
	content := lipgloss.NewStyle().
		Width(width-4).
		Height(height-6).
		Padding(1, 2)

	sections := []string{
		titleSection("Trip list"),
		helpSection([]helpItem{
			{"j / ↓", "Move down"},
			{"k / ↑", "Move up"},
			{"gg / G", "Jump to top / bottom"},
			{"enter / e", "Edit selected event"},
			{"f", "Toggle favorite"},
			{"n", "New event"},
			{"1 2 3 4", "Everything / Future / Present / Past"},
			{"D / T / P", "Sort by day / time / price"},
			{"i", "Show or hide destination pictures"},
			{"q", "Quit"},
			{"?", "Toggle help"},
		}),
		titleSection("Event form"),
		helpSection([]helpItem{
			{"tab / shift+tab", "Next / previous field"},
			{"← / →", "Change event type"},
			{"→", "Accept destination suggestion"},
			{"↑ / ↓ then space", "Pick offers"},
			{"ctrl+s", "Save"},
			{"ctrl+d", "Delete (cancel for a new event)"},
			{"esc", "Close without saving"},
		}),
	}

	helpText := content.Render(strings.Join(sections, "\n\n"))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Width(width).Render("Help"),
		helpText,
		FooterStyle.Width(width).Render(HelpKeyStyle.Render("esc")+" "+HelpDescStyle.Render("close help")),
	)
}

type helpItem struct {
	key  string
	desc string
}

func titleSection(title string) string {
	return LabelStyle.Render(title)
}

func helpSection(items []helpItem) string {
	var lines []string
	for _, item := range items {
		lines = append(lines, "  "+HelpKeyStyle.Render(item.key)+" - "+HelpDescStyle.Render(item.desc))
	}
	return strings.Join(lines, "\n")
}
