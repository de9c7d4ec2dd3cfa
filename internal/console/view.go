package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func (m Model) View() string {
	if m.quit {
		return "Shutting down...\n"
	}

	title := titleStyle.Render("Squirrel Lighting Controller")

	current := m.current
	if current == "" {
		current = mutedStyle.Render("(none)")
	}
	status := boxStyle.Render(fmt.Sprintf("Clients: %d\nCommand: %s", m.clients, current))

	clients := boxStyle.Render(m.table.View())

	var b strings.Builder
	b.WriteString(m.input.View())
	if m.notice != "" {
		b.WriteString("\n" + mutedStyle.Render(m.notice))
	}
	b.WriteString("\n" + mutedStyle.Render("enter: send • esc: clear • quit or ctrl+c: stop controller"))

	return lipgloss.JoinVertical(lipgloss.Left, title, status, clients, b.String()) + "\n"
}
