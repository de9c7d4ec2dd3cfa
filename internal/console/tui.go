package console

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/BitFracture/squirrel-lighting-control/internal/command"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const refreshInterval = time.Second

// TickMsg refreshes the client table and current command.
type TickMsg time.Time

// Model is the interactive console: a client table above a command prompt.
type Model struct {
	deps    Dependencies
	table   table.Model
	input   textinput.Model
	current string
	clients int
	notice  string
	quit    bool
}

func NewModel(deps Dependencies) Model {
	columns := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Address", Width: 18},
		{Title: "Last seen", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(false),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.NoColor{}).
		Bold(false)
	t.SetStyles(s)

	in := textinput.New()
	in.Placeholder = "command, or quit"
	in.Prompt = "> "
	in.CharLimit = 256
	in.Focus()

	m := Model{deps: deps, table: t, input: in}
	m.refresh(time.Now())
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m.stop()
		case tea.KeyEsc:
			m.input.Reset()
			return m, nil
		case tea.KeyEnter:
			line := m.input.Value()
			m.input.Reset()
			if IsQuit(line) {
				return m.stop()
			}
			cmd := m.deps.Commands.SetCommand(line)
			m.current = strings.TrimSuffix(cmd.Text, command.Terminator)
			m.notice = fmt.Sprintf("Sending %q", m.current)
			return m, nil
		}

	case TickMsg:
		m.refresh(time.Time(msg))
		return m, tickCmd()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) stop() (tea.Model, tea.Cmd) {
	m.quit = true
	slog.Info("Quit requested from console")
	if m.deps.OnQuit != nil {
		m.deps.OnQuit()
	}
	return m, tea.Quit
}

func (m *Model) refresh(now time.Time) {
	entries := m.deps.Clients.Snapshot()
	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		rows[i] = table.Row{e.Name, e.Address.String(), formatAge(now.Sub(e.LastSeen))}
	}
	m.table.SetRows(rows)
	m.clients = len(entries)
	m.current = strings.TrimSuffix(m.deps.Commands.Current().Text, command.Terminator)
}

// Quitting reports whether the operator asked to stop.
func (m Model) Quitting() bool {
	return m.quit
}

func formatAge(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return d.Truncate(time.Second).String()
}

// RunTUI runs the interactive console until the operator quits or ctx is cancelled.
func RunTUI(ctx context.Context, deps Dependencies, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	p := tea.NewProgram(NewModel(deps), opts...)

	stop := context.AfterFunc(ctx, p.Quit)
	defer stop()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("console failed: %w", err)
	}
	return nil
}
