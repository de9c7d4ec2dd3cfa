// Package command holds the most recently requested node command.
//
// Every front end (console, HTTP) reduces to Cell.SetCommand; the broadcaster
// reads Cell.Current on each tick. No history is kept.
package command

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/BitFracture/squirrel-lighting-control/internal/domain"
	"github.com/jonboulle/clockwork"
)

// Terminator ends every command written to a node.
const Terminator = "\n"

// Cell is the shared current-command value.
type Cell struct {
	mu      sync.RWMutex
	current domain.Command
	clock   clockwork.Clock
}

// NewCell creates a cell. A non-blank initial value is normalized like SetCommand;
// a blank one leaves the cell empty so nothing is sent until a command arrives.
func NewCell(initial string, clock clockwork.Clock) *Cell {
	c := &Cell{clock: clock}
	if strings.TrimSpace(initial) != "" {
		c.current = domain.Command{Text: Normalize(initial), UpdatedAt: clock.Now()}
	}
	return c
}

// Normalize trims surrounding whitespace and appends the line terminator.
func Normalize(text string) string {
	return strings.TrimSpace(text) + Terminator
}

// SetCommand replaces the current command and returns the stored value.
func (c *Cell) SetCommand(text string) domain.Command {
	cmd := domain.Command{Text: Normalize(text), UpdatedAt: c.clock.Now()}

	c.mu.Lock()
	c.current = cmd
	c.mu.Unlock()

	slog.Info("Command set", "command", strings.TrimSuffix(cmd.Text, Terminator))
	return cmd
}

// Current returns the command the next broadcast cycle will send.
func (c *Cell) Current() domain.Command {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}
