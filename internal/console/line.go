package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/BitFracture/squirrel-lighting-control/internal/command"
)

// LineConsole reads commands one per line, for pipes and non-interactive terminals.
type LineConsole struct {
	in   io.Reader
	out  io.Writer
	deps Dependencies
}

func NewLineConsole(in io.Reader, out io.Writer, deps Dependencies) *LineConsole {
	return &LineConsole{in: in, out: out, deps: deps}
}

// Run returns nil on quit, on end of input, or when ctx is cancelled. End of input
// only ends the console; the controller keeps running.
func (lc *LineConsole) Run(ctx context.Context) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)

	// The scanner blocks in Read and cannot be interrupted; on cancellation
	// it is abandoned until the next line or process exit.
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(lc.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	lc.prompt()
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("failed to read console input: %w", err)
					}
				default:
				}
				slog.Info("Console input closed")
				return nil
			}
			if IsQuit(line) {
				slog.Info("Quit requested from console")
				if lc.deps.OnQuit != nil {
					lc.deps.OnQuit()
				}
				return nil
			}
			cmd := lc.deps.Commands.SetCommand(line)
			_, _ = fmt.Fprintf(lc.out, "Sending %q\n", strings.TrimSuffix(cmd.Text, command.Terminator))
			lc.prompt()
		}
	}
}

func (lc *LineConsole) prompt() {
	_, _ = fmt.Fprint(lc.out, "> ")
}
