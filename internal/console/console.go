// Package console implements the operator console front ends. Every submitted
// line becomes the current node command, except the literal quit, which stops
// the controller.
package console

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/BitFracture/squirrel-lighting-control/internal/config"
	"github.com/BitFracture/squirrel-lighting-control/internal/domain"
	"github.com/mattn/go-isatty"
)

// QuitWord stops the controller when entered on its own line.
const QuitWord = "quit"

// Dependencies are shared by both console front ends.
type Dependencies struct {
	Clients  domain.ClientLister
	Commands domain.CommandSource
	// OnQuit is called once when the operator asks the controller to stop.
	OnQuit func()
}

// IsQuit reports whether line is the quit sentinel, ignoring surrounding whitespace.
func IsQuit(line string) bool {
	return strings.TrimSpace(line) == QuitWord
}

// ResolveMode turns auto into tui or line depending on whether stdin is a terminal.
func ResolveMode(mode string, stdin *os.File) string {
	if mode != config.ConsoleAuto {
		return mode
	}
	fd := stdin.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return config.ConsoleTUI
	}
	return config.ConsoleLine
}

// Run starts the console in the given resolved mode and blocks until ctx is done,
// the operator quits, or input ends.
func Run(ctx context.Context, mode string, deps Dependencies) error {
	switch mode {
	case config.ConsoleTUI:
		return RunTUI(ctx, deps)
	case config.ConsoleLine:
		return NewLineConsole(os.Stdin, os.Stdout, deps).Run(ctx)
	case config.ConsoleOff:
		<-ctx.Done()
		return nil
	default:
		return fmt.Errorf("unknown console mode %q", mode)
	}
}
