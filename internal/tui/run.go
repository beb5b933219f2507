package tui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mqttui/mqttui/internal/broker"
	"github.com/mqttui/mqttui/internal/historystore"
)

// backend abstracts the parts of a bubbletea program's lifecycle Run
// needs to sequence deterministically on every exit path: running the
// event loop, and releasing the terminal (raw mode off, main screen,
// cursor visible) afterward. *tea.Program already satisfies this
// interface; tests substitute a recorder so the forced-panic path (spec
// §8 invariant 6) can be asserted without a real terminal.
type backend interface {
	Run() (tea.Model, error)
	ReleaseTerminal() error
}

// Run builds the Model, starts the bubbletea program in the alternate
// screen, and installs the panic-safe destruction hook spec §9 calls
// for: if Update or View panics, the terminal is released before the
// stack trace is printed and the error returned, rather than leaving the
// caller's shell in raw mode / the alternate screen (spec §8 invariant
// 6, §9 "Panic-safe terminal restoration").
func Run(ctx context.Context, store *historystore.Store, conn *broker.Connection, logger *slog.Logger) error {
	model := New(store, conn, logger)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithMouseCellMotion())
	return run(program)
}

func run(b backend) (err error) {
	defer func() {
		if r := recover(); r != nil {
			_ = b.ReleaseTerminal()
			fmt.Fprintf(os.Stderr, "mqttui: internal error: %v\n%s\n", r, debug.Stack())
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	_, runErr := b.Run()
	return runErr
}
