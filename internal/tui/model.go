package tui

import (
	"log/slog"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mqttui/mqttui/internal/broker"
	"github.com/mqttui/mqttui/internal/historystore"
	"github.com/mqttui/mqttui/internal/viewmodel"
)

// Model is the top-level bubbletea model. It holds no business logic of
// its own beyond dispatch: tree/selection semantics live in viewmodel,
// and message decoding lives in broker and payload. mu protects the
// fields the render path reads from being mutated concurrently by a
// broker event arriving between Update and View (spec §8 invariant 5:
// "Rendering a frame does not mutate the store or the view model").
type Model struct {
	mu sync.RWMutex

	store *historystore.Store
	conn  *broker.Connection
	vm    *viewmodel.State

	// treeHeight, historyHeight, and payloadHeight are each pane's
	// content row count, recomputed by layout() on every resize and used
	// both to window-render the pane's rows and to size PgUp/PgDn steps
	// and mouse-wheel hit testing.
	treeHeight    int
	historyHeight int
	payloadHeight int

	keys KeyMap
	help help.Model

	width, height int
	showHelp      bool

	connState broker.ConnState
	lastErr   error

	logger *slog.Logger

	quitting bool
}

// New builds the initial Model. conn may be nil in tests that don't
// exercise broker wiring.
func New(store *historystore.Store, conn *broker.Connection, logger *slog.Logger) *Model {
	h := help.New()
	h.ShowAll = false

	return &Model{
		store:     store,
		conn:      conn,
		vm:        viewmodel.New(),
		keys:      DefaultKeyMap(),
		help:      h,
		connState: broker.Connecting,
		logger:    logger,
	}
}

// Init starts the broker-state listener and the debounced redraw clock.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.listenForConnState(),
		tick(),
		tea.SetWindowTitle("mqttui"),
	)
}

func (m *Model) listenForConnState() tea.Cmd {
	if m.conn == nil {
		return nil
	}
	states := m.conn.States()
	return func() tea.Msg {
		sc, ok := <-states
		if !ok {
			return nil
		}
		return connStateMsg(sc)
	}
}

func tick() tea.Cmd {
	return tea.Tick(redrawInterval, func(t time.Time) tea.Msg {
		return redrawTickMsg(t)
	})
}

// Quitting reports whether the model has processed a quit request.
func (m *Model) Quitting() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.quitting
}

// LastError returns the most recently surfaced runtime error, if any.
func (m *Model) LastError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}
