package tui

import (
	"time"

	"github.com/mqttui/mqttui/internal/broker"
)

// redrawTickMsg fires on a fixed clock to debounce rapid input into a
// single redraw at most every redrawInterval (spec §9 "Debouncing the
// redraw").
type redrawTickMsg time.Time

// redrawInterval bounds redraw latency under scroll/ingest bursts.
const redrawInterval = 10 * time.Millisecond

// connStateMsg carries one broker.StateChange into the Bubble Tea loop.
type connStateMsg broker.StateChange

// fatalErrorMsg represents a runtime (not startup) broker error to show
// in the error overlay; it never terminates the program (spec §7
// "Runtime connection error").
type fatalErrorMsg struct{ err error }

// cleanRetainedDoneMsg reports the outcome of an interactive
// clean-retained operation for the confirmation modal to display.
type cleanRetainedDoneMsg struct {
	topics []string
	err    error
}
