package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mqttui/mqttui/internal/broker"
	"github.com/mqttui/mqttui/internal/cleanretained"
	"github.com/mqttui/mqttui/internal/historystore"
	"github.com/mqttui/mqttui/internal/payload"
	"github.com/mqttui/mqttui/internal/viewmodel"
)

// errNoConnection is returned when a clean-retained confirmation is
// processed without a live broker connection, which only happens in
// tests that build a Model with a nil *broker.Connection.
var errNoConnection = errors.New("no broker connection")

// Update dispatches one tea.Msg. Business-state mutation is delegated to
// m.vm; Update itself only decides which viewmodel method a given
// keyboard or mouse event maps to.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.mu.Lock()
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		m.mu.Unlock()
		return m, nil

	case tea.MouseMsg:
		m.mu.Lock()
		m.handleMouse(msg)
		m.mu.Unlock()
		return m, nil

	case connStateMsg:
		m.mu.Lock()
		m.connState = msg.State
		if msg.State == broker.Disconnected && msg.Reason != nil {
			m.lastErr = msg.Reason
		}
		m.mu.Unlock()
		return m, m.listenForConnState()

	case fatalErrorMsg:
		m.mu.Lock()
		m.lastErr = msg.err
		m.mu.Unlock()
		return m, nil

	case cleanRetainedDoneMsg:
		m.mu.Lock()
		m.vm.CloseModal()
		if msg.err != nil {
			m.lastErr = msg.err
		}
		m.mu.Unlock()
		return m, nil

	case redrawTickMsg:
		return m, tick()
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	if m.vm.Modal.Kind == viewmodel.ModalConfirmCleanRetained {
		return m.handleModalKey(msg)
	}

	if m.vm.SearchActive {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		m.vm.CycleFocus()
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.vm.SetSearch("")
		return m, nil

	case key.Matches(msg, m.keys.ExpandAll):
		m.vm.ExpandAll(AllTopics(m.store.SnapshotTree()))
		return m, nil

	case key.Matches(msg, m.keys.CollapseAll):
		m.vm.CollapseAll()
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		if m.vm.SelectedTopic != "" {
			m.vm.ToggleOpen(m.vm.SelectedTopic)
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		m.handleDelete()
		return m, nil
	}

	m.moveSelection(msg)
	return m, nil
}

// handleDelete implements spec §4.5's Del/Backspace row: on the tree
// panel it opens the clean-retained confirm dialog for the selected
// subtree; on the history table it removes the selected entry from the
// local store only, never touching the broker. Caller holds m.mu.
func (m *Model) handleDelete() {
	if m.vm.SelectedTopic == "" {
		return
	}

	if m.vm.Focus == viewmodel.PanelHistory {
		hist := m.store.SnapshotHistory(m.vm.SelectedTopic)
		if offset, ok := m.vm.ResolveHistorySelection(hist); ok {
			m.store.RemoveHistoryEntry(m.vm.SelectedTopic, offset)
			m.vm.ClearHistorySelection()
		}
		return
	}

	m.vm.OpenConfirmCleanRetained(m.vm.SelectedTopic)
}

// handleSearchKey routes input while the search box is focused (spec §4.5
// "/", §8 scenario 6: typing inserts literally, Esc cancels, Enter
// commits).
func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.vm.CancelSearch()
		return m, nil
	case tea.KeyEnter:
		m.vm.CommitSearch()
		return m, nil
	case tea.KeyBackspace:
		q := m.vm.SearchQuery
		if len(q) > 0 {
			m.vm.SetSearch(q[:len(q)-1])
		}
		return m, nil
	case tea.KeyRunes:
		m.vm.SetSearch(m.vm.SearchQuery + string(msg.Runes))
		return m, nil
	case tea.KeySpace:
		m.vm.SetSearch(m.vm.SearchQuery + " ")
		return m, nil
	default:
		return m, nil
	}
}

// handleModalKey routes input while the clean-retained confirmation modal
// is showing (spec §4.5 "Del, Backspace"): Enter/y confirms, anything
// else (notably Esc/n) cancels.
func (m *Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	topic := m.vm.Modal.Topic

	confirm := msg.Type == tea.KeyEnter
	if msg.Type == tea.KeyRunes && string(msg.Runes) == "y" {
		confirm = true
	}

	if !confirm {
		m.vm.CloseModal()
		return m, nil
	}

	return m, m.runCleanRetained(topic)
}

// runCleanRetained publishes an empty retained message to every topic in
// the subtree rooted at topic (spec §4.8 rule 3), using the already-open
// connection. The work runs as a tea.Cmd, off the Update path, and
// returns a cleanRetainedDoneMsg on completion; the modal state stays
// open until that message arrives.
func (m *Model) runCleanRetained(topic string) tea.Cmd {
	conn := m.conn
	store := m.store
	filter := topic + "/#"
	return func() tea.Msg {
		if conn == nil {
			return cleanRetainedDoneMsg{err: errNoConnection}
		}
		result, err := cleanretained.Interactive(conn, store, filter, false)
		return cleanRetainedDoneMsg{topics: result.Topics, err: err}
	}
}

// moveSelection handles the navigation keys (Up/Down/PgUp/PgDn/Home/End/
// Left/Right) against whichever pane has focus. Caller holds m.mu.
func (m *Model) moveSelection(msg tea.KeyMsg) {
	switch m.vm.Focus {
	case viewmodel.PanelHistory:
		m.moveHistorySelection(msg)
	case viewmodel.PanelPayload:
		m.moveJSONSelection(msg)
	default:
		m.moveTreeSelection(msg)
	}
}

// moveTreeSelection drives the tree panel: Up/Down/PgUp/PgDn/Home/End move
// the selected row, and Left/Right (h/l) collapse/expand it (spec §4.5).
func (m *Model) moveTreeSelection(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.stepTreeSelection(-1)
	case key.Matches(msg, m.keys.Down):
		m.stepTreeSelection(1)
	case key.Matches(msg, m.keys.PageUp):
		m.stepTreeSelection(-halfPage(m.treeHeight))
	case key.Matches(msg, m.keys.PageDown):
		m.stepTreeSelection(halfPage(m.treeHeight))
	case key.Matches(msg, m.keys.Home):
		m.jumpTreeSelection(true)
	case key.Matches(msg, m.keys.End):
		m.jumpTreeSelection(false)
	case key.Matches(msg, m.keys.Left):
		if m.vm.SelectedTopic != "" {
			m.vm.Collapse(m.vm.SelectedTopic)
		}
	case key.Matches(msg, m.keys.Right):
		if m.vm.SelectedTopic != "" {
			m.vm.Expand(m.vm.SelectedTopic)
		}
	}
}

func (m *Model) stepTreeSelection(delta int) {
	rows := FlattenVisible(m.store.SnapshotTree(), m.vm)
	if len(rows) == 0 {
		return
	}
	idx := IndexOfTopic(rows, m.vm.SelectedTopic)
	if idx < 0 {
		idx = 0
	} else {
		idx += delta
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(rows) {
		idx = len(rows) - 1
	}
	m.vm.SelectTopic(rows[idx].Topic)
	m.vm.EnsureTreeVisible(idx, m.treeHeight)
}

func (m *Model) jumpTreeSelection(toFirst bool) {
	rows := FlattenVisible(m.store.SnapshotTree(), m.vm)
	if len(rows) == 0 {
		return
	}
	idx := 0
	if !toFirst {
		idx = len(rows) - 1
	}
	m.vm.SelectTopic(rows[idx].Topic)
	m.vm.EnsureTreeVisible(idx, m.treeHeight)
}

// moveHistorySelection drives the history table: Up/Down step one entry
// older/newer, PgUp/PgDn step by half a page, Home/End jump to the oldest
// or newest entry (spec §4.5).
func (m *Model) moveHistorySelection(msg tea.KeyMsg) {
	if m.vm.SelectedTopic == "" {
		return
	}
	hist := m.store.SnapshotHistory(m.vm.SelectedTopic)
	if len(hist.Entries) == 0 {
		return
	}

	offset, ok := m.vm.ResolveHistorySelection(hist)
	if !ok {
		offset = 0
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		offset++
	case key.Matches(msg, m.keys.Down):
		offset--
	case key.Matches(msg, m.keys.PageUp):
		offset += halfPage(m.historyHeight)
	case key.Matches(msg, m.keys.PageDown):
		offset -= halfPage(m.historyHeight)
	case key.Matches(msg, m.keys.Home):
		offset = len(hist.Entries) - 1
	case key.Matches(msg, m.keys.End):
		offset = 0
	default:
		return
	}

	if offset < 0 {
		offset = 0
	}
	if offset >= len(hist.Entries) {
		offset = len(hist.Entries) - 1
	}
	m.vm.SelectHistoryByOffset(hist, offset)
	m.vm.EnsureHistoryVisible(offset, m.historyHeight)
}

// moveJSONSelection drives the JSON drill-down selector shown in the
// payload pane: Up/Down highlight a sibling key, Left/h ascends, Right/l
// descends into the highlighted key (spec §4.6 "tree selector").
// A no-op when the selected payload is not JSON.
func (m *Model) moveJSONSelection(msg tea.KeyMsg) {
	entry, ok := m.selectedEntry()
	if !ok || entry.Payload.Kind != payload.KindJSON {
		return
	}

	_, value := viewmodel.ResolveJSONPath(entry.Payload.JSON, m.vm.JSONPath)
	keys := jsonLevelKeys(value)

	switch {
	case key.Matches(msg, m.keys.Up):
		m.vm.MoveJSONCursor(-1, len(keys))
	case key.Matches(msg, m.keys.Down):
		m.vm.MoveJSONCursor(1, len(keys))
	case key.Matches(msg, m.keys.Left):
		m.vm.PopJSONKey()
	case key.Matches(msg, m.keys.Right):
		if m.vm.JSONCursor < len(keys) {
			m.vm.PushJSONKey(keys[m.vm.JSONCursor])
		}
	}
}

// selectedEntry returns the history entry currently shown in the payload
// pane: the explicitly selected row if any, else the newest entry.
func (m *Model) selectedEntry() (historystore.Entry, bool) {
	if m.vm.SelectedTopic == "" {
		return historystore.Entry{}, false
	}
	hist := m.store.SnapshotHistory(m.vm.SelectedTopic)
	if offset, ok := m.vm.ResolveHistorySelection(hist); ok {
		idx := len(hist.Entries) - 1 - offset
		if idx >= 0 && idx < len(hist.Entries) {
			return hist.Entries[idx], true
		}
	}
	if len(hist.Entries) > 0 {
		return hist.Entries[len(hist.Entries)-1], true
	}
	return historystore.Entry{}, false
}

// halfPage returns half of paneHeight, floored to at least 1, for PgUp/
// PgDn and Ctrl-u/Ctrl-d steps (spec §4.5).
func halfPage(paneHeight int) int {
	n := paneHeight / 2
	if n < 1 {
		n = 1
	}
	return n
}

// layout recalculates each pane's content height after a resize. Caller
// holds m.mu.
func (m *Model) layout() {
	headerHeight, footerHeight := 1, 2
	available := m.height - headerHeight - footerHeight
	if available < 6 {
		available = 6
	}

	m.treeHeight = available * 40 / 100
	m.historyHeight = available * 35 / 100
	m.payloadHeight = available - m.treeHeight - m.historyHeight
}
