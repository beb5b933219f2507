package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mqttui/mqttui/internal/viewmodel"
)

// mouseWheelStep is how many lines one wheel tick scrolls (spec §4.5
// "Mouse wheel").
const mouseWheelStep = 3

// paneChrome is the non-content lines bookending each pane's content
// rows: a top border, a title line, and a bottom border.
const paneChrome = 3

// handleMouse dispatches a mouse event to whichever pane it falls in,
// based on the same pane heights layout() computed for rendering (spec
// §4.5 "Mouse wheel"/"Mouse click", §4.7 "keyboard + mouse"). Caller
// holds m.mu.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	headerHeight := 1
	y := msg.Y - headerHeight

	treeBlock := m.treeHeight + paneChrome
	if y >= 0 && y < treeBlock {
		m.handleTreeMouse(msg, y-2)
		return
	}
	y -= treeBlock

	historyBlock := m.historyHeight + paneChrome
	if y >= 0 && y < historyBlock {
		m.handleHistoryMouse(msg, y-2)
		return
	}
	y -= historyBlock

	payloadBlock := m.payloadHeight + paneChrome
	if y >= 0 && y < payloadBlock {
		m.vm.Focus = viewmodel.PanelPayload
	}
}

// handleTreeMouse scrolls or selects within the tree pane. contentY is
// the row offset within the pane's content area (0 = its first visible
// row), already adjusted for border and title chrome.
func (m *Model) handleTreeMouse(msg tea.MouseMsg, contentY int) {
	rows := FlattenVisible(m.store.SnapshotTree(), m.vm)

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.vm.ScrollTree(-mouseWheelStep, maxScroll(len(rows), m.treeHeight))
		return
	case tea.MouseButtonWheelDown:
		m.vm.ScrollTree(mouseWheelStep, maxScroll(len(rows), m.treeHeight))
		return
	}

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}

	m.vm.Focus = viewmodel.PanelTree
	idx := m.vm.TreeScroll + contentY
	if idx >= 0 && idx < len(rows) {
		m.vm.SelectTopic(rows[idx].Topic)
	}
}

// handleHistoryMouse scrolls or selects within the history pane.
func (m *Model) handleHistoryMouse(msg tea.MouseMsg, contentY int) {
	if m.vm.SelectedTopic == "" {
		return
	}
	hist := m.store.SnapshotHistory(m.vm.SelectedTopic)

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.vm.ScrollHistory(-mouseWheelStep, maxScroll(len(hist.Entries), m.historyHeight))
		return
	case tea.MouseButtonWheelDown:
		m.vm.ScrollHistory(mouseWheelStep, maxScroll(len(hist.Entries), m.historyHeight))
		return
	}

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}

	m.vm.Focus = viewmodel.PanelHistory
	offset := m.vm.HistoryScroll + contentY
	if offset >= 0 && offset < len(hist.Entries) {
		m.vm.SelectHistoryByOffset(hist, offset)
	}
}

// maxScroll is the largest scroll offset that still leaves a full page of
// content visible, given n total rows and paneHeight visible at once.
func maxScroll(n, paneHeight int) int {
	if paneHeight <= 0 {
		return 0
	}
	max := n - paneHeight
	if max < 0 {
		return 0
	}
	return max
}
