package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqttui/mqttui/internal/applog"
	"github.com/mqttui/mqttui/internal/historystore"
	"github.com/mqttui/mqttui/internal/payload"
	"github.com/mqttui/mqttui/internal/viewmodel"
)

func newTestModel() *Model {
	store := historystore.New(0)
	store.Insert("home/livingroom/temp", historystore.Entry{})
	m := New(store, nil, applog.Nop())
	m.width, m.height = 80, 24
	return m
}

func TestQuitKeyQuits(t *testing.T) {
	m := newTestModel()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.True(t, m.Quitting())
}

func TestTabCyclesFocus(t *testing.T) {
	m := newTestModel()
	assert.Equal(t, viewmodel.PanelTree, m.vm.Focus)
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, viewmodel.PanelHistory, m.vm.Focus)
}

func TestSearchSlashThenLiteralQInsertsCharacter(t *testing.T) {
	// Scenario 6: key 'q' while search input is focused inserts the
	// literal character 'q' rather than quitting.
	m := newTestModel()
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	assert.True(t, m.vm.SearchActive)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.Equal(t, "q", m.vm.SearchQuery)
	assert.False(t, m.Quitting(), "q must not quit while search is focused")
}

func TestSearchEscClosesAndClearsFilter(t *testing.T) {
	m := newTestModel()
	m.vm.SetSearch("liv")
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.vm.SearchActive)
	assert.Empty(t, m.vm.SearchQuery)
}

func TestCtrlCAlwaysQuitsEvenDuringSearch(t *testing.T) {
	m := newTestModel()
	m.vm.SetSearch("something")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
}

func TestWindowSizeMsgUpdatesLayout(t *testing.T) {
	m := newTestModel()
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Equal(t, 100, m.width)
	assert.Equal(t, 40, m.height)
	assert.Greater(t, m.treeHeight, 0)
}

func TestDeleteOpensConfirmModalAndEscCancels(t *testing.T) {
	m := newTestModel()
	m.vm.SelectTopic("home/livingroom/temp")

	m.Update(tea.KeyMsg{Type: tea.KeyDelete})
	assert.Equal(t, viewmodel.ModalConfirmCleanRetained, m.vm.Modal.Kind)
	assert.Equal(t, "home/livingroom/temp", m.vm.Modal.Topic)

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, viewmodel.ModalNone, m.vm.Modal.Kind)
}

func TestDeleteOnHistoryPanelRemovesLocalEntryOnly(t *testing.T) {
	m := newTestModel()
	m.vm.SelectTopic("home/livingroom/temp")
	m.store.Insert("home/livingroom/temp", historystore.Entry{})
	m.vm.Focus = viewmodel.PanelHistory

	hist := m.store.SnapshotHistory("home/livingroom/temp")
	require.Len(t, hist.Entries, 2)
	m.vm.SelectHistoryByOffset(hist, 0)

	m.Update(tea.KeyMsg{Type: tea.KeyDelete})

	after := m.store.SnapshotHistory("home/livingroom/temp")
	assert.Len(t, after.Entries, 1)
	assert.Equal(t, viewmodel.ModalNone, m.vm.Modal.Kind, "history-panel delete must not open the clean-retained modal")
}

func TestLeftRightCollapseAndExpandTreeNode(t *testing.T) {
	m := newTestModel()
	m.vm.SelectTopic("home")
	require.False(t, m.vm.IsOpen("home"))

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	assert.True(t, m.vm.IsOpen("home"))

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})
	assert.False(t, m.vm.IsOpen("home"))
}

func TestPageDownMovesTreeSelectionByHalfPage(t *testing.T) {
	m := newTestModel()
	m.store.Insert("home/kitchen/temp", historystore.Entry{})
	m.store.Insert("home/bedroom/temp", historystore.Entry{})
	m.vm.ExpandAll(AllTopics(m.store.SnapshotTree()))
	m.treeHeight = 2 // half page = 1

	rows := FlattenVisible(m.store.SnapshotTree(), m.vm)
	require.GreaterOrEqual(t, len(rows), 3)
	m.vm.SelectTopic(rows[0].Topic)

	m.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, rows[1].Topic, m.vm.SelectedTopic)
}

func TestHistoryPanelUpDownMovesSelection(t *testing.T) {
	m := newTestModel()
	m.vm.SelectTopic("home/livingroom/temp")
	m.store.Insert("home/livingroom/temp", historystore.Entry{})
	m.vm.Focus = viewmodel.PanelHistory

	hist := m.store.SnapshotHistory("home/livingroom/temp")
	require.Len(t, hist.Entries, 2)

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	offset, ok := m.vm.ResolveHistorySelection(m.store.SnapshotHistory("home/livingroom/temp"))
	require.True(t, ok)
	assert.Equal(t, 1, offset, "Up steps to the older entry")

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	offset, ok = m.vm.ResolveHistorySelection(m.store.SnapshotHistory("home/livingroom/temp"))
	require.True(t, ok)
	assert.Equal(t, 0, offset, "Down steps back to the newer entry")
}

func jsonEntry(t *testing.T, raw string) historystore.Entry {
	t.Helper()
	return historystore.Entry{Payload: payload.Decode([]byte(raw), false)}
}

func TestJSONDrilldownNavigatesWithArrowKeysWhilePayloadFocused(t *testing.T) {
	m := newTestModel()
	m.vm.SelectTopic("home/livingroom/temp")
	m.store.Insert("home/livingroom/temp", jsonEntry(t, `{"a":1,"b":{"c":2}}`))
	m.vm.Focus = viewmodel.PanelPayload

	// Keys sort to "a", "b": cursor starts at 0 ("a"); Down selects "b".
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.vm.JSONCursor)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	assert.Equal(t, viewmodel.JSONSelector{"b"}, m.vm.JSONPath)
	assert.Zero(t, m.vm.JSONCursor, "descending resets the cursor to the new level")

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})
	assert.Empty(t, m.vm.JSONPath)
}

func TestJSONDrilldownIsNoOpForNonJSONPayload(t *testing.T) {
	m := newTestModel()
	m.vm.SelectTopic("home/livingroom/temp")
	m.vm.Focus = viewmodel.PanelPayload

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Zero(t, m.vm.JSONCursor)
	assert.Empty(t, m.vm.JSONPath)
}

func TestModalEnterWithoutConnectionReportsNoConnectionError(t *testing.T) {
	m := newTestModel()
	m.vm.OpenConfirmCleanRetained("home/livingroom/temp")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg := cmd()
	done, ok := msg.(cleanRetainedDoneMsg)
	require.True(t, ok)
	require.Error(t, done.err)

	m.Update(done)
	assert.Equal(t, viewmodel.ModalNone, m.vm.Modal.Kind)
	require.Error(t, m.LastError())
}

func TestViewDoesNotMutateStoreOrViewModel(t *testing.T) {
	m := newTestModel()
	m.vm.SelectTopic("home/livingroom/temp")
	before := m.store.SnapshotTree()
	_ = m.View()
	after := m.store.SnapshotTree()
	assert.Equal(t, before.TotalCount, after.TotalCount)
	assert.Equal(t, "home/livingroom/temp", m.vm.SelectedTopic)
}
