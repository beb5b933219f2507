package viewmodel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqttui/mqttui/internal/historystore"
	"github.com/mqttui/mqttui/internal/payload"
)

func mkEntry(seq uint64, t time.Time) historystore.Entry {
	return historystore.Entry{Seq: seq, Received: t, Payload: payload.Decode([]byte("x"), false)}
}

func TestToggleAndExpandCollapse(t *testing.T) {
	s := New()
	assert.False(t, s.IsOpen("a/b"))
	s.ToggleOpen("a/b")
	assert.True(t, s.IsOpen("a/b"))
	s.ToggleOpen("a/b")
	assert.False(t, s.IsOpen("a/b"))

	s.ExpandAll([]string{"a", "a/b", "a/b/c"})
	assert.True(t, s.IsOpen("a"))
	assert.True(t, s.IsOpen("a/b/c"))

	s.CollapseAll()
	assert.False(t, s.IsOpen("a"))
}

func TestSelectTopicResetsDependentState(t *testing.T) {
	s := New()
	hist := historystore.HistorySlice{Entries: []historystore.Entry{mkEntry(1, time.Now())}}
	s.SelectHistoryByOffset(hist, 0)
	s.SetJSONPath(JSONSelector{"a", "b"})

	s.SelectTopic("new/topic")
	_, ok := s.ResolveHistorySelection(hist)
	assert.False(t, ok)
	assert.Empty(t, s.JSONPath)
}

func TestHistorySelectionSurvivesNewArrivals(t *testing.T) {
	// Scenario 4: 5 messages on a/b; select offset-from-newest=2;
	// 3 more arrive; selection still refers to the original 3rd-from-last.
	s := New()
	base := time.Now()
	initial := make([]historystore.Entry, 5)
	for i := range initial {
		initial[i] = mkEntry(uint64(i+1), base.Add(time.Duration(i)*time.Second))
	}
	hist := historystore.HistorySlice{Entries: initial}

	s.SelectHistoryByOffset(hist, 2) // entries[2], Seq=3
	offset, ok := s.ResolveHistorySelection(hist)
	require.True(t, ok)
	assert.Equal(t, 2, offset)
	originalSeq := *s.selectedHistorySeq
	assert.Equal(t, uint64(3), originalSeq)

	grown := append(append([]historystore.Entry{}, initial...),
		mkEntry(6, base.Add(5*time.Second)),
		mkEntry(7, base.Add(6*time.Second)),
		mkEntry(8, base.Add(7*time.Second)),
	)
	histGrown := historystore.HistorySlice{Entries: grown}

	offset2, ok2 := s.ResolveHistorySelection(histGrown)
	require.True(t, ok2)
	assert.Equal(t, uint64(3), *s.selectedHistorySeq, "identity must not change just because newer entries arrived")
	assert.Equal(t, grown[2].Seq, originalSeq)
	assert.Equal(t, 5, offset2, "offset from newest grows as more entries arrive after the selected one")
}

func TestResolveHistorySelectionMissingEntry(t *testing.T) {
	s := New()
	hist := historystore.HistorySlice{Entries: []historystore.Entry{mkEntry(1, time.Now())}}
	s.SelectHistoryByOffset(hist, 0)

	emptyHist := historystore.HistorySlice{}
	_, ok := s.ResolveHistorySelection(emptyHist)
	assert.False(t, ok)
}

func TestSearchLifecycle(t *testing.T) {
	s := New()
	assert.True(t, s.MatchesSearch("anything"))

	s.SetSearch("Living")
	assert.True(t, s.SearchActive)
	assert.True(t, s.MatchesSearch("home/LIVINGROOM/temp"))
	assert.False(t, s.MatchesSearch("home/kitchen/temp"))

	s.CommitSearch()
	assert.False(t, s.SearchActive)
	assert.Equal(t, "Living", s.SearchQuery)

	s.CancelSearch()
	assert.False(t, s.SearchActive)
	assert.Empty(t, s.SearchQuery)
}

func TestJSONPathPushPop(t *testing.T) {
	s := New()
	s.PushJSONKey("a")
	s.PushJSONKey("b")
	assert.Equal(t, JSONSelector{"a", "b"}, s.JSONPath)
	s.PopJSONKey()
	assert.Equal(t, JSONSelector{"a"}, s.JSONPath)
	s.PopJSONKey()
	s.PopJSONKey() // no-op past empty
	assert.Empty(t, s.JSONPath)
}

func TestModalLifecycle(t *testing.T) {
	s := New()
	assert.Equal(t, ModalNone, s.Modal.Kind)
	s.OpenConfirmCleanRetained("home/#")
	assert.Equal(t, ModalConfirmCleanRetained, s.Modal.Kind)
	assert.Equal(t, "home/#", s.Modal.Topic)
	s.CloseModal()
	assert.Equal(t, ModalNone, s.Modal.Kind)
}

func TestExpandAndCollapseSingleTopic(t *testing.T) {
	s := New()
	s.Expand("a/b")
	assert.True(t, s.IsOpen("a/b"))
	s.Collapse("a/b")
	assert.False(t, s.IsOpen("a/b"))
}

func TestJSONCursorResetsOnPushAndPop(t *testing.T) {
	s := New()
	s.MoveJSONCursor(1, 3)
	assert.Equal(t, 1, s.JSONCursor)

	s.PushJSONKey("a")
	assert.Zero(t, s.JSONCursor, "pushing a key enters a fresh level")

	s.MoveJSONCursor(2, 3)
	assert.Equal(t, 2, s.JSONCursor)

	s.PopJSONKey()
	assert.Zero(t, s.JSONCursor, "popping a key returns to a fresh level")
}

func TestMoveJSONCursorClampsToKeyCount(t *testing.T) {
	s := New()
	s.MoveJSONCursor(-5, 3)
	assert.Zero(t, s.JSONCursor)
	s.MoveJSONCursor(5, 3)
	assert.Equal(t, 2, s.JSONCursor)
	s.MoveJSONCursor(1, 0)
	assert.Zero(t, s.JSONCursor, "no keys at this level clamps to zero")
}

func TestScrollTreeAndHistoryClampToRange(t *testing.T) {
	s := New()
	s.ScrollTree(10, 4)
	assert.Equal(t, 4, s.TreeScroll)
	s.ScrollTree(-100, 4)
	assert.Zero(t, s.TreeScroll)

	s.ScrollHistory(2, 4)
	assert.Equal(t, 2, s.HistoryScroll)
	s.ScrollHistory(10, 4)
	assert.Equal(t, 4, s.HistoryScroll)
}

func TestEnsureTreeVisibleScrollsMinimallyToKeepSelectionInView(t *testing.T) {
	s := New()
	s.EnsureTreeVisible(10, 5) // selecting row 10 with a 5-row window
	assert.Equal(t, 6, s.TreeScroll, "scroll just enough to put row 10 at the bottom")

	s.EnsureTreeVisible(2, 5) // selecting a row above the window
	assert.Equal(t, 2, s.TreeScroll, "scroll up to put row 2 at the top")

	s.TreeScroll = 3
	s.EnsureTreeVisible(4, 5) // already visible: unchanged
	assert.Equal(t, 3, s.TreeScroll)
}

func TestEnsureHistoryVisibleMirrorsTreeBehavior(t *testing.T) {
	s := New()
	s.EnsureHistoryVisible(9, 3)
	assert.Equal(t, 7, s.HistoryScroll)
}

func TestCycleFocus(t *testing.T) {
	s := New()
	assert.Equal(t, PanelTree, s.Focus)
	s.CycleFocus()
	assert.Equal(t, PanelHistory, s.Focus)
	s.CycleFocus()
	assert.Equal(t, PanelPayload, s.Focus)
	s.CycleFocus()
	assert.Equal(t, PanelTree, s.Focus)
}
