// Package viewmodel derives interactive UI state from keyboard/mouse
// input against a historystore snapshot (spec §3 "View Model", §4.5).
// It is stateless with respect to the store: every method takes the
// current store/tree data it needs as an argument and updates the State
// in place, never reaching back into the store itself.
//
// Grounded on the bubbletea model fields in the gastown feed TUI example
// (other_examples/3792634c_zulandar-gastown__internal-tui-feed-model.go.go):
// an opened-node map, a focused-panel enum, and scroll state living
// alongside the data, with mutations funneled through a handleKey-style
// dispatcher. mqttui's State is that same shape split out from the
// bubbletea Model so it can be unit-tested without a terminal.
package viewmodel

import (
	"strings"

	"github.com/mqttui/mqttui/internal/historystore"
)

// Panel identifies one of the three focusable regions (spec §4.5 "Tab").
type Panel int

const (
	PanelTree Panel = iota
	PanelHistory
	PanelPayload
)

// ModalKind tags which modal dialog, if any, is showing.
type ModalKind int

const (
	ModalNone ModalKind = iota
	ModalConfirmCleanRetained
)

// Modal is the view model's modal-dialog state.
type Modal struct {
	Kind  ModalKind
	Topic string
}

// JSONSelector is an ordered sequence of JSON path components (object
// keys or array indices, stored as strings) recording a drill-down path
// into a JSON payload. Selection is re-applied by key, not index, so it
// survives payload changes that reorder keys (spec §9).
type JSONSelector []string

// State is the full view-model snapshot. Use New for an initial state
// (nothing opened, nothing selected, tree focused): the zero value has a
// nil Opened map, so ToggleOpen, Expand, Collapse and ExpandAll panic on it.
type State struct {
	Opened map[string]bool

	SelectedTopic string

	// selectedHistorySeq anchors the selected history row to a specific
	// historystore.Entry.Seq rather than to a ring position, so the
	// selection survives new arrivals (spec §8 scenario 4). Nil means no
	// row selected.
	selectedHistorySeq *uint64

	SearchQuery  string
	SearchActive bool

	JSONPath JSONSelector

	Modal Modal

	Focus Panel

	// TreeScroll and HistoryScroll are the first visible row offset in
	// each pane, driven by PgUp/PgDn, Ctrl-u/Ctrl-d, and the mouse wheel
	// (spec §4.5). Selection keeps these in range; the mouse wheel moves
	// them directly without touching selection.
	TreeScroll    int
	HistoryScroll int

	// JSONCursor indexes into the sorted key list one level below
	// JSONPath: the child highlighted before it is pushed onto the path
	// (spec §4.6 "tree selector" for JSON payloads).
	JSONCursor int
}

// New returns an initial State with the tree panel focused.
func New() *State {
	return &State{Opened: map[string]bool{}, Focus: PanelTree}
}

// ToggleOpen flips whether topic is expanded in the tree.
func (s *State) ToggleOpen(topic string) {
	s.Opened[topic] = !s.Opened[topic]
}

// IsOpen reports whether topic is currently expanded.
func (s *State) IsOpen(topic string) bool {
	return s.Opened[topic]
}

// Expand opens topic in the tree (spec §4.5 "→/l" on the tree panel).
func (s *State) Expand(topic string) {
	s.Opened[topic] = true
}

// Collapse closes topic in the tree (spec §4.5 "←/h" on the tree panel).
func (s *State) Collapse(topic string) {
	s.Opened[topic] = false
}

// ExpandAll marks every topic in topics (ancestors and leaves alike) open.
func (s *State) ExpandAll(topics []string) {
	for _, t := range topics {
		s.Opened[t] = true
	}
}

// CollapseAll clears the opened-set entirely.
func (s *State) CollapseAll() {
	s.Opened = map[string]bool{}
}

// SelectTopic sets the selected topic and resets history/JSON selection,
// since both are scoped to the previously selected topic.
func (s *State) SelectTopic(topic string) {
	s.SelectedTopic = topic
	s.selectedHistorySeq = nil
	s.JSONPath = nil
	s.JSONCursor = 0
}

// SelectHistoryByOffset anchors the selection to whichever entry in hist
// currently sits at offsetFromNewest (0 = newest). A no-op if the offset
// is out of range.
func (s *State) SelectHistoryByOffset(hist historystore.HistorySlice, offsetFromNewest int) {
	idx := len(hist.Entries) - 1 - offsetFromNewest
	if idx < 0 || idx >= len(hist.Entries) {
		return
	}
	seq := hist.Entries[idx].Seq
	s.selectedHistorySeq = &seq
}

// ClearHistorySelection drops the history selection entirely.
func (s *State) ClearHistorySelection() {
	s.selectedHistorySeq = nil
}

// ResolveHistorySelection locates the currently selected entry within
// hist (oldest-first) and returns its live offset-from-newest. ok is
// false when nothing is selected or the selected entry has aged out of
// the (possibly capped) history ring.
func (s *State) ResolveHistorySelection(hist historystore.HistorySlice) (offsetFromNewest int, ok bool) {
	if s.selectedHistorySeq == nil {
		return 0, false
	}
	target := *s.selectedHistorySeq
	for i, e := range hist.Entries {
		if e.Seq == target {
			return len(hist.Entries) - 1 - i, true
		}
	}
	return 0, false
}

// SetSearch opens the search input (if not already open) and sets its
// query text. Typing filters live per spec §4.5 "/".
func (s *State) SetSearch(query string) {
	s.SearchActive = true
	s.SearchQuery = query
}

// CommitSearch leaves the query in place but closes the input box,
// matching the "/ ... Enter commits" behavior.
func (s *State) CommitSearch() {
	s.SearchActive = false
}

// CancelSearch closes the search input and clears the filter entirely,
// matching "Esc cancels" (spec §4.5, scenario 6).
func (s *State) CancelSearch() {
	s.SearchActive = false
	s.SearchQuery = ""
}

// MatchesSearch reports whether topic passes the current search filter.
// An empty query matches everything. Matching is a case-insensitive
// substring test against the full topic (spec §3).
func (s *State) MatchesSearch(topic string) bool {
	if s.SearchQuery == "" {
		return true
	}
	return strings.Contains(strings.ToLower(topic), strings.ToLower(s.SearchQuery))
}

// SetJSONPath replaces the JSON drill-down path, e.g. after the user
// navigates into a nested object or array.
func (s *State) SetJSONPath(path JSONSelector) {
	s.JSONPath = path
}

// PushJSONKey descends one level into the JSON selector.
func (s *State) PushJSONKey(key string) {
	s.JSONPath = append(s.JSONPath, key)
	s.JSONCursor = 0
}

// PopJSONKey ascends one level, a no-op at the root.
func (s *State) PopJSONKey() {
	if len(s.JSONPath) == 0 {
		return
	}
	s.JSONPath = s.JSONPath[:len(s.JSONPath)-1]
	s.JSONCursor = 0
}

// MoveJSONCursor shifts the highlighted child at the current drill-down
// level by delta, clamped to the available key count.
func (s *State) MoveJSONCursor(delta, keyCount int) {
	if keyCount <= 0 {
		s.JSONCursor = 0
		return
	}
	s.JSONCursor += delta
	if s.JSONCursor < 0 {
		s.JSONCursor = 0
	}
	if s.JSONCursor >= keyCount {
		s.JSONCursor = keyCount - 1
	}
}

// ScrollTree moves the tree pane's scroll offset by delta lines, clamped
// to [0, maxOffset], without touching selection. Used by the mouse wheel
// (spec §4.5); keyboard paging moves the selection instead and lets
// EnsureTreeVisible follow it.
func (s *State) ScrollTree(delta, maxOffset int) {
	s.TreeScroll = clampScroll(s.TreeScroll+delta, maxOffset)
}

// ScrollHistory is ScrollTree for the history pane.
func (s *State) ScrollHistory(delta, maxOffset int) {
	s.HistoryScroll = clampScroll(s.HistoryScroll+delta, maxOffset)
}

func clampScroll(v, maxOffset int) int {
	if maxOffset < 0 {
		maxOffset = 0
	}
	if v < 0 {
		return 0
	}
	if v > maxOffset {
		return maxOffset
	}
	return v
}

// EnsureTreeVisible adjusts TreeScroll, if needed, so row index idx sits
// within a window of paneHeight visible rows.
func (s *State) EnsureTreeVisible(idx, paneHeight int) {
	s.TreeScroll = ensureVisible(s.TreeScroll, idx, paneHeight)
}

// EnsureHistoryVisible is EnsureTreeVisible for the history pane.
func (s *State) EnsureHistoryVisible(idx, paneHeight int) {
	s.HistoryScroll = ensureVisible(s.HistoryScroll, idx, paneHeight)
}

func ensureVisible(scroll, idx, paneHeight int) int {
	if idx < 0 || paneHeight <= 0 {
		return scroll
	}
	if idx < scroll {
		return idx
	}
	if idx >= scroll+paneHeight {
		return idx - paneHeight + 1
	}
	return scroll
}

// OpenConfirmCleanRetained shows the clean-retained confirmation modal
// for topic (spec §4.5 "Del, Backspace" on the tree).
func (s *State) OpenConfirmCleanRetained(topic string) {
	s.Modal = Modal{Kind: ModalConfirmCleanRetained, Topic: topic}
}

// CloseModal dismisses whatever modal is showing.
func (s *State) CloseModal() {
	s.Modal = Modal{}
}

// CycleFocus advances focus to the next panel in tree -> history ->
// payload -> tree order (spec §4.5 "Tab").
func (s *State) CycleFocus() {
	switch s.Focus {
	case PanelTree:
		s.Focus = PanelHistory
	case PanelHistory:
		s.Focus = PanelPayload
	case PanelPayload:
		s.Focus = PanelTree
	}
}
