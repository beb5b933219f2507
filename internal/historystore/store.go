// Package historystore implements the concurrent topic-tree data structure
// that ingests an unbounded stream of MQTT messages from a background
// connection and serves random-access queries from the UI thread without
// blocking either (spec §4.3). One writer (the MQTT connection) calls
// Insert; any number of readers call the Snapshot* methods.
//
// Grounded on the locking and eviction shape of a bounded, RWMutex-guarded
// store keyed by an application identifier (github.com/getmockd/mockd's
// pkg/recording.MQTTStore), adapted here from a flat map of recordings into
// a topic-segmented tree with per-node ring buffers, because the view
// model needs hierarchical aggregates (spec §3 Topic Node invariants), not
// a flat recent-messages list.
package historystore

import (
	"sort"
	"sync"

	"github.com/mqttui/mqttui/internal/topicpath"
)

// Store is the thread-safe, append-only topic tree.
type Store struct {
	mu         sync.RWMutex
	root       *node
	historyCap int // 0 = unbounded
}

// New creates an empty store. historyCap bounds the number of History
// Entries retained per topic node; 0 means unbounded (the interactive
// default per spec §4.3).
func New(historyCap int) *Store {
	return &Store{root: &node{}, historyCap: historyCap}
}

// Insert locates or creates the node for topic, appends entry to its
// history (dropping the oldest entry if at capacity), and atomically
// updates the node's own counter plus the subtree counter of the node
// and every ancestor including the implicit root. Readers taking a
// snapshot either see the whole update or none of it.
func (s *Store) Insert(topic string, e Entry) {
	levels := topicpath.Split(topic)

	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.root
	n.subtreeCount++
	path := ""
	for i, lvl := range levels {
		if i == 0 {
			path = lvl
		} else {
			path = path + topicpath.Separator + lvl
		}
		n = n.childOrCreate(lvl, path)
		n.subtreeCount++
	}
	n.ownCount++
	e.Seq = n.ownCount
	n.lastRetained = e.Retained
	n.history.push(e, s.historyCap)
}

// TreeNode is a read-only, structurally-shared view of one tree node.
type TreeNode struct {
	Key          string
	Topic        string
	OwnCount     uint64
	SubtreeCount uint64
	Children     []*TreeNode
}

// TreeView is a consistent, point-in-time snapshot of the whole tree.
type TreeView struct {
	Children   []*TreeNode
	TotalCount uint64
}

// SnapshotTree returns a read-only copy of the current tree shape and
// per-node counters. The copy is cheap: it duplicates node metadata only,
// never history entries or payload bytes, so it can be retaken on every
// UI frame (spec §9).
func (s *Store) SnapshotTree() TreeView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return TreeView{
		Children:   snapshotChildren(s.root.children),
		TotalCount: s.root.subtreeCount,
	}
}

func snapshotChildren(children []*node) []*TreeNode {
	if len(children) == 0 {
		return nil
	}
	out := make([]*TreeNode, len(children))
	for i, c := range children {
		out[i] = &TreeNode{
			Key:          c.key,
			Topic:        c.topic,
			OwnCount:     c.ownCount,
			SubtreeCount: c.subtreeCount,
			Children:     snapshotChildren(c.children),
		}
	}
	return out
}

// HistorySlice is a read-only view over one node's history ring, oldest
// entry first. The backing slice is shared, not copied: pushes never
// mutate already-handed-out slices in place (see historyRing.push), so
// this is safe to hold across frames without re-acquiring the lock.
type HistorySlice struct {
	Entries []Entry
}

// SnapshotHistory returns the history for topic, or a zero-length slice
// if the topic is unknown.
func (s *Store) SnapshotHistory(topic string) HistorySlice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := s.root.find(topicpath.Split(topic))
	if n == nil {
		return HistorySlice{}
	}
	return HistorySlice{Entries: n.history.entries}
}

// RemoveHistoryEntry deletes the entry at offsetFromNewest (0 = newest)
// from topic's history, used by the history table's Del/Backspace local
// removal (spec §4.5); it never contacts the broker. Returns false if the
// topic or offset is invalid.
func (s *Store) RemoveHistoryEntry(topic string, offsetFromNewest int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.root.find(topicpath.Split(topic))
	if n == nil {
		return false
	}
	idx := len(n.history.entries) - 1 - offsetFromNewest
	return n.history.removeAt(idx)
}

// TopicSnapshot is one entry returned by ClearSubtree: a topic currently
// present in the tree plus whether its most recent message was retained.
type TopicSnapshot struct {
	Topic    string
	Retained bool
}

// ClearSubtree returns every (topic, retained) pair currently present in
// the tree whose topic is matched by filter, in lexicographic order. Used
// by the interactive clean-retained flow, which (per spec §4.8 rule 3)
// targets every topic in the subtree, not only ones observed retained.
func (s *Store) ClearSubtree(filter string) []TopicSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []TopicSnapshot
	var walk func(n *node)
	walk = func(n *node) {
		if n.topic != "" && topicpath.Match(filter, n.topic) && n.ownCount > 0 {
			out = append(out, TopicSnapshot{Topic: n.topic, Retained: n.lastRetained})
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	for _, c := range s.root.children {
		walk(c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Topic < out[j].Topic })
	return out
}
