package historystore

import "sort"

// node is the store-internal mutable tree node. All mutation happens
// under Store.mu; snapshots copy out of it into the read-only TreeNode.
type node struct {
	key      string
	topic    string
	children []*node // kept sorted by key

	history historyRing

	ownCount     uint64
	subtreeCount uint64

	// lastRetained records whether the most recently inserted entry for
	// this exact topic was a retained publish. Used only for reporting
	// in clean-retained output, not for history preservation (spec §4.3:
	// retained entries are never deduplicated out of history).
	lastRetained bool
}

// childOrCreate returns the child keyed by key, creating and inserting it
// in sorted position if absent. Caller must hold the write lock.
func (n *node) childOrCreate(key, topic string) *node {
	i := sort.Search(len(n.children), func(i int) bool {
		return n.children[i].key >= key
	})
	if i < len(n.children) && n.children[i].key == key {
		return n.children[i]
	}
	child := &node{key: key, topic: topic}
	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = child
	return child
}

// find walks down from n following levels, returning nil if any segment
// is absent. Caller must hold a read or write lock.
func (n *node) find(levels []string) *node {
	cur := n
	for _, lvl := range levels {
		i := sort.Search(len(cur.children), func(i int) bool {
			return cur.children[i].key >= lvl
		})
		if i >= len(cur.children) || cur.children[i].key != lvl {
			return nil
		}
		cur = cur.children[i]
	}
	return cur
}

// historyRing is an append-only bounded buffer of Entry values, oldest
// first. A capacity of 0 means unbounded.
type historyRing struct {
	entries []Entry
	cap     int
}

// push appends e, dropping the oldest entry if at capacity. Because this
// never mutates elements in place (only appends or reslices from the
// front), slices previously handed out by Store.SnapshotHistory remain
// valid, unchanged views of the history at the time they were taken.
func (r *historyRing) push(e Entry, capHint int) {
	r.cap = capHint
	r.entries = append(r.entries, e)
	if r.cap > 0 && len(r.entries) > r.cap {
		r.entries = r.entries[1:]
	}
}

// removeAt removes the entry at the given index (0 = oldest), returning
// false if the index is out of range.
func (r *historyRing) removeAt(i int) bool {
	if i < 0 || i >= len(r.entries) {
		return false
	}
	out := make([]Entry, 0, len(r.entries)-1)
	out = append(out, r.entries[:i]...)
	out = append(out, r.entries[i+1:]...)
	r.entries = out
	return true
}
