package tui

import (
	"github.com/mqttui/mqttui/internal/historystore"
	"github.com/mqttui/mqttui/internal/viewmodel"
)

// Row is one visible line of the flattened topic tree.
type Row struct {
	Topic        string
	Depth        int
	HasChildren  bool
	OwnCount     uint64
	SubtreeCount uint64
}

// FlattenVisible walks view depth-first, including a node when it or any
// descendant matches the search filter, and recursing into children only
// when the node is in vm's opened-set. This is the order the tree pane
// renders and the order Up/Down navigate.
func FlattenVisible(view historystore.TreeView, vm *viewmodel.State) []Row {
	var rows []Row
	var walk func(nodes []*historystore.TreeNode, depth int)
	walk = func(nodes []*historystore.TreeNode, depth int) {
		for _, n := range nodes {
			if !subtreeMatchesSearch(n, vm) {
				continue
			}
			rows = append(rows, Row{
				Topic:        n.Topic,
				Depth:        depth,
				HasChildren:  len(n.Children) > 0,
				OwnCount:     n.OwnCount,
				SubtreeCount: n.SubtreeCount,
			})
			if vm.IsOpen(n.Topic) {
				walk(n.Children, depth+1)
			}
		}
	}
	walk(view.Children, 0)
	return rows
}

func subtreeMatchesSearch(n *historystore.TreeNode, vm *viewmodel.State) bool {
	if vm.MatchesSearch(n.Topic) {
		return true
	}
	for _, c := range n.Children {
		if subtreeMatchesSearch(c, vm) {
			return true
		}
	}
	return false
}

// AllTopics returns every topic present in view, used by "expand all".
func AllTopics(view historystore.TreeView) []string {
	var out []string
	var walk func(nodes []*historystore.TreeNode)
	walk = func(nodes []*historystore.TreeNode) {
		for _, n := range nodes {
			out = append(out, n.Topic)
			walk(n.Children)
		}
	}
	walk(view.Children)
	return out
}

// IndexOfTopic returns the row index of topic within rows, or -1.
func IndexOfTopic(rows []Row, topic string) int {
	for i, r := range rows {
		if r.Topic == topic {
			return i
		}
	}
	return -1
}
