package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mqttui/mqttui/internal/broker"
	"github.com/mqttui/mqttui/internal/historystore"
	"github.com/mqttui/mqttui/internal/payload"
	"github.com/mqttui/mqttui/internal/viewmodel"
)

// View renders the current frame. It only reads state (store snapshots,
// m.vm fields); it never mutates either, satisfying spec §8 invariant 5.
func (m *Model) View() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "starting mqttui…"
	}

	view := m.store.SnapshotTree()
	rows := FlattenVisible(view, m.vm)

	treePane := m.renderTreePane(rows)
	historyPane := m.renderHistoryPane()
	payloadPane := m.renderPayloadPane()

	body := lipgloss.JoinVertical(lipgloss.Left, treePane, historyPane, payloadPane)

	sections := []string{m.renderInfoBar(view), body, m.renderFooter()}

	if m.lastErr != nil {
		sections = append(sections, defaultStyles.ErrorOverlay.Render("error: "+m.lastErr.Error()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderInfoBar(view historystore.TreeView) string {
	status := defaultStyles.StatusConnect.Render(m.connState.String())
	if m.connState == broker.Disconnected {
		status = defaultStyles.StatusWarn.Render(m.connState.String())
	}
	text := fmt.Sprintf("mqttui  %s  topics:%d", status, view.TotalCount)
	if m.vm.SearchActive || m.vm.SearchQuery != "" {
		text += fmt.Sprintf("  search:%q", m.vm.SearchQuery)
	}
	return defaultStyles.InfoBar.Width(m.width).Render(text)
}

func (m *Model) renderTreePane(rows []Row) string {
	var b strings.Builder
	for _, r := range windowRows(rows, m.vm.TreeScroll, m.treeHeight) {
		line := strings.Repeat("  ", r.Depth) + treeGlyph(r) + " " + r.Topic
		line += fmt.Sprintf("  (%d)", r.SubtreeCount)
		if r.Topic == m.vm.SelectedTopic {
			line = defaultStyles.Selected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	style := defaultStyles.PaneBorder
	if m.vm.Focus == viewmodel.PanelTree {
		style = defaultStyles.PaneBorderOn
	}
	title := defaultStyles.PaneTitle.Render("Topics")
	return style.Width(m.width - 2).Render(title + "\n" + b.String())
}

func windowRows(rows []Row, scroll, paneHeight int) []Row {
	if scroll < 0 || scroll > len(rows) {
		scroll = 0
	}
	end := len(rows)
	if paneHeight > 0 && scroll+paneHeight < end {
		end = scroll + paneHeight
	}
	return rows[scroll:end]
}

func treeGlyph(r Row) string {
	if !r.HasChildren {
		return "•"
	}
	return "▸"
}

func (m *Model) renderHistoryPane() string {
	var b strings.Builder
	if m.vm.SelectedTopic == "" {
		b.WriteString("(no topic selected)")
	} else {
		hist := m.store.SnapshotHistory(m.vm.SelectedTopic)
		selectedOffset, haveSelection := m.vm.ResolveHistorySelection(hist)
		n := len(hist.Entries)
		scroll := m.vm.HistoryScroll
		if scroll < 0 || scroll > n {
			scroll = 0
		}
		end := n
		if m.historyHeight > 0 && scroll+m.historyHeight < end {
			end = scroll + m.historyHeight
		}
		for offset := scroll; offset < end; offset++ {
			e := hist.Entries[n-1-offset]
			line := fmt.Sprintf("%s  QoS:%s  %d bytes", e.Received.Format("15:04:05.000"), e.QoS, e.OriginalSize)
			if e.Retained {
				line = defaultStyles.Retained.Render("RETAINED ") + line
			}
			if haveSelection && offset == selectedOffset {
				line = defaultStyles.Selected.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	style := defaultStyles.PaneBorder
	if m.vm.Focus == viewmodel.PanelHistory {
		style = defaultStyles.PaneBorderOn
	}
	title := defaultStyles.PaneTitle.Render("History")
	return style.Width(m.width - 2).Render(title + "\n" + b.String())
}

func (m *Model) renderPayloadPane() string {
	text := "(nothing selected)"
	graphSection := ""

	if entry, ok := m.selectedEntry(); ok {
		text = renderPayload(entry.Payload, m.vm)

		// A graph occupies the bottom of the payload view once the
		// selected topic has at least two numeric history entries
		// (spec §4.5 layout).
		hist := m.store.SnapshotHistory(m.vm.SelectedTopic)
		if points := extractGraphPoints(hist.Entries); len(points) >= 2 {
			if g := renderGraph(points, m.width-4, graphHeight); g != "" {
				graphSection = "\n" + g
			}
		}
	}

	style := defaultStyles.PaneBorder
	if m.vm.Focus == viewmodel.PanelPayload {
		style = defaultStyles.PaneBorderOn
	}
	title := defaultStyles.PaneTitle.Render("Payload")
	return style.Width(m.width - 2).Render(title + "\n" + text + graphSection)
}

func renderPayload(p payload.Payload, vm *viewmodel.State) string {
	switch p.Kind {
	case payload.KindText:
		return p.Text
	case payload.KindJSON:
		return renderJSONDrilldown(p, vm)
	case payload.KindMessagePack:
		return fmt.Sprintf("%v", p.MessagePack)
	default:
		return fmt.Sprintf("<binary, %d bytes>", len(p.Raw))
	}
}

func (m *Model) renderFooter() string {
	if m.vm.SearchActive {
		return defaultStyles.FooterHelp.Render("/" + m.vm.SearchQuery)
	}
	if m.showHelp {
		return m.help.FullHelpView(m.keys.FullHelp())
	}
	return m.help.ShortHelpView(m.keys.ShortHelp())
}
