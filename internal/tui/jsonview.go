package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mqttui/mqttui/internal/payload"
	"github.com/mqttui/mqttui/internal/viewmodel"
)

// renderJSONDrilldown renders the tree-selector-plus-value split the
// payload pane shows for KindJSON payloads (spec §4.6): the keys one
// level below vm.JSONPath, with the cursor-highlighted one picked out,
// followed by the resolved value at that path.
func renderJSONDrilldown(p payload.Payload, vm *viewmodel.State) string {
	resolvedPath, value := viewmodel.ResolveJSONPath(p.JSON, vm.JSONPath)
	keys := jsonLevelKeys(value)

	var b strings.Builder
	b.WriteString("/" + strings.Join([]string(resolvedPath), "/"))
	b.WriteString("\n")

	if len(keys) > 0 {
		rendered := make([]string, len(keys))
		for i, k := range keys {
			if i == vm.JSONCursor {
				rendered[i] = defaultStyles.Selected.Render(k)
			} else {
				rendered[i] = k
			}
		}
		b.WriteString(strings.Join(rendered, "  "))
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("%v", value))
	return b.String()
}

// jsonLevelKeys returns v's child keys in display order: array indices
// keep their positional order, object keys sort lexically so the
// selector doesn't reshuffle between frames (Go map iteration is
// randomized).
func jsonLevelKeys(v any) []string {
	keys := viewmodel.JSONKeys(v)
	if _, isArray := v.([]any); isArray {
		return keys
	}
	sort.Strings(keys)
	return keys
}
