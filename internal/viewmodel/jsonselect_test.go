package viewmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveJSONPathFullMatch(t *testing.T) {
	root := map[string]any{
		"a": map[string]any{
			"b": []any{"x", "y", "z"},
		},
	}
	resolved, value := ResolveJSONPath(root, JSONSelector{"a", "b", "1"})
	assert.Equal(t, JSONSelector{"a", "b", "1"}, resolved)
	assert.Equal(t, "y", value)
}

func TestResolveJSONPathFallsBackToClosestAncestor(t *testing.T) {
	root := map[string]any{
		"a": map[string]any{
			"b": "still here",
		},
	}
	// "c" no longer exists under "a" (e.g. the payload changed).
	resolved, value := ResolveJSONPath(root, JSONSelector{"a", "c", "d"})
	assert.Equal(t, JSONSelector{"a"}, resolved)
	assert.Equal(t, map[string]any{"b": "still here"}, value)
}

func TestResolveJSONPathEmptyPathReturnsRoot(t *testing.T) {
	root := map[string]any{"a": 1}
	resolved, value := ResolveJSONPath(root, nil)
	assert.Empty(t, resolved)
	assert.Equal(t, root, value)
}

func TestResolveJSONPathArrayOutOfBounds(t *testing.T) {
	root := []any{"only-one"}
	resolved, value := ResolveJSONPath(root, JSONSelector{"5"})
	assert.Empty(t, resolved)
	assert.Equal(t, root, value)
}

func TestJSONKeysObjectAndArray(t *testing.T) {
	obj := map[string]any{"x": 1, "y": 2}
	keys := JSONKeys(obj)
	assert.ElementsMatch(t, []string{"x", "y"}, keys)

	arr := []any{"a", "b", "c"}
	assert.Equal(t, []string{"0", "1", "2"}, JSONKeys(arr))

	assert.Nil(t, JSONKeys("scalar"))
}
