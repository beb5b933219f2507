package idgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortLengthAndCharset(t *testing.T) {
	s := Short()
	assert.Len(t, s, 8)
	for _, r := range s {
		assert.True(t, (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f'), "unexpected char %q", r)
	}
}

func TestShortIsRandomized(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[Short()] = true
	}
	assert.Greater(t, len(seen), 40, "expected low collision rate across 50 draws")
}

func TestClientIDHasPrefix(t *testing.T) {
	id := ClientID()
	assert.True(t, strings.HasPrefix(id, ClientIDPrefix))
	assert.Len(t, id, len(ClientIDPrefix)+8)
}
