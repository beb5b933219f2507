package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishPayloadFromArg(t *testing.T) {
	publishFile = ""
	body, err := publishPayload([]string{"home/livingroom/temp", "21.5"})
	require.NoError(t, err)
	assert.Equal(t, "21.5", string(body))
}

func TestPublishPayloadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/payload.txt"
	require.NoError(t, os.WriteFile(path, []byte("from file"), 0o644))

	publishFile = path
	defer func() { publishFile = "" }()

	body, err := publishPayload([]string{"home/livingroom/temp"})
	require.NoError(t, err)
	assert.Equal(t, "from file", string(body))
}

func TestPublishPayloadArgAndFileIsUsageConflict(t *testing.T) {
	publishFile = "/dev/null"
	defer func() { publishFile = "" }()

	_, err := publishPayload([]string{"topic", "payload"})
	assert.Error(t, err)
}

func TestPublishPayloadNoneGivenIsError(t *testing.T) {
	publishFile = ""
	_, err := publishPayload([]string{"topic"})
	assert.Error(t, err)
}
