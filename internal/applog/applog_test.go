package applog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevelCaseInsensitive(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"Debug":   LevelDebug,
		"DEBUG":   LevelDebug,
		"dEbUg":   LevelDebug,
		"":        LevelInfo,
		"info":    LevelInfo,
		"INFO":    LevelInfo,
		"warn":    LevelWarn,
		"Warning": LevelWarn,
		"error":   LevelError,
		"ERROR":   LevelError,
		"bogus":   LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "input %q", in)
	}
}

func TestParseFormatCaseInsensitive(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatText, ParseFormat("text"))
	assert.Equal(t, FormatText, ParseFormat("bogus"))
	assert.Equal(t, FormatText, ParseFormat(""))
}

func TestNewWritesToConfiguredOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatJSON, Output: &buf})
	logger.Info("hello", "key", "value")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"key":"value"`)
}

func TestNopDiscardsOutput(t *testing.T) {
	logger := Nop()
	logger.Error("should not appear anywhere observable")
}
