package payload

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestDecodeText(t *testing.T) {
	p := Decode([]byte("20.0 °C"), false)
	assert.Equal(t, KindText, p.Kind)
	n, ok := Number(p)
	require.True(t, ok)
	assert.InDelta(t, 20.0, n, 0.0001)
}

func TestDecodeJSONNumber(t *testing.T) {
	p := Decode([]byte(`{"t":22}`), false)
	assert.Equal(t, KindJSON, p.Kind)
	_, ok := Number(p) // top-level object has no direct number
	assert.False(t, ok)

	m, ok := p.JSON.(map[string]any)
	require.True(t, ok)
	n, ok := Number(Payload{Kind: KindJSON, JSON: m["t"]})
	require.True(t, ok)
	assert.Equal(t, 22.0, n)
}

func TestDecodeJSONScalar(t *testing.T) {
	p := Decode([]byte("21.5"), false)
	assert.Equal(t, KindJSON, p.Kind)
	n, ok := Number(p)
	require.True(t, ok)
	assert.Equal(t, 21.5, n)
}

func TestDecodeMessagePack(t *testing.T) {
	raw, err := msgpack.Marshal(map[string]any{"v": 1.5})
	require.NoError(t, err)
	p := Decode(raw, false)
	assert.Equal(t, KindMessagePack, p.Kind)
}

func TestDecodeBinary(t *testing.T) {
	raw := []byte{0xff, 0xfe, 0x00, 0x01, 0x02}
	p := Decode(raw, false)
	assert.Equal(t, KindBinary, p.Kind)
}

func TestNumberNonFiniteDiscarded(t *testing.T) {
	_, ok := finite(math.NaN())
	assert.False(t, ok)
	_, ok = finite(math.Inf(1))
	assert.False(t, ok)
	_, ok = finite(math.Inf(-1))
	assert.False(t, ok)

	p := Decode([]byte("NaN"), false)
	_, ok = Number(p)
	assert.False(t, ok)
}

func TestClassifyIdempotent(t *testing.T) {
	samples := [][]byte{
		[]byte("hello world"),
		[]byte(`{"a":1,"b":[1,2,3]}`),
		{0x00, 0xff, 0x10, 0x20},
	}
	for _, raw := range samples {
		p1 := Decode(raw, false)
		p2 := Decode(p1.Raw, false)
		assert.Equal(t, p1.Kind, p2.Kind)
	}
}

func TestTruncatedFlagPreserved(t *testing.T) {
	p := Decode([]byte("abc"), true)
	assert.True(t, p.Truncated)
}
