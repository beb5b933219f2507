package broker

import (
	"testing"

	mqttclient "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqttui/mqttui/internal/applog"
	"github.com/mqttui/mqttui/internal/historystore"
)

type fakeMessage struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return m.qos }
func (m fakeMessage) Retained() bool    { return m.retained }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 0 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

func TestOnMessageInsertsDecodedEntryIntoStore(t *testing.T) {
	store := historystore.New(0)
	conn := &Connection{
		states:       make(chan StateChange, 4),
		messages:     make(chan Message, 4),
		store:        store,
		payloadLimit: 1024,
		logger:       applog.Nop(),
	}

	conn.onMessage(nil, fakeMessage{
		topic:    "home/livingroom/temp",
		payload:  []byte("21.5"),
		qos:      1,
		retained: false,
	})

	hist := store.SnapshotHistory("home/livingroom/temp")
	require.Len(t, hist.Entries, 1)
	assert.Equal(t, historystore.AtLeastOnce, hist.Entries[0].QoS)
	assert.False(t, hist.Entries[0].Retained)
	assert.Equal(t, 4, hist.Entries[0].OriginalSize)
}

func TestOnMessagePublishesToMessagesChannelEvenWithoutStore(t *testing.T) {
	conn := &Connection{
		states:       make(chan StateChange, 4),
		messages:     make(chan Message, 4),
		payloadLimit: 1024,
		logger:       applog.Nop(),
	}

	conn.onMessage(nil, fakeMessage{topic: "a/b", payload: []byte("hi"), qos: 1, retained: true})

	select {
	case m := <-conn.Messages():
		assert.Equal(t, "a/b", m.Topic)
		assert.True(t, m.Entry.Retained)
		assert.Equal(t, "hi", m.Entry.Payload.Text)
	default:
		t.Fatal("expected a message on the channel")
	}
}

func TestOnMessageDropsWhenMessagesChannelFull(t *testing.T) {
	conn := &Connection{
		states:       make(chan StateChange, 4),
		messages:     make(chan Message, 1),
		payloadLimit: 1024,
		logger:       applog.Nop(),
	}

	conn.onMessage(nil, fakeMessage{topic: "a", payload: []byte("1")})
	assert.NotPanics(t, func() {
		conn.onMessage(nil, fakeMessage{topic: "b", payload: []byte("2")})
	})
	assert.Equal(t, 1, len(conn.messages))
}

func TestOnMessageTruncatesOverLimitPayload(t *testing.T) {
	store := historystore.New(0)
	conn := &Connection{
		states:       make(chan StateChange, 4),
		store:        store,
		payloadLimit: 4,
		logger:       applog.Nop(),
	}

	conn.onMessage(nil, fakeMessage{topic: "a/b", payload: []byte("0123456789"), qos: 0})

	hist := store.SnapshotHistory("a/b")
	require.Len(t, hist.Entries, 1)
	entry := hist.Entries[0]
	assert.True(t, entry.Payload.Truncated)
	assert.Equal(t, 10, entry.OriginalSize)
	assert.Len(t, entry.Payload.Raw, 4)
}

func TestOnMessageWithNilStoreIsANoOp(t *testing.T) {
	conn := &Connection{states: make(chan StateChange, 4), logger: applog.Nop()}
	assert.NotPanics(t, func() {
		conn.onMessage(nil, fakeMessage{topic: "a", payload: []byte("x")})
	})
}

func TestPublishStateDropsWhenChannelFull(t *testing.T) {
	conn := &Connection{states: make(chan StateChange, 1), logger: applog.Nop()}
	conn.publishState(StateChange{State: Connecting})
	assert.NotPanics(t, func() {
		conn.publishState(StateChange{State: Connected})
	})
	assert.Equal(t, 1, len(conn.states))
}

func TestConnStateString(t *testing.T) {
	assert.Equal(t, "Connecting", Connecting.String())
	assert.Equal(t, "Connected", Connected.String())
	assert.Equal(t, "Disconnected", Disconnected.String())
}

var _ mqttclient.Message = fakeMessage{}
