// Package broker owns the MQTT client connection: building connection
// options, issuing subscriptions, and feeding every received Publish
// event into a historystore.Store (spec §4.4).
//
// Grounded on the paho.mqtt.golang call sequence exercised by
// github.com/getmockd/mockd's tests/integration/mqtt_test.go and
// tests/e2e/mqtt_test.go (NewClientOptions/AddBroker/SetClientID/Connect/
// Subscribe/Publish/Disconnect against token.Wait/WaitTimeout/Error), the
// only place in the pack that drives paho as a client rather than
// implementing a broker.
package broker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	mqttclient "github.com/eclipse/paho.mqtt.golang"

	"github.com/mqttui/mqttui/internal/cliopts"
	"github.com/mqttui/mqttui/internal/historystore"
	"github.com/mqttui/mqttui/internal/idgen"
	"github.com/mqttui/mqttui/internal/payload"
	"github.com/mqttui/mqttui/internal/tlsconfig"
)

// ConnState is the connection's externally observable lifecycle state.
type ConnState int

const (
	Connecting ConnState = iota
	Connected
	Disconnected
)

func (s ConnState) String() string {
	switch s {
	case Connecting:
		return "Connecting"
	case Connected:
		return "Connected"
	case Disconnected:
		return "Disconnected"
	default:
		return "Unknown"
	}
}

// StateChange is one transition published on Connection.States().
type StateChange struct {
	State  ConnState
	Reason error // nil except for Disconnected after a connection loss
}

// ConnectTimeout bounds the initial connect attempt; after this, Connect
// returns a startup error (spec §7 "Startup error").
const ConnectTimeout = 10 * time.Second

// KeepAlive is the MQTT keep-alive interval (spec §4.4 step 1).
const KeepAlive = 5 * time.Second

// Connection wraps a paho client plus the state-change watch channel the
// UI observes.
type Connection struct {
	client       mqttclient.Client
	states       chan StateChange
	messages     chan Message
	storeMu      sync.RWMutex
	store        *historystore.Store
	payloadLimit int
	logger       *slog.Logger
}

// Message pairs a decoded history entry with the topic it arrived on, for
// consumers that observe the live stream directly rather than polling a
// historystore.Store (the log and read-one subcommands, neither of which
// needs tree aggregation).
type Message struct {
	Topic string
	Entry historystore.Entry
}

// Options configures Connect, beyond the global cliopts.Options that
// supply broker/credentials/TLS.
type Options struct {
	Global cliopts.Options

	// Topics are subscribed before Connect returns (spec §4.4 step 2).
	// Each is paired with a QoS level.
	Topics []TopicSubscription

	// Store receives every decoded Publish event. May be nil for
	// connections that only publish (e.g. the "publish" subcommand).
	Store *historystore.Store

	Logger *slog.Logger
}

// TopicSubscription pairs a topic filter with the QoS to subscribe at.
type TopicSubscription struct {
	Filter string
	QoS    byte
}

// Connect builds connection options per spec §4.4 step 1, connects, and
// issues every subscription in opts.Topics before returning, so the
// caller never misses a message racing subscription setup.
//
// A failure here (bad URL, DNS failure, TLS error, auth rejection before
// first connect) is a one-shot startup error: the caller must not enter
// the TUI or proceed with a subcommand.
func Connect(ctx context.Context, opts Options) (*Connection, error) {
	_ = ctx // reserved for cancellation once the underlying client supports it

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	tlsCfg, err := tlsconfig.Build(tlsconfig.Options{
		Insecure:       opts.Global.Insecure,
		ClientCertPath: opts.Global.ClientCert,
		ClientKeyPath:  opts.Global.ClientKey,
		Logger:         logger,
	})
	if err != nil {
		return nil, fmt.Errorf("building TLS config: %w", err)
	}

	conn := &Connection{
		states:       make(chan StateChange, 16),
		messages:     make(chan Message, 64),
		store:        opts.Store,
		payloadLimit: opts.Global.PayloadSizeLimit,
		logger:       logger,
	}

	clientOpts := mqttclient.NewClientOptions().
		AddBroker(opts.Global.Broker).
		SetClientID(idgen.ClientID()).
		SetConnectTimeout(ConnectTimeout).
		SetKeepAlive(KeepAlive).
		SetMaxReconnectInterval(30 * time.Second).
		SetAutoReconnect(true).
		SetConnectRetry(false).
		SetTLSConfig(tlsCfg)

	if opts.Global.Username != "" {
		clientOpts.SetUsername(opts.Global.Username)
	}
	if opts.Global.Password != "" {
		clientOpts.SetPassword(opts.Global.Password)
	}

	clientOpts.SetOnConnectHandler(func(mqttclient.Client) {
		conn.publishState(StateChange{State: Connected})
	})
	clientOpts.SetConnectionLostHandler(func(_ mqttclient.Client, err error) {
		conn.publishState(StateChange{State: Disconnected, Reason: err})
	})
	clientOpts.SetReconnectingHandler(func(mqttclient.Client, *mqttclient.ClientOptions) {
		conn.publishState(StateChange{State: Connecting})
	})

	conn.client = mqttclient.NewClient(clientOpts)

	conn.publishState(StateChange{State: Connecting})
	token := conn.client.Connect()
	if !token.WaitTimeout(ConnectTimeout) {
		return nil, fmt.Errorf("connecting to %s: timed out after %s", opts.Global.Broker, ConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", opts.Global.Broker, err)
	}

	for _, sub := range opts.Topics {
		if err := conn.subscribe(sub); err != nil {
			conn.client.Disconnect(250)
			return nil, err
		}
	}

	return conn, nil
}

func (c *Connection) subscribe(sub TopicSubscription) error {
	token := c.client.Subscribe(sub.Filter, sub.QoS, c.onMessage)
	if !token.WaitTimeout(ConnectTimeout) {
		return fmt.Errorf("subscribing to %q: timed out", sub.Filter)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribing to %q: %w", sub.Filter, err)
	}
	return nil
}

// onMessage decodes one Publish event, inserts it into the store if one
// is attached (spec §4.4 step 3), and always publishes it on the Messages
// channel for subcommands that observe the stream directly.
func (c *Connection) onMessage(_ mqttclient.Client, msg mqttclient.Message) {
	raw := msg.Payload()
	truncated := false
	if c.payloadLimit > 0 && len(raw) > c.payloadLimit {
		raw = raw[:c.payloadLimit]
		truncated = true
	}

	entry := historystore.Entry{
		Received:     time.Now(),
		QoS:          historystore.QoS(msg.Qos()),
		Retained:     msg.Retained(),
		Payload:      payload.Decode(raw, truncated),
		OriginalSize: len(msg.Payload()),
	}

	c.publishMessage(Message{Topic: msg.Topic(), Entry: entry})

	c.storeMu.RLock()
	store := c.store
	c.storeMu.RUnlock()
	if store != nil {
		store.Insert(msg.Topic(), entry)
	}
}

func (c *Connection) publishMessage(m Message) {
	select {
	case c.messages <- m:
	default:
		c.logger.Warn("dropping message: watch channel full", "topic", m.Topic)
	}
}

// Messages returns the channel of decoded Publish events for consumers
// that don't need a historystore.Store (spec §6 "log", "read-one").
func (c *Connection) Messages() <-chan Message {
	return c.messages
}

func (c *Connection) publishState(sc StateChange) {
	select {
	case c.states <- sc:
	default:
		c.logger.Warn("dropping connection state change: watch channel full", "state", sc.State)
	}
}

// States returns the channel of connection-state transitions for the UI
// to observe (spec §4.4 step 4).
func (c *Connection) States() <-chan StateChange {
	return c.states
}

// Publish sends one message, used by the "publish" subcommand and by the
// interactive clean-retained flow (empty retained payload).
func (c *Connection) Publish(topic string, qos byte, retain bool, body []byte) error {
	token := c.client.Publish(topic, qos, retain, body)
	if !token.WaitTimeout(ConnectTimeout) {
		return fmt.Errorf("publishing to %q: timed out", topic)
	}
	return token.Error()
}

// Subscribe adds a subscription after the connection is already
// established, used by the clean-retained subcommand for its own
// short-lived subscription.
func (c *Connection) Subscribe(sub TopicSubscription) error {
	return c.subscribe(sub)
}

// SwapStore replaces the store that onMessage inserts into. Used by the
// clean-retained subcommand to point a publish-only connection at a
// throwaway collector store for the duration of its idle-window wait,
// then restore the original (typically nil) store afterward.
func (c *Connection) SwapStore(store *historystore.Store) {
	c.storeMu.Lock()
	defer c.storeMu.Unlock()
	c.store = store
}

// Unsubscribe removes a previously added subscription.
func (c *Connection) Unsubscribe(filter string) error {
	token := c.client.Unsubscribe(filter)
	if !token.WaitTimeout(ConnectTimeout) {
		return fmt.Errorf("unsubscribing from %q: timed out", filter)
	}
	return token.Error()
}

// Disconnect closes the connection, waiting up to quiesce for in-flight
// work to settle.
func (c *Connection) Disconnect(quiesce uint) {
	c.client.Disconnect(quiesce)
}
