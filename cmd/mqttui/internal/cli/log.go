package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mqttui/mqttui/internal/broker"
	"github.com/mqttui/mqttui/internal/payload"
)

var (
	logVerbose bool
	logJSON    bool
)

var logCmd = &cobra.Command{
	Use:   "log TOPIC...",
	Short: "Subscribe and print each message on one line until interrupted",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLog,
}

func init() {
	logCmd.Flags().BoolVar(&logVerbose, "verbose", false, "write human-readable lines to stderr instead of stdout")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "emit newline-delimited JSON objects instead of human-readable lines")
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	global, err := resolveGlobal(cmd)
	if err != nil {
		return err
	}

	logger := newLogger()

	subs := make([]broker.TopicSubscription, len(args))
	for i, f := range args {
		subs[i] = broker.TopicSubscription{Filter: f, QoS: 1}
	}

	conn, err := broker.Connect(cmd.Context(), broker.Options{
		Global: global,
		Topics: subs,
		Logger: logger,
	})
	if err != nil {
		return runtimeError("connecting to %s: %v", global.Broker, err)
	}
	defer conn.Disconnect(250)

	out := os.Stdout
	if logVerbose {
		out = os.Stderr
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-conn.Messages():
			if !ok {
				return nil
			}
			if err := writeLineTo(out, m, logJSON); err != nil {
				return runtimeError("%s", err)
			}
		}
	}
}

// logJSONLine is the newline-delimited JSON shape spec §6 names:
// {time, topic, qos, retained, payload}.
type logJSONLine struct {
	Time     string `json:"time"`
	Topic    string `json:"topic"`
	QoS      string `json:"qos"`
	Retained bool   `json:"retained"`
	Payload  string `json:"payload"`
}

// writeLineTo renders one message, human-readable or as JSON (spec §6 log
// formats), to out. Takes io.Writer rather than *os.File so it can be
// exercised directly in tests against a bytes.Buffer.
func writeLineTo(out io.Writer, m broker.Message, asJSON bool) error {
	if asJSON {
		line := logJSONLine{
			Time:     m.Entry.Received.Format("15:04:05.000"),
			Topic:    m.Topic,
			QoS:      m.Entry.QoS.String(),
			Retained: m.Entry.Retained,
			Payload:  payloadText(m),
		}
		enc := json.NewEncoder(out)
		return enc.Encode(line)
	}

	retainedMarker := ""
	if m.Entry.Retained {
		retainedMarker = "RETAINED"
	}

	_, err := fmt.Fprintf(out, "%s | %-12s %-50s QoS:%-10s Payload(%3d): %s\n",
		m.Entry.Received.Format("15:04:05.000"),
		retainedMarker,
		m.Topic,
		m.Entry.QoS.String(),
		len(m.Entry.Payload.Raw),
		payloadText(m),
	)
	return err
}

// payloadText renders a message's payload for the log line / JSON field:
// text and JSON payloads print their decoded text, MessagePack and binary
// print a bracketed byte-count placeholder since they have no useful
// single-line text form.
func payloadText(m broker.Message) string {
	switch m.Entry.Payload.Kind {
	case payload.KindText, payload.KindJSON:
		return m.Entry.Payload.Text
	default:
		return fmt.Sprintf("<%s: %d bytes>", m.Entry.Payload.Kind, len(m.Entry.Payload.Raw))
	}
}
