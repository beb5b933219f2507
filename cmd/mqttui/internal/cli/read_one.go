package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mqttui/mqttui/internal/broker"
	"github.com/mqttui/mqttui/internal/payload"
)

var readOneIgnoreRetained bool

var readOneCmd = &cobra.Command{
	Use:   "read-one TOPIC",
	Short: "Print the first matching message and exit",
	Args:  cobra.ExactArgs(1),
	RunE:  runReadOne,
}

func init() {
	readOneCmd.Flags().BoolVar(&readOneIgnoreRetained, "ignore-retained", false, "skip retained messages and wait for a live publish")
	rootCmd.AddCommand(readOneCmd)
}

func runReadOne(cmd *cobra.Command, args []string) error {
	global, err := resolveGlobal(cmd)
	if err != nil {
		return err
	}

	filter := args[0]
	logger := newLogger()

	conn, err := broker.Connect(cmd.Context(), broker.Options{
		Global: global,
		Topics: []broker.TopicSubscription{{Filter: filter, QoS: 1}},
		Logger: logger,
	})
	if err != nil {
		return runtimeError("connecting to %s: %v", global.Broker, err)
	}
	defer conn.Disconnect(250)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	for {
		select {
		case <-ctx.Done():
			return runtimeError("interrupted before a matching message arrived")
		case m, ok := <-conn.Messages():
			if !ok {
				return runtimeError("connection closed before a matching message arrived")
			}
			if readOneIgnoreRetained && m.Entry.Retained {
				continue
			}
			fmt.Fprintln(os.Stderr, m.Topic)
			switch m.Entry.Payload.Kind {
			case payload.KindText, payload.KindJSON:
				fmt.Fprintln(os.Stdout, m.Entry.Payload.Text)
			default:
				os.Stdout.Write(m.Entry.Payload.Raw)
				fmt.Fprintln(os.Stdout)
			}
			return nil
		}
	}
}
