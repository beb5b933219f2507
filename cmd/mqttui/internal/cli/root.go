// Package cli wires mqttui's cobra command tree: a root command that
// launches the interactive TUI plus the publish/log/read-one/
// clean-retained subcommands, all sharing the same global connection
// flags resolved through internal/cliopts.
//
// Grounded on github.com/getmockd/mockd's pkg/cli package-per-file
// layout (root.go defining rootCmd and persistent flags, one file per
// subcommand registering itself from an init(), e.g. start.go/health.go).
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mqttui/mqttui/internal/applog"
	"github.com/mqttui/mqttui/internal/broker"
	"github.com/mqttui/mqttui/internal/cliopts"
	"github.com/mqttui/mqttui/internal/historystore"
	"github.com/mqttui/mqttui/internal/tui"
)

// BuildInfo carries version metadata injected at link time via ldflags.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildDate string
}

var buildInfo BuildInfo

var (
	logLevel  string
	logFormat string
)

// rootCmd is the base command: with no subcommand it starts the
// interactive TUI, subscribing to each TOPIC argument (default "#").
var rootCmd = &cobra.Command{
	Use:   "mqttui [TOPIC...]",
	Short: "An interactive terminal client for MQTT",
	Long: `mqttui connects to an MQTT broker and explores the incoming message
stream in real time: a hierarchical topic tree, a per-topic history
table, and decoders for UTF-8, JSON, MessagePack, and binary payloads.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runInteractive,
}

// Execute runs the command tree; it is the only exported entry point
// cmd/mqttui's main.go calls.
func Execute(info BuildInfo) error {
	buildInfo = info
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("broker", cliopts.DefaultBroker, "MQTT broker URL (mqtt://, mqtts://, ws://, wss://)")
	flags.String("username", "", "MQTT username")
	flags.String("password", "", "MQTT password (never shown in --help)")
	flags.String("client-cert", "", "path to a client TLS certificate (PEM)")
	flags.String("client-key", "", "path to the client TLS private key (PEM)")
	flags.Bool("insecure", false, "skip TLS certificate verification")
	flags.Int("payload-size-limit", cliopts.DefaultPayloadSizeLimit, "stored payload size limit in bytes before truncation")

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text, json")

	_ = rootCmd.PersistentFlags().MarkHidden("password")
}

// resolveGlobal reads cmd's flags into a cliopts.Options, translating a
// resolution failure into a usage error (spec §7 "Configuration error").
func resolveGlobal(cmd *cobra.Command) (cliopts.Options, error) {
	opts, err := cliopts.Resolve(cmd.Flags())
	if err != nil {
		return cliopts.Options{}, usageError("%s", err)
	}
	return opts, nil
}

func newLogger() *slog.Logger {
	return applog.New(applog.Config{
		Level:  applog.ParseLevel(logLevel),
		Format: applog.ParseFormat(logFormat),
		Output: os.Stderr,
	})
}

func runInteractive(cmd *cobra.Command, args []string) error {
	global, err := resolveGlobal(cmd)
	if err != nil {
		return err
	}

	logger := newLogger()

	filters := args
	if len(filters) == 0 {
		filters = []string{"#"}
	}

	store := historystore.New(0)

	subs := make([]broker.TopicSubscription, len(filters))
	for i, f := range filters {
		subs[i] = broker.TopicSubscription{Filter: f, QoS: 1}
	}

	conn, err := broker.Connect(cmd.Context(), broker.Options{
		Global: global,
		Topics: subs,
		Store:  store,
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

	if err := tui.Run(ctx, store, conn, logger); err != nil {
		return runtimeError("%s", err)
	}
	return nil
}
