package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mqttui/mqttui/internal/broker"
	"github.com/mqttui/mqttui/internal/cleanretained"
)

var cleanRetainedDryRun bool

var cleanRetainedCmd = &cobra.Command{
	Use:   "clean-retained TOPIC",
	Short: "Clear retained messages under a topic filter",
	Args:  cobra.ExactArgs(1),
	RunE:  runCleanRetained,
}

func init() {
	cleanRetainedCmd.Flags().BoolVar(&cleanRetainedDryRun, "dry-run", false, "report which topics would be cleared without publishing")
	rootCmd.AddCommand(cleanRetainedCmd)
}

func runCleanRetained(cmd *cobra.Command, args []string) error {
	global, err := resolveGlobal(cmd)
	if err != nil {
		return err
	}

	topic := args[0]
	filter := topic + "/#"
	logger := newLogger()

	conn, err := broker.Connect(cmd.Context(), broker.Options{
		Global: global,
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

	result, err := cleanretained.Subcommand(ctx, conn, filter, cleanRetainedDryRun)
	if err != nil {
		return runtimeError("cleaning retained messages under %q: %v", filter, err)
	}

	verb := "cleaned"
	if cleanRetainedDryRun {
		verb = "would clean"
	}
	fmt.Printf("%s %d retained topic(s) under %q\n", verb, len(result.Topics), filter)
	for _, t := range result.Topics {
		fmt.Println(" ", t)
	}

	return nil
}
