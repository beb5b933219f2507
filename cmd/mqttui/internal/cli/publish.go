package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mqttui/mqttui/internal/broker"
)

var (
	publishRetain bool
	publishFile   string
)

var publishCmd = &cobra.Command{
	Use:     "publish TOPIC [PAYLOAD]",
	Aliases: []string{"p", "pub"},
	Short:   "Publish one message and exit",
	Args:    cobra.RangeArgs(1, 2),
	RunE:    runPublish,
}

func init() {
	publishCmd.Flags().BoolVar(&publishRetain, "retain", false, "publish with the retain flag set")
	publishCmd.Flags().StringVar(&publishFile, "file", "", "read the payload from FILE, or \"-\" for stdin")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	global, err := resolveGlobal(cmd)
	if err != nil {
		return err
	}

	topic := args[0]

	payload, err := publishPayload(args)
	if err != nil {
		return usageError("%s", err)
	}

	logger := newLogger()

	conn, err := broker.Connect(cmd.Context(), broker.Options{
		Global: global,
		Logger: logger,
	})
	if err != nil {
		return runtimeError("connecting to %s: %v", global.Broker, err)
	}
	defer conn.Disconnect(250)

	if err := conn.Publish(topic, 1, publishRetain, payload); err != nil {
		return runtimeError("publishing to %q: %v", topic, err)
	}

	return nil
}

// publishPayload resolves the message body from exactly one of: the
// second positional argument, --file, or stdin via --file -. Specifying
// both a PAYLOAD argument and --file is a usage error, not a silent
// precedence rule.
func publishPayload(args []string) ([]byte, error) {
	hasArg := len(args) == 2
	hasFile := publishFile != ""

	switch {
	case hasArg && hasFile:
		return nil, fmt.Errorf("specify PAYLOAD or --file, not both")
	case hasArg:
		return []byte(args[1]), nil
	case publishFile == "-":
		return io.ReadAll(os.Stdin)
	case hasFile:
		return os.ReadFile(publishFile)
	default:
		return nil, fmt.Errorf("no payload given: pass PAYLOAD, --file FILE, or --file -")
	}
}
