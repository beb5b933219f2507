// mqttui CLI - an interactive terminal client for MQTT
package main

import (
	"fmt"
	"os"

	"github.com/mqttui/mqttui/cmd/mqttui/internal/cli"
)

// Build-time variables set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	err := cli.Execute(cli.BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "mqttui: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}
