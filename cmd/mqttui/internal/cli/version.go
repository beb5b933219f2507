package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var versionJSON bool

// versionOutput is the --json output shape.
type versionOutput struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
	OS      string `json:"os"`
	Arch    string `json:"arch"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "output version in JSON format")
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	out := versionOutput{
		Version: buildInfo.Version,
		Commit:  buildInfo.Commit,
		Date:    buildInfo.BuildDate,
		Go:      runtime.Version(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
	}

	if versionJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	version := out.Version
	if version == "" {
		version = "dev"
	} else if version[0] != 'v' {
		version = "v" + version
	}
	fmt.Printf("mqttui %s (%s, %s)\n", version, orDefault(out.Commit, "unknown"), orDefault(out.Date, "unknown"))
	fmt.Printf("%s %s/%s\n", out.Go, out.OS, out.Arch)
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
