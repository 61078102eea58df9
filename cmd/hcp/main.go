package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vertti/hcp/pkg/version"
)

// Version is set at build time via ldflags
var Version = "dev"

// exitCode is what the process exits with after a successful Execute.
var exitCode int

func main() {
	os.Exit(execute())
}

func execute() int {
	exitCode = 0
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return exitCode
}

var rootCmd = &cobra.Command{
	Use:   "hcp [flags] [cmd [args...]]",
	Short: "Run a command and report its result to healthchecks.io",
	Long: `hcp runs a command, pings a healthchecks.io check when it starts and
when it ends, and sends the command's output as the ping body.

Exit codes: the command's own code, 0 on success or with --hcp-ignore-code,
961 spawn failure, 962 output I/O failure, 963 healthcheck request failure,
964 command ended without an exit code.`,
	Version:      version.Normalize(Version),
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE:         runHCP,
}
