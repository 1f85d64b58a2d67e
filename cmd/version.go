// =============================================================================
// XML to EDIFACT Converter - Version Command
// =============================================================================
//
// 'version' reports the build and the EDIFACT message profile this binary
// emits, so an operator can match an outbox file to the converter that
// produced it.
//
//   $ edifact-converter version
//   edifact-converter 1.0.0 (built unknown, go1.24.11)
//   Message profile: ORDERS D.96A UN EAN008, syntax UNOC:2
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/XML-to-EDIFACT-conversion/internal/edifact"
)

// Version and BuildDate are stamped by the release build:
//   go build -ldflags "-X 'github.com/ginjaninja78/XML-to-EDIFACT-conversion/cmd.Version=1.2.0'"
var (
	Version   = "1.0.0"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the build and the EDIFACT message profile",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s (built %s, %s)\n", rootCmd.Name(), Version, BuildDate, runtime.Version())
		fmt.Fprintf(out, "Message profile: %s %s.%s %s %s, syntax %s:%s\n",
			edifact.MessageType,
			edifact.MessageVersion,
			edifact.MessageRelease,
			edifact.ControlAgency,
			edifact.AssociationCode,
			edifact.SyntaxIdentifier,
			edifact.SyntaxVersion,
		)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
