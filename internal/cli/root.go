// Package cli implements the seatctl command line: a load simulator for
// the seat pool and helpers for operators of the HTTP server.
package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the seatctl command tree writing to out.
func NewRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "seatctl",
		Short:         "Seat arbiter tools",
		Long:          `Simulate contention on a seat pool and manage access for the seat arbiter server.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(out)
	root.SetErr(out)
	root.AddCommand(newSimulateCmd(), newTokenCmd(), newHashKeyCmd())
	return root
}

// Execute runs seatctl against os.Args and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
