package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atxtechbro/mcpdash/internal/errors"
	"github.com/atxtechbro/mcpdash/internal/ui"
	"github.com/spf13/cobra"
)

// Exit codes returned by Execute.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// NewRootCmd builds the full command tree. Each call returns an independent
// tree, so tests can execute commands without sharing flag state.
func NewRootCmd() *cobra.Command {
	var global GlobalFlags
	var dash DashboardFlags

	root := &cobra.Command{
		Use:   "mcpdash",
		Short: "Live terminal dashboard for MCP tool-usage telemetry",
		Long: `mcpdash watches an MCP telemetry backend and renders a live dashboard:
summary figures, three charts, and a feed of the most recent tool calls.

Snapshots are pulled from <server>/api/metrics on an interval and whenever
the push channel at ws://<host>/ws reports a new tool call.

Examples:
  mcpdash
  mcpdash --server http://metrics.internal:8080
  mcpdash --interval 10s --theme dark
  mcpdash snapshot --json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd.Context(), global, dash)
		},
	}

	AddGlobalFlags(root, &global)
	AddDashboardFlags(root, &dash)

	root.AddCommand(
		newSnapshotCmd(&global),
		newInitCmd(),
		newVersionCmd(),
		newCompletionCmd(),
	)
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		return handleError(os.Stderr, err)
	}
	return ExitOK
}

// handleError prints err and maps it to an exit code. Structured errors
// print in their own multi-line form. Cobra's usage errors get a pointer
// to --help.
func handleError(w io.Writer, err error) int {
	var dashErr *errors.Error
	if errors.As(err, &dashErr) {
		fmt.Fprint(w, dashErr.Error())
		return ExitError
	}

	msg := err.Error()
	if isUsageError(msg) {
		fmt.Fprintln(w, ui.Failure(strings.TrimSpace(msg)))
		fmt.Fprintln(w, ui.Muted("  Run 'mcpdash --help' for usage."))
		return ExitUsage
	}

	fmt.Fprintln(w, ui.Failure(msg))
	return ExitError
}

func isUsageError(msg string) bool {
	for _, prefix := range []string{"unknown command", "unknown flag", "unknown shorthand flag", "invalid argument", "accepts ", "flag needs an argument", "required flag"} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}
