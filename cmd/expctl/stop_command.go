package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"expctl/internal/experiments"
)

func newStopCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stop [id]",
		Short: "Stop running experiments",
		Long: "Stop the experiment matching id. The id may be omitted when exactly one\n" +
			"experiment is registered, \"all\" to stop every experiment, a prefix ending\n" +
			"in * to stop every match, or an exact id or unique prefix.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *experiments.Service) error {
				results, err := svc.Stop(cmd.Context(), optionalID(args))
				if err != nil && len(results) == 0 {
					return err
				}
				out := cmd.OutOrStdout()
				return writeStopResults(out, results, err, shouldColorize(out))
			})
		},
	}
}

// writeStopResults prints one status line per result, including the results
// gathered before stopErr interrupted Stop.
func writeStopResults(out io.Writer, results []experiments.StopResult, stopErr error, colorize bool) error {
	failed := 0
	for _, r := range results {
		kind, message := stopStatus(r)
		if kind == statusError {
			failed++
		}
		fmt.Fprintln(out, renderStatusLine(r.ID, kind, message, colorize))
	}
	if stopErr != nil {
		return stopErr
	}
	if failed > 0 {
		return fmt.Errorf("failed to stop %d of %d experiments", failed, len(results))
	}
	return nil
}

func stopStatus(r experiments.StopResult) (statusKind, string) {
	switch r.Outcome {
	case experiments.StopStopped:
		return statusOK, "Stop experiment success!"
	case experiments.StopNotRunning:
		return statusWarn, "Experiment is not running..."
	default:
		if r.Err != nil {
			return statusError, fmt.Sprintf("Stop experiment failed! (%v)", r.Err)
		}
		return statusError, "Stop experiment failed!"
	}
}
