package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"expctl/internal/experiments"
	"expctl/internal/logs"
)

func newLogCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show experiment logs",
	}
	cmd.AddCommand(newStreamLogCommand(ctx, experiments.Stdout))
	cmd.AddCommand(newStreamLogCommand(ctx, experiments.Stderr))
	cmd.AddCommand(newTrialLogCommand(ctx))
	return cmd
}

func newStreamLogCommand(ctx *commandContext, stream experiments.Stream) *cobra.Command {
	var (
		head      int
		tail      int
		printPath bool
		follow    bool
	)

	cmd := &cobra.Command{
		Use:   string(stream) + " [id]",
		Short: fmt.Sprintf("Show the REST server %s log", stream),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *experiments.Service) error {
				path, err := svc.LogFile(cmd.Context(), optionalID(args), stream)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if printPath {
					fmt.Fprintf(out, "The path of %s file is: %s\n", stream, path)
					return nil
				}

				var result logs.TailResult
				switch {
				case head > 0:
					result, err = logs.Head(path, head)
				case tail > 0:
					result, err = logs.Tail(path, tail)
				default:
					result, err = logs.Head(path, 0)
				}
				if errors.Is(err, logs.ErrNoLog) {
					fmt.Fprintln(out, "NULL!")
					return nil
				}
				if err != nil {
					return err
				}
				for _, line := range result.Lines {
					fmt.Fprintln(out, line)
				}
				if !follow {
					return nil
				}
				// --head stops early; follow from the end of the file instead.
				offset := result.Offset
				if head > 0 {
					end, err := logs.Tail(path, 0)
					if err != nil {
						return err
					}
					offset = end.Offset
				}
				_, err = logs.Follow(cmd.Context(), path, offset, func(line string) error {
					_, err := fmt.Fprintln(out, line)
					return err
				})
				return err
			})
		},
	}
	cmd.Flags().IntVar(&head, "head", 0, "Show the first N lines")
	cmd.Flags().IntVar(&tail, "tail", 0, "Show the last N lines")
	cmd.Flags().BoolVar(&printPath, "path", false, "Print the log file path")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing lines as they are written")
	cmd.MarkFlagsMutuallyExclusive("head", "tail", "path")
	cmd.MarkFlagsMutuallyExclusive("path", "follow")
	return cmd
}

func newTrialLogCommand(ctx *commandContext) *cobra.Command {
	var trialID string

	cmd := &cobra.Command{
		Use:   "trial [id]",
		Short: "Show trial log paths",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *experiments.Service) error {
				paths, err := svc.TrialLogPaths(cmd.Context(), optionalID(args), strings.TrimSpace(trialID))
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, p := range paths {
					fmt.Fprintf(out, "id:%s path:%s\n", p.ID, p.Path)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&trialID, "trial-id", "", "Only show the log path of this trial")
	return cmd
}
