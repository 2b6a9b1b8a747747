package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"expctl/internal/experiments"
)

func newExperimentCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "experiment",
		Short: "Inspect experiments",
	}
	cmd.AddCommand(newExperimentShowCommand(ctx))
	cmd.AddCommand(newExperimentStatusCommand(ctx))
	cmd.AddCommand(newExperimentListCommand(ctx))
	return cmd
}

func newExperimentShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show the experiment document served by its REST server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *experiments.Service) error {
				doc, err := svc.ShowExperiment(cmd.Context(), optionalID(args))
				if err != nil {
					return err
				}
				return writeJSON(cmd, doc)
			})
		},
	}
}

func newExperimentStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status [id]",
		Short: "Show the REST server status of an experiment",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *experiments.Service) error {
				doc, err := svc.Status(cmd.Context(), optionalID(args))
				if err != nil {
					return err
				}
				return writeJSON(cmd, doc)
			})
		},
	}
}

func newExperimentListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered experiment ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *experiments.Service) error {
				listing, err := svc.List(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(listing) == 0 {
					fmt.Fprintln(out, "There is no experiment running...")
					return nil
				}
				fmt.Fprintln(out, renderExperimentList(listing))
				return nil
			})
		},
	}
}

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check [id]",
		Short: "Check whether an experiment's REST server is running",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *experiments.Service) error {
				running, err := svc.CheckRest(cmd.Context(), optionalID(args))
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if running {
					fmt.Fprintln(out, renderStatusLine("REST server", statusOK, "Restful server is running...", shouldColorize(out)))
				} else {
					fmt.Fprintln(out, renderStatusLine("REST server", statusError, "Restful server is not running...", shouldColorize(out)))
				}
				return nil
			})
		},
	}
}
