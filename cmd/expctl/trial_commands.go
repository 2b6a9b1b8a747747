package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"expctl/internal/experiments"
)

func newTrialCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trial",
		Short: "Inspect and control trial jobs",
	}
	cmd.AddCommand(newTrialListCommand(ctx))
	cmd.AddCommand(newTrialKillCommand(ctx))
	return cmd
}

func newTrialListCommand(ctx *commandContext) *cobra.Command {
	var asTable bool

	cmd := &cobra.Command{
		Use:     "ls [id]",
		Aliases: []string{"list"},
		Short:   "List trial jobs of an experiment",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *experiments.Service) error {
				trials, err := svc.ListTrials(cmd.Context(), optionalID(args))
				if err != nil {
					return err
				}
				if !asTable {
					return writeJSON(cmd, trials)
				}
				out := cmd.OutOrStdout()
				if len(trials) == 0 {
					fmt.Fprintln(out, "No trial jobs")
					return nil
				}
				fmt.Fprintln(out, renderTrialTable(trials, shouldColorize(out)))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asTable, "table", false, "Render a table instead of JSON")
	return cmd
}

func renderTrialTable(trials []map[string]any, colorize bool) string {
	rows := make([][]string, 0, len(trials))
	for _, trial := range trials {
		rows = append(rows, []string{
			fieldString(trial, "id"),
			colorizeStatus(fieldString(trial, "status"), colorize),
			fieldString(trial, "startTime"),
			fieldString(trial, "endTime"),
		})
	}
	return renderTable(trialColumns, rows)
}

func fieldString(doc map[string]any, key string) string {
	v, ok := doc[key]
	if !ok || v == nil {
		return ""
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	if s == "0" {
		return ""
	}
	return s
}

func newTrialKillCommand(ctx *commandContext) *cobra.Command {
	var trialID string

	cmd := &cobra.Command{
		Use:   "kill [id]",
		Short: "Cancel a trial job",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *experiments.Service) error {
				body, err := svc.KillTrial(cmd.Context(), optionalID(args), strings.TrimSpace(trialID))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), body)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&trialID, "trial-id", "", "Trial job id to cancel")
	_ = cmd.MarkFlagRequired("trial-id")
	return cmd
}
