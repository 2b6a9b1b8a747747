package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"expctl/internal/experiments"
)

func newWebUICommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webui",
		Short: "Web UI helpers",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "url [id]",
		Short: "Show the web UI addresses of an experiment",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *experiments.Service) error {
				urls, err := svc.WebUIURLs(cmd.Context(), optionalID(args))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Web UI url: %s\n", strings.Join(urls, " "))
				return nil
			})
		},
	})
	return cmd
}

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	var format string

	show := &cobra.Command{
		Use:   "show [id]",
		Short: "Show the settings recorded for an experiment",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			if format != "json" && format != "yaml" {
				return fmt.Errorf("unsupported format %q (use json or yaml)", format)
			}
			return ctx.withService(func(svc *experiments.Service) error {
				settings, err := svc.Settings(cmd.Context(), optionalID(args))
				if err != nil {
					return err
				}
				if format == "json" {
					return writeJSON(cmd, settings)
				}
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(settings); err != nil {
					return fmt.Errorf("encode settings: %w", err)
				}
				return enc.Close()
			})
		},
	}
	show.Flags().StringVar(&format, "format", "json", "Output format: json or yaml")

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Per-experiment settings",
	}
	cmd.AddCommand(show)
	return cmd
}
