package main

import (
	"github.com/spf13/cobra"

	"expctl/internal/logging"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var homeFlag string
	var verbose bool

	ctx := newCommandContext(&configFlag, &homeFlag, &verbose)

	rootCmd := &cobra.Command{
		Use:           "expctl",
		Short:         "Manage locally running experiments",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(logging.WithRequestID(cmd.Context(), ctx.requestID))
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&homeFlag, "home", "", "Override the experiment home directory")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Mirror debug logs to stderr")

	rootCmd.AddCommand(newStopCommand(ctx))
	rootCmd.AddCommand(newExperimentCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newTrialCommand(ctx))
	rootCmd.AddCommand(newLogCommand(ctx))
	rootCmd.AddCommand(newWebUICommand(ctx))
	rootCmd.AddCommand(newSettingsCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newRegistryCommand(ctx))

	return rootCmd
}
