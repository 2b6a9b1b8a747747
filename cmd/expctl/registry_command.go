package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"expctl/internal/registry"
)

// newRegistryCommand exposes registration to experiment launchers. It is
// hidden from help because users never call it directly.
func newRegistryCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:    "registry",
		Short:  "Maintain the experiment registry",
		Hidden: true,
	}
	cmd.AddCommand(newRegistryAddCommand(ctx))
	cmd.AddCommand(newRegistryRemoveCommand(ctx))
	return cmd
}

func newRegistryAddCommand(ctx *commandContext) *cobra.Command {
	var (
		port       int
		startTime  string
		restPort   int
		restPID    int
		webuiURLs  []string
		configJSON string
	)

	cmd := &cobra.Command{
		Use:   "add <id>",
		Short: "Register an experiment and its REST server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			if strings.TrimSpace(startTime) == "" {
				startTime = time.Now().UTC().Format("2006-01-02 15:04:05")
			}
			settings := registry.Settings{
				Port:           port,
				RESTServerPort: restPort,
				RESTServerPID:  restPID,
				WebUIURLs:      webuiURLs,
			}
			if settings.RESTServerPort == 0 {
				settings.RESTServerPort = port
			}
			if strings.TrimSpace(configJSON) != "" {
				if err := json.Unmarshal([]byte(configJSON), &settings.ExperimentConfig); err != nil {
					return fmt.Errorf("parse --experiment-config: %w", err)
				}
			}

			return ctx.withRegistry(func(store *registry.Store) error {
				exp := registry.Experiment{ID: id, Port: port, StartTime: startTime}
				if err := store.Register(cmd.Context(), exp, settings); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registered %s on port %d\n", id, port)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "Experiment port")
	cmd.Flags().StringVar(&startTime, "start-time", "", "Start time shown in listings")
	cmd.Flags().IntVar(&restPort, "rest-port", 0, "REST server port (defaults to --port)")
	cmd.Flags().IntVar(&restPID, "rest-pid", 0, "REST server process id")
	cmd.Flags().StringSliceVar(&webuiURLs, "webui-url", nil, "Web UI address (repeatable)")
	cmd.Flags().StringVar(&configJSON, "experiment-config", "", "Experiment configuration as a JSON object")
	_ = cmd.MarkFlagRequired("port")
	return cmd
}

func newRegistryRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an experiment from the registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRegistry(func(store *registry.Store) error {
				id := strings.TrimSpace(args[0])
				exp, err := store.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				if err := store.Remove(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from port %d\n", exp.ID, exp.Port)
				return nil
			})
		},
	}
}
