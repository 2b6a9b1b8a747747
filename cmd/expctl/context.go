package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"expctl/internal/config"
	"expctl/internal/experiments"
	"expctl/internal/logging"
	"expctl/internal/procctl"
	"expctl/internal/registry"
	"expctl/internal/restclient"
)

// newProcesses builds the process collaborator; tests swap it for a fake.
var newProcesses = func() experiments.Processes { return procctl.Local{} }

type commandContext struct {
	configFlag *string
	homeFlag   *string
	verbose    *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger

	requestID string
}

func newCommandContext(configFlag, homeFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		homeFlag:   homeFlag,
		verbose:    verbose,
		requestID:  uuid.NewString(),
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.homeFlag != nil && strings.TrimSpace(*c.homeFlag) != "" {
			home, err := config.ExpandPath(strings.TrimSpace(*c.homeFlag))
			if err != nil {
				c.configErr = fmt.Errorf("resolve --home: %w", err)
				return
			}
			cfg.Paths.HomeDir = home
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) loggerValue() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		verbose := c.verbose != nil && *c.verbose
		logger, err := logging.NewFromConfig(cfg, verbose)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) withRegistry(fn func(*registry.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := registry.Open(cfg)
	if err != nil {
		return fmt.Errorf("open experiment registry: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func (c *commandContext) withService(fn func(*experiments.Service) error) error {
	return c.withRegistry(func(store *registry.Store) error {
		logger := c.loggerValue()
		rest := restclient.New(c.config,
			restclient.WithRequestID(c.requestID),
			restclient.WithLogger(logger),
		)
		svc := experiments.NewService(c.config, store, rest, newProcesses(), experiments.WithLogger(logger))
		return presentError(fn(svc))
	})
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func optionalID(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
