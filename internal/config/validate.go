package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateREST(); err != nil {
		return err
	}
	if err := c.validateStop(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateREST() error {
	parsed, err := url.Parse(c.REST.BaseURL)
	if err != nil {
		return fmt.Errorf("rest.base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("rest.base_url must use http or https, got %q", c.REST.BaseURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("rest.base_url must include a host, got %q", c.REST.BaseURL)
	}
	if parsed.Port() != "" {
		return errors.New("rest.base_url must not include a port; ports come from the experiment registry")
	}
	if c.REST.RequestTimeout <= 0 {
		return errors.New("rest.request_timeout must be positive")
	}
	if c.REST.CheckTimeout <= 0 {
		return errors.New("rest.check_timeout must be positive")
	}
	return nil
}

func (c *Config) validateStop() error {
	if c.Stop.SettleSeconds < 0 {
		return errors.New("stop.settle_seconds must be >= 0")
	}
	if c.Stop.LockTimeoutSeconds <= 0 {
		return errors.New("stop.lock_timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
