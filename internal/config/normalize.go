package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeREST()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv(envHomeDir); ok && strings.TrimSpace(value) != "" {
		c.Paths.HomeDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.HomeDir) == "" {
		c.Paths.HomeDir = defaultHomeDir
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}

	var err error
	if c.Paths.HomeDir, err = expandPath(strings.TrimSpace(c.Paths.HomeDir)); err != nil {
		return fmt.Errorf("paths.home_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeREST() {
	c.REST.BaseURL = strings.TrimRight(strings.TrimSpace(c.REST.BaseURL), "/")
	if c.REST.BaseURL == "" {
		c.REST.BaseURL = defaultRESTBaseURL
	}
	c.REST.APIRoot = strings.TrimSpace(c.REST.APIRoot)
	if c.REST.APIRoot == "" {
		c.REST.APIRoot = defaultRESTAPIRoot
	}
	if !strings.HasPrefix(c.REST.APIRoot, "/") {
		c.REST.APIRoot = "/" + c.REST.APIRoot
	}
	c.REST.APIRoot = strings.TrimRight(c.REST.APIRoot, "/")
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv(envLogLevel); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
