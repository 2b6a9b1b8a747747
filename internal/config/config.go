package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the directories expctl reads from and writes to.
type Paths struct {
	HomeDir string `toml:"home_dir"`
	LogDir  string `toml:"log_dir"`
}

// REST contains settings for talking to experiment REST servers.
type REST struct {
	BaseURL        string `toml:"base_url"`
	APIRoot        string `toml:"api_root"`
	RequestTimeout int    `toml:"request_timeout"`
	CheckTimeout   int    `toml:"check_timeout"`
}

// Stop contains settings for the stop workflow.
type Stop struct {
	// SettleSeconds is how long to wait after the DELETE request before the
	// server's child processes are signalled.
	SettleSeconds      int `toml:"settle_seconds"`
	LockTimeoutSeconds int `toml:"lock_timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for expctl.
//
// Configuration sections:
//   - Paths: registry home and CLI log directory
//   - REST: experiment REST server addressing and timeouts
//   - Stop: stop workflow timing
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	REST    REST    `toml:"rest"`
	Stop    Stop    `toml:"stop"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("expctl.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the registry home and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.HomeDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RegistryPath returns the location of the experiment registry database.
func (c *Config) RegistryPath() string {
	return filepath.Join(c.Paths.HomeDir, "experiments.db")
}

// ExperimentDir returns the per-experiment directory that holds the REST
// server's stdout and stderr captures. Directories are keyed by port.
func (c *Config) ExperimentDir(port int) string {
	return filepath.Join(c.Paths.HomeDir, fmt.Sprintf("%d", port))
}

// RequestTimeout returns the timeout for regular REST calls.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.REST.RequestTimeout) * time.Second
}

// CheckTimeout returns the timeout for the quick liveness check.
func (c *Config) CheckTimeout() time.Duration {
	return time.Duration(c.REST.CheckTimeout) * time.Second
}

// SettleDelay returns the pause between the stop request and signalling.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.Stop.SettleSeconds) * time.Second
}

// LockTimeout returns how long stop waits for another stop of the same experiment.
func (c *Config) LockTimeout() time.Duration {
	return time.Duration(c.Stop.LockTimeoutSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
