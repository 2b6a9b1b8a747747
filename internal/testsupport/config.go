package testsupport

import (
	"path/filepath"
	"testing"

	"expctl/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The stop settle delay is zeroed so stop workflows run without sleeping.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.HomeDir = filepath.Join(base, "home")
	cfgVal.Paths.LogDir = filepath.Join(base, "home", "logs")
	cfgVal.Stop.SettleSeconds = 0
	cfgVal.Stop.LockTimeoutSeconds = 2

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithRESTBaseURL points REST calls at a test server host (without port).
func WithRESTBaseURL(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.REST.BaseURL = baseURL
	}
}

// WithTimeouts overrides the REST request and check timeouts in seconds.
func WithTimeouts(request, check int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.REST.RequestTimeout = request
		b.cfg.REST.CheckTimeout = check
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.HomeDir)
}
