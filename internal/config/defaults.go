package config

const (
	defaultConfigPath        = "~/.config/expctl/config.toml"
	defaultHomeDir           = "~/.local/share/expctl"
	defaultLogDir            = "~/.local/share/expctl/logs"
	defaultRESTBaseURL       = "http://localhost"
	defaultRESTAPIRoot       = "/api/v1/nni"
	defaultRequestTimeout    = 20
	defaultCheckTimeout      = 5
	defaultStopSettleSeconds = 3
	defaultStopLockTimeout   = 30
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	envHomeDir               = "EXPCTL_HOME"
	envLogLevel              = "EXPCTL_LOG_LEVEL"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			HomeDir: defaultHomeDir,
			LogDir:  defaultLogDir,
		},
		REST: REST{
			BaseURL:        defaultRESTBaseURL,
			APIRoot:        defaultRESTAPIRoot,
			RequestTimeout: defaultRequestTimeout,
			CheckTimeout:   defaultCheckTimeout,
		},
		Stop: Stop{
			SettleSeconds:      defaultStopSettleSeconds,
			LockTimeoutSeconds: defaultStopLockTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
