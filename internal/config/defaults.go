package config

const (
	defaultBaseURL               = "http://127.0.0.1:8000"
	defaultRequestTimeoutSeconds = 60
	defaultAssetsDir             = "~/.local/share/storybook/assets"
	defaultLogDir                = "~/.local/share/storybook/logs"
	defaultMirrorDir             = "~/.local/share/storybook/mirror"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultNtfyTimeoutSeconds    = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Backend: Backend{
			BaseURL:        defaultBaseURL,
			RequestTimeout: defaultRequestTimeoutSeconds,
		},
		Paths: Paths{
			AssetsDir: defaultAssetsDir,
			LogDir:    defaultLogDir,
		},
		Mirror: Mirror{
			Enabled: true,
			Dir:     defaultMirrorDir,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeoutSeconds,
			Generation:     true,
			Video:          true,
			Composition:    true,
			Extraction:     true,
			Errors:         true,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
