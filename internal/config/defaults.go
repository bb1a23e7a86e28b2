package config

const (
	defaultCatalogFile    = "~/LaunchBox/Metadata/Metadata.xml"
	defaultOutputDir      = "~/game_images"
	defaultLogDir         = "~/.local/share/boxart/logs"
	defaultIndexDir       = "~/.cache/boxart"
	defaultBaseURL        = "https://images.launchbox-app.com"
	defaultRequestTimeout = 30
	defaultRetries        = 3
	defaultRetryBackoffMS = 300
	defaultWorkers        = 20
	defaultMatchMode      = MatchStem
	defaultIndexEnabled   = true
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CatalogFile: defaultCatalogFile,
			OutputDir:   defaultOutputDir,
			LogDir:      defaultLogDir,
			IndexDir:    defaultIndexDir,
		},
		Source: Source{
			BaseURL:        defaultBaseURL,
			RequestTimeout: defaultRequestTimeout,
			Retries:        defaultRetries,
			RetryBackoffMS: defaultRetryBackoffMS,
		},
		Fetch: Fetch{
			Workers:           defaultWorkers,
			ExistingFileMatch: defaultMatchMode,
		},
		Index: Index{
			Enabled: defaultIndexEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
