package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files applied, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultStoreFile = "appData/tasks.json"
	DefaultLogFile   = "logs/logs.log"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultMouse     = true
)

// Config holds the full configuration for taskdeck.
type Config struct {
	// Paths
	StoreFile string `toml:"store_file"`
	LogFile   string `toml:"log_file"`

	// Logging configuration
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	LogCaller bool   `toml:"log_caller"`

	// Shell behavior
	Watch bool `toml:"watch"`
	Mouse bool `toml:"mouse"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// fileConfig mirrors Config with pointer fields so a config file can be
// told apart from one that merely omits a key.
type fileConfig struct {
	StoreFile *string `toml:"store_file"`
	LogFile   *string `toml:"log_file"`
	LogLevel  *string `toml:"log_level"`
	LogFormat *string `toml:"log_format"`
	LogCaller *bool   `toml:"log_caller"`
	Watch     *bool   `toml:"watch"`
	Mouse     *bool   `toml:"mouse"`
}
