package config

import (
	"github.com/nibzard/taskdeck/internal/logging"
	"github.com/nibzard/taskdeck/internal/store"
)

// StoreConfig returns the settings for the task store.
func (c *Config) StoreConfig() store.Config {
	return store.Config{Path: c.StoreFile}
}

// LoggingOptions returns the settings for the log sink.
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{
		Path:   c.LogFile,
		Level:  c.LogLevel,
		Format: c.LogFormat,
		Caller: c.LogCaller,
	}
}

// Get returns a config value by its TOML key, for display.
func (c *Config) Get(field string) (interface{}, bool) {
	switch field {
	case "store_file":
		return c.StoreFile, true
	case "log_file":
		return c.LogFile, true
	case "log_level":
		return c.LogLevel, true
	case "log_format":
		return c.LogFormat, true
	case "log_caller":
		return c.LogCaller, true
	case "watch":
		return c.Watch, true
	case "mouse":
		return c.Mouse, true
	}
	return nil, false
}

// Fields returns the configurable keys in display order.
func Fields() []string {
	return configFields()
}
