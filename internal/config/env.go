package config

import "os"

// loadFromEnv overrides config from TASKDECK_* environment variables and
// records them as environment-sourced.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	setEnv := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	if v := os.Getenv("TASKDECK_STORE"); v != "" {
		cfg.StoreFile = v
		setEnv("store_file")
	}
	if v, ok := os.LookupEnv("TASKDECK_LOG_FILE"); ok {
		// An explicitly empty value disables the log file.
		cfg.LogFile = v
		setEnv("log_file")
	}
	if v := os.Getenv("TASKDECK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		setEnv("log_level")
	}
	if v := os.Getenv("TASKDECK_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		setEnv("log_format")
	}
	if v := os.Getenv("TASKDECK_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		setEnv("log_caller")
	}
	if v := os.Getenv("TASKDECK_WATCH"); v != "" {
		cfg.Watch = boolFromString(v)
		setEnv("watch")
	}
	if v := os.Getenv("TASKDECK_MOUSE"); v != "" {
		cfg.Mouse = boolFromString(v)
		setEnv("mouse")
	}
}
