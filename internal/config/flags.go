package config

import "flag"

// parseFlags defines the global flags on fs, parses args and updates source
// tracking for every flag the user set.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("taskdeck", flag.ContinueOnError)
	}

	fs.StringVar(&cfg.StoreFile, "store", cfg.StoreFile, "Path to task file")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Log file (empty disables logging)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")
	fs.BoolVar(&cfg.Watch, "watch", cfg.Watch, "Reload the task list when the task file changes")
	fs.BoolVar(&cfg.Mouse, "mouse", cfg.Mouse, "Enable mouse support in the terminal UI")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Map flag names to source field names
	flagToSource := map[string]string{
		"store":      "store_file",
		"log-file":   "log_file",
		"log-level":  "log_level",
		"log-format": "log_format",
		"log-caller": "log_caller",
		"watch":      "watch",
		"mouse":      "mouse",
	}

	fs.Visit(func(f *flag.Flag) {
		if sources == nil {
			return
		}
		if fieldName, ok := flagToSource[f.Name]; ok {
			sources[fieldName] = SourceFlag
		}
	})

	return nil
}
