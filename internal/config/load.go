package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// LoadWithSources loads configuration from multiple sources in priority order
// and tracks the source of each value:
// 1. Defaults
// 2. User config file (~/.taskdeck/taskdeck.toml or OS-specific config dir)
// 3. Project config file (taskdeck.toml or .taskdeck.toml in current directory)
// 4. Environment variables
// 5. CLI flags
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	sources := make(map[string]ConfigSource)
	cfg := &Config{}
	var files []string

	// 1. Set defaults (all fields start with default source)
	setDefaults(cfg)
	for _, field := range configFields() {
		sources[field] = SourceDefault
	}

	// 2. Try to load from user config file
	userConfigFile := findUserConfigFile()
	if userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile, sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
		files = append(files, userConfigFile)
	}

	// 3. Try to load from project config file (overrides user config)
	projectConfigFile := findProjectConfigFile()
	if projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile, sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
		files = append(files, projectConfigFile)
	}

	// 4. Override from environment
	loadFromEnv(cfg, sources)

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return &ConfigWithSources{
		Config:  cfg,
		Sources: sources,
		Files:   files,
	}, nil
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"store_file",
		"log_file",
		"log_level",
		"log_format",
		"log_caller",
		"watch",
		"mouse",
	}
}

// loadConfigFile loads TOML config from path, applying only the keys the
// file sets.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	var fc fileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown config key %q", undecoded[0].String())
	}

	setSource(&cfg.StoreFile, fc.StoreFile, sources, "store_file", source)
	setSource(&cfg.LogFile, fc.LogFile, sources, "log_file", source)
	setSource(&cfg.LogLevel, fc.LogLevel, sources, "log_level", source)
	setSource(&cfg.LogFormat, fc.LogFormat, sources, "log_format", source)
	setSource(&cfg.LogCaller, fc.LogCaller, sources, "log_caller", source)
	setSource(&cfg.Watch, fc.Watch, sources, "watch", source)
	setSource(&cfg.Mouse, fc.Mouse, sources, "mouse", source)
	return nil
}

// finalizeConfig computes derived values and resolves paths.
func finalizeConfig(cfg *Config) error {
	// Determine project root
	if cfg.ProjectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.ProjectRoot = wd
	}

	if cfg.StoreFile == "" {
		return fmt.Errorf("store_file must not be empty")
	}
	cfg.StoreFile = resolvePath(cfg.ProjectRoot, cfg.StoreFile)
	if cfg.LogFile != "" {
		cfg.LogFile = resolvePath(cfg.ProjectRoot, cfg.LogFile)
	}

	return nil
}
