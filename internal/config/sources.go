package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// projectConfigNames are looked up in the working directory, in order.
var projectConfigNames = []string{"taskdeck.toml", ".taskdeck.toml"}

// findProjectConfigFile returns the first project config file present in
// the working directory, or "".
func findProjectConfigFile() string {
	return firstExisting(projectConfigNames...)
}

// findUserConfigFile returns ~/.taskdeck/taskdeck.toml when present, else
// taskdeck/taskdeck.toml under the OS config directory, else "".
func findUserConfigFile() string {
	var candidates []string
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".taskdeck", "taskdeck.toml"))
	}
	if dir := osUserConfigDir(); dir != "" {
		candidates = append(candidates, filepath.Join(dir, "taskdeck", "taskdeck.toml"))
	}
	return firstExisting(candidates...)
}

func firstExisting(paths ...string) string {
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// osUserConfigDir returns the per-user config directory for the platform:
// %APPDATA% on Windows, ~/Library/Application Support on macOS and
// $XDG_CONFIG_HOME or ~/.config elsewhere. Returns "" if unknown.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		return os.Getenv("APPDATA")
	case "darwin":
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	*cfg = Config{
		StoreFile: DefaultStoreFile,
		LogFile:   DefaultLogFile,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Mouse:     DefaultMouse,
	}
}

// GetConfigFile returns the highest-priority config file that was loaded,
// or "" when only defaults, environment and flags were used.
func (cws *ConfigWithSources) GetConfigFile() string {
	if n := len(cws.Files); n > 0 {
		return cws.Files[n-1]
	}
	return ""
}
