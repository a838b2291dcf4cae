package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# taskdeck configuration file
# Values can be overridden by environment variables (TASKDECK_*) or CLI flags

# Task file (relative to the project root, supports ~ expansion)
store_file = "appData/tasks.json"

# Log file; set to "" to disable logging
log_file = "logs/logs.log"

# Log level: debug, info, warn, error
log_level = "info"

# Log format: text, json, logfmt
log_format = "text"

# Include caller location in log lines
log_caller = false

# Reload the task list when the task file changes on disk
watch = false

# Enable mouse support (click buttons and rows, scroll the list)
mouse = true
`
}
