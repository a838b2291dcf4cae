// Package cmd implements the CLI command structure for taskdeck.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskdeck/internal/config"
	"github.com/nibzard/taskdeck/internal/logging"
	"github.com/nibzard/taskdeck/internal/store"
	"github.com/nibzard/taskdeck/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the taskdeck CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("taskdeck", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// Determine the subcommand; the interactive shell is the default.
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "add":
		return addCommand(cfg, remainingArgs)
	case "rm", "remove":
		return rmCommand(cfg, remainingArgs)
	case "ls", "list":
		return lsCommand(cfg, remainingArgs)
	case "doctor":
		return doctorCommand(cfg, remainingArgs)
	case "tail":
		return tailCommand(ctx, cfg, remainingArgs)
	case "config":
		return configCommand(cws, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// session bundles the log sink and the store a command works against.
type session struct {
	sink  *logging.Sink
	store *store.Store
}

func openSession(cfg *config.Config) (*session, error) {
	sink, err := logging.Open(cfg.LoggingOptions())
	if err != nil {
		return nil, fmt.Errorf("opening log: %w", err)
	}
	logger := sink.Logger()
	logger.Info("logging started", "store", cfg.StoreFile, "version", Version)

	return &session{
		sink:  sink,
		store: store.New(cfg.StoreConfig(), store.WithLogger(logger)),
	}, nil
}

func (s *session) logger() *log.Logger {
	return s.sink.Logger()
}

func (s *session) Close() error {
	return s.sink.Close()
}

// tuiCommand launches the interactive shell.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskdeck tui", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	s, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := ui.Run(ctx, cfg, s.store, ui.WithTUILogger(s.logger())); err != nil {
		s.logger().Error("shell exited", "err", err)
		return err
	}
	return nil
}

// addCommand adds one task and prints it.
func addCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskdeck add", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) == 0 || len(remaining) > 2 {
		return fmt.Errorf("usage: taskdeck add <title> [description]")
	}
	title := strings.TrimSpace(remaining[0])
	if title == "" {
		return fmt.Errorf("title is required")
	}
	description := ""
	if len(remaining) == 2 {
		description = strings.TrimSpace(remaining[1])
	}

	s, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	task, err := s.store.Add(title, description)
	if err != nil {
		return fmt.Errorf("adding task: %w", err)
	}
	fmt.Printf("Added %s\n", task)
	return nil
}

// rmCommand removes a task by id.
func rmCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskdeck rm", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) != 1 {
		return fmt.Errorf("usage: taskdeck rm <id>")
	}
	id, err := strconv.Atoi(remaining[0])
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", remaining[0], err)
	}

	s, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	removed, err := s.store.Remove(id)
	if err != nil {
		return fmt.Errorf("removing task: %w", err)
	}
	if !removed {
		fmt.Printf("Nothing removed for id=%d\n", id)
		return nil
	}
	fmt.Printf("Removed id=%d\n", id)
	return nil
}

// lsCommand lists tasks newest first.
func lsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskdeck ls", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "Show descriptions and timestamps")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	st := store.New(cfg.StoreConfig())
	tasks, err := st.List()
	if err != nil {
		return fmt.Errorf("listing tasks: %w", err)
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks.")
		return nil
	}

	for _, t := range store.SortNewestFirst(tasks) {
		printTask(os.Stdout, t, *verbose)
	}
	return nil
}

func printTask(w io.Writer, t store.Task, verbose bool) {
	if !verbose {
		fmt.Fprintf(w, "%4d  %s\n", t.ID, t.Title)
		return
	}
	fmt.Fprintf(w, "%4d  %s\n", t.ID, t.Title)
	if t.Description != "" {
		fmt.Fprintf(w, "      %s\n", t.Description)
	}
	if t.Timestamp != "" {
		fmt.Fprintf(w, "      created %s\n", t.Timestamp)
	}
}

// doctorCommand reports resolved paths and checks the task file strictly.
func doctorCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskdeck doctor", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	fmt.Println("Taskdeck Doctor")
	fmt.Println("===============")
	fmt.Println()

	allOK := true

	fmt.Printf("Project root: %s\n", cfg.ProjectRoot)
	if _, err := os.Stat(cfg.ProjectRoot); err != nil {
		fmt.Printf("  ❌ Error: %v\n", err)
		allOK = false
	} else {
		fmt.Println("  ✅ OK")
	}
	fmt.Println()

	st := store.New(cfg.StoreConfig())
	fmt.Printf("Task file: %s\n", st.Path())
	info, err := os.Stat(st.Path())
	switch {
	case err != nil && errors.Is(err, os.ErrNotExist):
		fmt.Println("  ⚠️  Not found (created on first add)")
	case err != nil:
		fmt.Printf("  ❌ Error: %v\n", err)
		allOK = false
	case info.IsDir():
		fmt.Println("  ❌ Error: path is a directory")
		allOK = false
	default:
		result, err := st.Validate()
		if err != nil {
			fmt.Printf("  ❌ Read error: %v\n", err)
			allOK = false
			break
		}
		if result.Valid {
			fmt.Printf("  ✅ Valid (%d tasks)\n", result.Tasks)
		} else {
			fmt.Println("  ❌ Validation failed (add and remove will refuse this file):")
			for _, e := range result.Errors {
				fmt.Printf("     - %v\n", e)
			}
			allOK = false
		}
	}
	fmt.Println()

	if cfg.LogFile == "" {
		fmt.Println("Log file: (disabled)")
	} else {
		fmt.Printf("Log file: %s\n", cfg.LogFile)
		if _, err := os.Stat(cfg.LogFile); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				fmt.Println("  ⚠️  Not found (created on first run)")
			} else {
				fmt.Printf("  ❌ Error: %v\n", err)
				allOK = false
			}
		} else {
			fmt.Println("  ✅ OK")
		}
	}
	fmt.Println()

	if *verbose {
		fmt.Println("Schema:")
		fmt.Println(strings.TrimRight(string(store.Schema()), "\n"))
		fmt.Println()
	}

	if allOK {
		fmt.Println("✅ All checks passed!")
		return nil
	}
	fmt.Println("⚠️  Some checks failed.")
	return fmt.Errorf("doctor checks failed")
}

// tailCommand prints the log file.
func tailCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskdeck tail", flag.ContinueOnError)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if cfg.LogFile == "" {
		fmt.Println("Logging is disabled.")
		return nil
	}
	if _, err := os.Stat(cfg.LogFile); errors.Is(err, os.ErrNotExist) {
		fmt.Println("No log file found.")
		return nil
	}

	fmt.Printf("Tailing: %s\n", cfg.LogFile)
	if *follow {
		fmt.Println("(Ctrl+C to stop)")
	}
	fmt.Println()

	return logging.TailLog(ctx, os.Stdout, cfg.LogFile, *n, *follow)
}

// configCommand prints the effective configuration or an example file.
func configCommand(cws *config.ConfigWithSources, args []string) error {
	if len(args) > 0 {
		switch args[0] {
		case "example":
			fmt.Print(config.ExampleConfig())
			return nil
		default:
			return fmt.Errorf("unknown config subcommand: %s", args[0])
		}
	}

	if file := cws.GetConfigFile(); file != "" {
		fmt.Printf("# config file: %s\n", file)
	}
	for _, field := range config.Fields() {
		value, _ := cws.Config.Get(field)
		source := cws.Sources[field]
		if source == "" {
			source = config.SourceDefault
		}
		fmt.Printf("%-11s = %-40v # %s\n", field, formatValue(value), source)
	}
	return nil
}

func formatValue(v interface{}) string {
	if s, ok := v.(string); ok {
		return strconv.Quote(s)
	}
	return fmt.Sprint(v)
}

func versionCommand() error {
	fmt.Printf("taskdeck version %s\n", Version)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Taskdeck - a terminal task list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  taskdeck [options] [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                        Launch the interactive shell (default command)")
	fmt.Fprintln(w, "  add <title> [description]  Add a task")
	fmt.Fprintln(w, "  rm <id>                    Remove a task")
	fmt.Fprintln(w, "  ls [-v]                    List tasks, newest first")
	fmt.Fprintln(w, "  doctor [-v]                Check paths and task file validity")
	fmt.Fprintln(w, "  tail [-f] [-n N]           Print the log file")
	fmt.Fprintln(w, "  config [example]           Show effective config or an example file")
	fmt.Fprintln(w, "  version                    Show version information")
	fmt.Fprintln(w, "  help                       Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Shell Keys:")
	fmt.Fprintln(w, "  enter, ctrl+s   Add a task from the inputs")
	fmt.Fprintln(w, "  ctrl+r, r       Refresh the list")
	fmt.Fprintln(w, "  ctrl+d, d       Delete the selected task")
	fmt.Fprintln(w, "  ctrl+c, q, esc  Quit")
	fmt.Fprintln(w, "  tab, shift+tab  Move focus")
}
