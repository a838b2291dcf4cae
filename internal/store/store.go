package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Config holds store settings.
type Config struct {
	// Path is the JSON file backing the store.
	Path string
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to record mutations.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used for task timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store reads and rewrites the task file.
// It assumes a single process owns the file; no locking is done.
type Store struct {
	path   string
	logger *log.Logger
	now    func() time.Time
}

// New creates a store for cfg.Path.
func New(cfg Config, opts ...Option) *Store {
	s := &Store{
		path:   cfg.Path,
		logger: log.New(io.Discard),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the store file path.
func (s *Store) Path() string {
	return s.path
}

// List returns every task in stored order.
// A missing or undecodable file yields an empty list and no error; only
// failures to read an existing file are reported.
func (s *Store) List() ([]Task, error) {
	data, err := s.readFile()
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []Task{}, nil
		}
		return nil, err
	}

	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil || tasks == nil {
		return []Task{}, nil
	}
	return tasks, nil
}

// Add appends a new task and rewrites the file.
// The title is stored as given; callers validate it. Existing records are
// written back exactly as read.
func (s *Store) Add(title, description string) (Task, error) {
	records, err := s.loadStrict()
	if err != nil {
		return Task{}, err
	}

	id, err := NextID(taskList(records))
	if err != nil {
		return Task{}, err
	}
	task := Task{
		ID:          id,
		Title:       title,
		Description: description,
		Timestamp:   FormatTimestamp(s.now()),
	}
	raw, err := marshalRecord(task)
	if err != nil {
		return Task{}, &IOError{Op: "write", Path: s.path, Err: err}
	}
	records = append(records, record{task: task, raw: raw})

	if err := s.save(records); err != nil {
		return Task{}, err
	}
	s.logger.Info("task added", "id", task.ID, "title", task.Title)
	return task, nil
}

// Remove deletes the task with the given id.
// It reports false, and leaves the file as is, when no task matches.
func (s *Store) Remove(id int) (bool, error) {
	records, err := s.loadStrict()
	if err != nil {
		return false, err
	}

	kept := make([]record, 0, len(records))
	for _, r := range records {
		if r.task.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		return false, nil
	}

	if err := s.save(kept); err != nil {
		return false, err
	}
	s.logger.Info("task removed", "id", id)
	return true, nil
}

// Validate checks the file the way a mutation would and reports every
// problem found. A missing file is valid and empty.
func (s *Store) Validate() (*ValidationResult, error) {
	result := &ValidationResult{Valid: true}

	data, err := s.readFile()
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return result, nil
		}
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return result, nil
	}

	records, errs := checkContent(data)
	if len(errs) > 0 {
		result.Valid = false
		result.Errors = errs
		return result, nil
	}
	result.Tasks = len(records)
	return result, nil
}

// loadStrict reads the file as the base for a rewrite.
func (s *Store) loadStrict() ([]record, error) {
	data, err := s.readFile()
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	records, errs := checkContent(data)
	if len(errs) > 0 {
		return nil, &MalformedStoreError{Path: s.path, Err: errors.Join(errs...)}
	}
	return records, nil
}

func (s *Store) readFile() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, &IOError{Op: "read", Path: s.path, Err: err}
	}
	return data, nil
}

// save replaces the file with records via a temp file and rename.
func (s *Store) save(records []record) error {
	data, err := encode(records)
	if err != nil {
		return &IOError{Op: "write", Path: s.path, Err: err}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &IOError{Op: "write", Path: s.path, Err: fmt.Errorf("create directory: %w", err)}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return &IOError{Op: "write", Path: s.path, Err: err}
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return &IOError{Op: "write", Path: s.path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return &IOError{Op: "write", Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return &IOError{Op: "write", Path: s.path, Err: err}
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		cleanup()
		return &IOError{Op: "write", Path: s.path, Err: err}
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		cleanup()
		return &IOError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}

// encode renders records with 4-space indentation and a trailing newline.
// Each record keeps its own keys and key order.
func encode(records []record) ([]byte, error) {
	raws := make([]json.RawMessage, 0, len(records))
	for _, r := range records {
		raws = append(raws, r.raw)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(raws); err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}
	return buf.Bytes(), nil
}

// marshalRecord encodes a new task without HTML escaping.
func marshalRecord(t Task) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(t); err != nil {
		return nil, fmt.Errorf("marshal task: %w", err)
	}
	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
