package store

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/taskdeck/internal/utils"
)

//go:embed tasks.schema.json
var schemaJSON []byte

const schemaURL = "tasks.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// ValidationResult contains the outcome of a strict store check.
type ValidationResult struct {
	Valid  bool
	Tasks  int
	Errors []error
}

// Schema returns the embedded JSON Schema for the task file.
func Schema() []byte {
	out := make([]byte, len(schemaJSON))
	copy(out, schemaJSON)
	return out
}

func taskSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("load task schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile task schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// record is one stored task: the decoded fields plus the exact JSON it was
// read from, so a rewrite leaves untouched records as they were.
type record struct {
	task Task
	raw  json.RawMessage
}

func taskList(records []record) []Task {
	tasks := make([]Task, 0, len(records))
	for _, r := range records {
		tasks = append(tasks, r.task)
	}
	return tasks
}

// checkContent decodes data and reports every problem that makes it unfit
// as a rewrite base. An empty error list means records is trustworthy.
func checkContent(data []byte) ([]record, []error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, []error{&ValidationError{Err: fmt.Errorf("invalid JSON: %w", err)}}
	}

	schema, err := taskSchema()
	if err != nil {
		return nil, []error{err}
	}
	if err := schema.Validate(doc); err != nil {
		return nil, schemaErrors(err)
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, []error{&ValidationError{Err: err}}
	}

	var errs []error
	records := make([]record, 0, len(raws))
	seen := make(map[int]int, len(raws))
	for i, raw := range raws {
		var t Task
		if err := json.Unmarshal(raw, &t); err != nil {
			errs = append(errs, &ValidationError{Path: fmt.Sprintf("[%d]", i), Err: err})
			continue
		}
		if first, ok := seen[t.ID]; ok {
			errs = append(errs, &ValidationError{
				Path: fmt.Sprintf("[%d].id", i),
				Err:  fmt.Errorf("duplicate id %d (first used at [%d])", t.ID, first),
			})
			continue
		}
		seen[t.ID] = i
		records = append(records, record{task: t, raw: raw})
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return records, nil
}

func schemaErrors(err error) []error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []error{err}
	}
	var out []error
	collectSchemaErrors(&out, ve)
	return out
}

func collectSchemaErrors(out *[]error, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		*out = append(*out, &ValidationError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(out, cause)
	}
}
