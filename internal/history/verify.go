package history

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed record.schema.json
var recordSchemaJSON string

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

// VerifyResult reports the outcome of a store integrity check.
type VerifyResult struct {
	Checked int
	Invalid map[string]string
}

// OK reports whether every checked file passed validation.
func (r VerifyResult) OK() bool {
	return len(r.Invalid) == 0
}

// Verify checks every record file against the embedded schema and returns
// the files that failed with their reasons.
func (s *Store) Verify() (VerifyResult, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("read data directory: %w", err)
	}

	result := VerifyResult{Invalid: map[string]string{}}
	for _, entry := range entries {
		if entry.IsDir() || !isRecordFile(entry.Name()) {
			continue
		}
		result.Checked++

		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			result.Invalid[entry.Name()] = fmt.Sprintf("read: %v", err)
			continue
		}
		if err := validateRecordPayload(data); err != nil {
			result.Invalid[entry.Name()] = err.Error()
		}
	}
	return result, nil
}

// InvalidFiles returns the failing file names in stable order.
func (r VerifyResult) InvalidFiles() []string {
	names := make([]string, 0, len(r.Invalid))
	for name := range r.Invalid {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func validateRecordPayload(payload []byte) error {
	value, err := decodeStrictJSON(payload)
	if err != nil {
		return fmt.Errorf("decode record JSON: %w", err)
	}

	schema, err := loadSchema()
	if err != nil {
		return fmt.Errorf("load schema: %w", err)
	}

	if err := schema.Validate(value); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true

		if err := compiler.AddResource("record.schema.json", strings.NewReader(recordSchemaJSON)); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}

		schema, err := compiler.Compile("record.schema.json")
		if err != nil {
			compiledSchemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}

		compiledSchema = schema
	})

	if compiledSchemaErr != nil {
		return nil, compiledSchemaErr
	}
	if compiledSchema == nil {
		return nil, fmt.Errorf("schema not initialized")
	}
	return compiledSchema, nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("record is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("record contains trailing content")
	}

	return value, nil
}
