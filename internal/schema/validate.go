package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/dgallion1/coursegest/internal/record"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	compileOnce sync.Once
	compiled    map[record.Kind]*jsonschema.Schema
	compileErr  error
)

func compileAll() (map[record.Kind]*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		out := make(map[record.Kind]*jsonschema.Schema, 2)
		for _, kind := range []record.Kind{record.KindAssessment, record.KindChapter} {
			name := string(kind) + ".schema.json"
			raw, err := schemaFS.ReadFile("schemas/" + name)
			if err != nil {
				compileErr = fmt.Errorf("read %s: %w", name, err)
				return
			}
			c := jsonschema.NewCompiler()
			if err := c.AddResource(name, bytes.NewReader(raw)); err != nil {
				compileErr = fmt.Errorf("load %s: %w", name, err)
				return
			}
			s, err := c.Compile(name)
			if err != nil {
				compileErr = fmt.Errorf("compile %s: %w", name, err)
				return
			}
			out[kind] = s
		}
		compiled = out
	})
	return compiled, compileErr
}

// Validate checks v against the embedded schema for kind. v may be a typed
// record, raw JSON bytes or an untyped tree produced by encoding/json.
func Validate(kind record.Kind, v any) error {
	schemas, err := compileAll()
	if err != nil {
		return err
	}
	s, ok := schemas[kind]
	if !ok {
		return fmt.Errorf("no schema for kind %q", kind)
	}
	doc, err := untyped(v)
	if err != nil {
		return err
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("%s does not match schema: %w", kind, err)
	}
	return nil
}

// untyped converts v to the map/slice/float64 tree the validator expects.
func untyped(v any) (any, error) {
	var raw []byte
	switch t := v.(type) {
	case map[string]any, []any:
		return t, nil
	case json.RawMessage:
		raw = t
	case []byte:
		raw = t
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal for validation: %w", err)
		}
		raw = b
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode for validation: %w", err)
	}
	return doc, nil
}
