package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const snapshotSchemaURL = "taskline://snapshot.schema.json"

const snapshotSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["version", "projects"],
  "properties": {
    "version": {"const": 1},
    "next_project_seq": {"type": "integer", "minimum": 1},
    "pics": {"type": "array", "items": {"type": "string", "minLength": 1}},
    "projects": {"type": "array", "items": {"$ref": "#/$defs/project"}},
    "undo": {"type": "array", "items": {"$ref": "#/$defs/undo"}}
  },
  "$defs": {
    "date": {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"},
    "completion": {"type": "integer", "minimum": 0, "maximum": 100},
    "task": {
      "type": "object",
      "required": ["name", "start", "due"],
      "properties": {
        "name": {"type": "string"},
        "start": {"$ref": "#/$defs/date"},
        "due": {"$ref": "#/$defs/date"},
        "completion": {"$ref": "#/$defs/completion"},
        "pic": {"type": "string"},
        "notes": {"type": "string"},
        "dependency": {"enum": ["free", "parent"]},
        "expanded": {"type": "boolean"},
        "children": {"type": "array", "items": {"$ref": "#/$defs/task"}}
      }
    },
    "project": {
      "type": "object",
      "required": ["id", "name"],
      "properties": {
        "id": {"type": "string", "pattern": "^[Pp][0-9]+$"},
        "name": {"type": "string"},
        "pic": {"type": "string"},
        "completion": {"$ref": "#/$defs/completion"},
        "expanded": {"type": "boolean"},
        "tasks": {"type": "array", "items": {"$ref": "#/$defs/task"}}
      }
    },
    "undo": {
      "type": "object",
      "required": ["id", "kind"],
      "properties": {
        "id": {"type": "string"},
        "kind": {"enum": ["project", "task"]},
        "label": {"type": "string"},
        "deleted_at": {"type": "string"},
        "project": {"$ref": "#/$defs/project"},
        "project_index": {"type": "integer", "minimum": 0},
        "task": {"$ref": "#/$defs/task"},
        "parent_project": {"type": "string"},
        "parent_path": {"type": "string"},
        "index": {"type": "integer", "minimum": 0},
        "parent_due": {"$ref": "#/$defs/date"}
      }
    }
  }
}`

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
)

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(snapshotSchemaURL, strings.NewReader(snapshotSchema)); err != nil {
			compileErr = fmt.Errorf("adding snapshot schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile(snapshotSchemaURL)
	})
	return compiledSchema, compileErr
}

// validateSnapshot checks standardized JSON against the snapshot schema and
// reports every leaf failure as "path: message".
func validateSnapshot(data []byte) error {
	schema, err := loadSchema()
	if err != nil {
		return err
	}
	var obj interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if err := schema.Validate(obj); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
		}
		var msgs []string
		collectSchemaErrors(&msgs, ve)
		return fmt.Errorf("%w: %s", ErrInvalidSnapshot, strings.Join(msgs, "; "))
	}
	return nil
}

func collectSchemaErrors(msgs *[]string, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		loc := err.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*msgs = append(*msgs, loc+": "+err.Message)
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(msgs, cause)
	}
}
