// Package refdata decodes the embedded YAML reference tables (rubric, evidence
// dictionary, clarification questions, narrative templates, debug samples).
// Every document is validated against its JSON schema before it is bound to Go
// types, so a malformed table fails loudly at process start instead of
// silently scoring everything as 1.
package refdata

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned when a document does not match its schema.
var ErrInvalid = errors.New("invalid reference data")

// Decode parses raw YAML, validates it against schemaJSON and unmarshals it into out.
func Decode(name string, raw []byte, schemaJSON string, out any) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}

	if schemaJSON != "" {
		schema, err := jsonschema.CompileString(name+".schema.json", schemaJSON)
		if err != nil {
			return fmt.Errorf("compiling %s schema: %w", name, err)
		}

		// The validator expects JSON-shaped values (float64 numbers, string keys),
		// so round-trip the YAML tree through encoding/json first.
		generic, err := toJSONValue(doc)
		if err != nil {
			return fmt.Errorf("converting %s: %w", name, err)
		}
		if err := schema.Validate(generic); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, name, err)
		}
	}

	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("binding %s: %w", name, err)
	}
	return nil
}

// MustDecode is Decode for embedded tables that ship with the binary.
func MustDecode(name string, raw []byte, schemaJSON string, out any) {
	if err := Decode(name, raw, schemaJSON, out); err != nil {
		panic(err)
	}
}

func toJSONValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
