package catalog

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
)

// SupportedMajor is the catalog data format major version this build reads.
const SupportedMajor = "v1"

const documentSchemaURL = "schema://arlab-catalog.json"

var documentSchema = map[string]any{
	"type":     "object",
	"required": []any{"version", "lessons"},
	"properties": map[string]any{
		"version": map[string]any{"type": "string", "minLength": 1},
		"lessons": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items":    lessonSchema,
		},
	},
}

var lessonSchema = map[string]any{
	"type":     "object",
	"required": []any{"id", "subject", "title", "difficulty", "model_path", "steps", "quiz"},
	"properties": map[string]any{
		"id":                map[string]any{"type": "string", "minLength": 1},
		"subject":           map[string]any{"enum": []any{"physics", "biology", "chemistry"}},
		"title":             map[string]any{"type": "string", "minLength": 1},
		"description":       map[string]any{"type": "string"},
		"difficulty":        map[string]any{"enum": []any{"beginner", "intermediate", "advanced"}},
		"estimated_minutes": map[string]any{"type": "integer", "minimum": 0},
		"marker_id":         map[string]any{"type": "string"},
		"model_path":        map[string]any{"type": "string"},
		"prerequisites":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"tags":              map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"steps": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type":     "object",
				"required": []any{"number", "title", "instruction"},
				"properties": map[string]any{
					"number":      map[string]any{"type": "integer", "minimum": 1},
					"title":       map[string]any{"type": "string"},
					"instruction": map[string]any{"type": "string"},
					"interaction": map[string]any{"enum": []any{"tap", "rotate", "scale", "drag", "none"}},
					"highlight": map[string]any{
						"type":     "object",
						"required": []any{"object_id", "color"},
						"properties": map[string]any{
							"object_id":   map[string]any{"type": "string", "minLength": 1},
							"color":       map[string]any{"type": "string", "pattern": "^#[0-9A-Fa-f]{6}$"},
							"duration_ms": map[string]any{"type": "integer", "minimum": 0},
						},
					},
				},
			},
		},
		"quiz": map[string]any{
			"type":     "object",
			"required": []any{"id", "questions"},
			"properties": map[string]any{
				"id":              map[string]any{"type": "string", "minLength": 1},
				"passing_score":   map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
				"time_limit_secs": map[string]any{"type": "integer", "minimum": 0},
				"questions": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":     "object",
						"required": []any{"id", "text", "type", "options", "correct_answer"},
						"properties": map[string]any{
							"type":    map[string]any{"enum": []any{"multiple_choice", "true_false"}},
							"options": map[string]any{"type": "array", "minItems": 2, "items": map[string]any{"type": "string"}},
						},
					},
				},
			},
		},
	},
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		defBytes, err := json.Marshal(documentSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(documentSchemaURL, defParsed); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(documentSchemaURL)
	})
	return compiled, compileErr
}

// validateDocument checks raw catalog JSON against the document schema.
func validateDocument(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	sch, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile catalog schema: %w", err)
	}
	if err := sch.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// checkVersion rejects data files written for an incompatible format.
func checkVersion(v string) error {
	if v == "" {
		return fmt.Errorf("%w: missing version", ErrUnsupportedVersion)
	}
	if v[0] != 'v' {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("%w: %q is not a semantic version", ErrUnsupportedVersion, v)
	}
	if major := semver.Major(v); major != SupportedMajor {
		return fmt.Errorf("%w: major %s, want %s", ErrUnsupportedVersion, major, SupportedMajor)
	}
	return nil
}
