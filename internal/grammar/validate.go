package grammar

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/aps-tools/invoice-extract/internal/entity"
)

// BuildVendorConfigSchema returns the JSON-Schema (draft 2020-12 subset)
// for vendor configuration files as a generic map.
func BuildVendorConfigSchema() map[string]any {
	fieldNames := make([]any, 0, len(entity.KnownFields))
	for _, f := range entity.KnownFields {
		fieldNames = append(fieldNames, string(f))
	}

	grammarProps := map[string]any{
		"name":     map[string]any{"type": "string", "minLength": 1},
		"pattern":  map[string]any{"type": "string", "minLength": 1},
		"category": map[string]any{"type": "string"},
		"fields": map[string]any{
			"type":          "object",
			"minProperties": 1,
			"propertyNames": map[string]any{"enum": fieldNames},
			"additionalProperties": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items":    map[string]any{"type": "integer", "minimum": 1},
			},
		},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"vendor":         map[string]any{"type": "string", "minLength": 1},
			"currency_codes": map[string]any{"type": "array", "items": map[string]any{"type": "string", "minLength": 3, "maxLength": 3}},
			"header_marker":  map[string]any{"type": "string"},
			"record_start":   map[string]any{"type": "string", "minLength": 1},
			"noise_patterns": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"line_rounding":  map[string]any{"type": "boolean"},
			"tax_rate":       map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
			"tolerance":      map[string]any{"type": "number", "minimum": 0.0},
			"grammars": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties":           grammarProps,
					"required":             []string{"name", "pattern", "fields"},
				},
			},
		},
		"required": []string{"vendor", "record_start", "grammars"},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
