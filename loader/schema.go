package loader

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// schemaJSON is the embedded JSON Schema for binding spec files.
var schemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://opentk.dev/schemas/bind-spec/v1",
  "title": "Binding Specification",
  "description": "Native API surface (types, enums, delegates, functions) consumed by the binding generator.",
  "type": "object",
  "required": ["delegates", "functions"],
  "additionalProperties": false,
  "properties": {
    "types": {
      "type": "array",
      "items": { "$ref": "#/$defs/type_alias" }
    },
    "enums": {
      "type": "array",
      "items": { "$ref": "#/$defs/enum_definition" }
    },
    "delegates": {
      "type": "array",
      "items": { "$ref": "#/$defs/delegate_definition" },
      "minItems": 1
    },
    "functions": {
      "type": "array",
      "items": { "$ref": "#/$defs/function_definition" },
      "minItems": 1
    }
  },
  "$defs": {
    "identifier": { "type": "string", "pattern": "^[A-Za-z_][A-Za-z0-9_]*$" },
    "type_name": { "type": "string", "pattern": "^[A-Za-z_][A-Za-z0-9_]*$" },
    "type_alias": {
      "type": "object",
      "required": ["name"],
      "additionalProperties": false,
      "properties": {
        "name": { "$ref": "#/$defs/identifier" },
        "csharp": { "type": "string", "pattern": "^[A-Za-z_][A-Za-z0-9_.]*$" },
        "c": { "type": "string", "minLength": 1 }
      }
    },
    "enum_definition": {
      "type": "object",
      "required": ["name", "constants"],
      "additionalProperties": false,
      "properties": {
        "name": { "$ref": "#/$defs/identifier" },
        "category": { "type": "string", "minLength": 1 },
        "constants": {
          "type": "array",
          "items": { "$ref": "#/$defs/constant_definition" }
        }
      }
    },
    "constant_definition": {
      "type": "object",
      "required": ["name", "value"],
      "additionalProperties": false,
      "properties": {
        "name": { "$ref": "#/$defs/identifier" },
        "value": {
          "type": ["string", "integer"],
          "pattern": "^-?(0[xX][0-9A-Fa-f]+|0|[1-9][0-9]*)$"
        },
        "unchecked": { "type": "boolean" }
      }
    },
    "parameter_definition": {
      "type": "object",
      "required": ["name", "type"],
      "additionalProperties": false,
      "properties": {
        "name": { "$ref": "#/$defs/identifier" },
        "type": { "$ref": "#/$defs/type_name" },
        "direction": { "type": "string", "enum": ["in", "out", "inout"] },
        "arity": { "type": "string", "enum": ["value", "pointer", "array", "reference"] },
        "pointers": { "type": "integer", "minimum": 1, "maximum": 3 },
        "const": { "type": "boolean" }
      }
    },
    "delegate_definition": {
      "type": "object",
      "required": ["name"],
      "additionalProperties": false,
      "properties": {
        "name": { "$ref": "#/$defs/identifier" },
        "returns": { "$ref": "#/$defs/type_name" },
        "parameters": {
          "type": "array",
          "items": { "$ref": "#/$defs/parameter_definition" }
        }
      }
    },
    "function_definition": {
      "type": "object",
      "required": ["name", "delegate"],
      "additionalProperties": false,
      "properties": {
        "name": { "$ref": "#/$defs/identifier" },
        "trimmed_name": { "$ref": "#/$defs/identifier" },
        "delegate": { "$ref": "#/$defs/identifier" },
        "category": { "type": "string", "minLength": 1 },
        "version": { "type": "string", "pattern": "^[0-9]+(\\.[0-9]+)*$" },
        "deprecated": { "type": "boolean" },
        "deprecated_version": { "type": "string", "pattern": "^[0-9]+(\\.[0-9]+)*$" },
        "returns": { "$ref": "#/$defs/type_name" },
        "parameters": {
          "type": "array",
          "items": { "$ref": "#/$defs/parameter_definition" }
        }
      }
    }
  }
}`

var compiledSchema *jsonschema.Schema

func init() {
	var schemaDoc interface{}
	if err := json.Unmarshal([]byte(schemaJSON), &schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to decode schema JSON: %v", err))
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to add schema resource: %v", err))
	}
	var err error
	compiledSchema, err = c.Compile("schema.json")
	if err != nil {
		panic(fmt.Sprintf("failed to compile schema: %v", err))
	}
}

// SchemaJSON returns the embedded JSON Schema text.
func SchemaJSON() string {
	return schemaJSON
}

// ValidateSchema validates raw YAML bytes against the spec JSON Schema.
func ValidateSchema(yamlData []byte) error {
	var raw interface{}
	if err := yaml.Unmarshal(yamlData, &raw); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}

	if err := compiledSchema.Validate(convertYAMLToJSON(raw)); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// convertYAMLToJSON converts YAML-parsed values to the types the schema
// validator expects (float64 numbers, string-keyed maps).
func convertYAMLToJSON(v interface{}) interface{} {
	switch v := v.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{}, len(v))
		for k, val := range v {
			result[k] = convertYAMLToJSON(val)
		}
		return result
	case map[interface{}]interface{}:
		result := make(map[string]interface{}, len(v))
		for k, val := range v {
			result[fmt.Sprint(k)] = convertYAMLToJSON(val)
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, val := range v {
			result[i] = convertYAMLToJSON(val)
		}
		return result
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	default:
		return v
	}
}

// ValidateSchemaJSON validates a JSON document against the schema.
func ValidateSchemaJSON(jsonData []byte) error {
	var raw interface{}
	if err := json.Unmarshal(jsonData, &raw); err != nil {
		return fmt.Errorf("parsing JSON: %w", err)
	}
	if err := compiledSchema.Validate(raw); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}
