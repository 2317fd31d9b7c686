// internal/appconfig/schema.go
package appconfig

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// configSchema is the JSON Schema the configuration document must satisfy
// before it is decoded. Structural mistakes in the config are configuration
// errors, not aggregation errors, so they are caught up front.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "workers": {"type": "integer"},
    "verifySchema": {"type": "boolean"},
    "stddev": {"type": "boolean"},
    "failFast": {"type": "boolean"},
    "debug": {"type": "boolean"},
    "logFile": {"type": "string"},
    "layout": {
      "type": "object",
      "properties": {
        "metricsDir": {"type": "string", "minLength": 1},
        "averagedDir": {"type": "string", "minLength": 1},
        "collatedDir": {"type": "string", "minLength": 1},
        "framesDir": {"type": "string", "minLength": 1},
        "videoDir": {"type": "string", "minLength": 1}
      },
      "additionalProperties": false
    },
    "tables": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "inverted": {"type": "boolean"},
          "performanceColumn": {"type": "string"}
        },
        "required": ["name"],
        "additionalProperties": false
      }
    },
    "collation": {
      "type": "object",
      "properties": {
        "mode": {"type": "string", "enum": ["univariate", "bivariate"]},
        "delimiter": {"type": "string", "minLength": 1},
        "rowLabels": {"type": "array", "items": {"type": "string", "minLength": 1}},
        "columnLabels": {"type": "array", "items": {"type": "string", "minLength": 1}},
        "targets": {
          "type": "array",
          "items": {
            "type": "object",
            "properties": {
              "table": {"type": "string", "minLength": 1},
              "column": {"type": "string", "minLength": 1},
              "dest": {"type": "string", "minLength": 1}
            },
            "required": ["table", "column", "dest"],
            "additionalProperties": false
          }
        }
      },
      "if": {"properties": {"mode": {"const": "bivariate"}}, "required": ["mode"]},
      "then": {"required": ["rowLabels", "columnLabels"]},
      "additionalProperties": false
    }
  },
  "additionalProperties": false
}`

// Validate checks a raw configuration document against the embedded schema.
func Validate(raw []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(configSchema)
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
}
