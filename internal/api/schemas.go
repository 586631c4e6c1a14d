package api

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const queryRequestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["query"],
  "properties": {
    "query": {"type": "string", "maxLength": 4000},
    "history": {
      "type": "array",
      "maxItems": 50,
      "items": {
        "type": "object",
        "required": ["role", "content"],
        "properties": {
          "role": {"enum": ["user", "assistant"]},
          "content": {"type": "string"}
        }
      }
    },
    "personality": {"enum": ["balanced", "strict_business", "quantum_expert"]},
    "selectedSystem": {"enum": ["ollama", "agi", "business"]},
    "model": {"type": "string", "maxLength": 200}
  }
}`

const analyzeRequestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["businessType"],
  "properties": {
    "businessType": {"type": "string", "maxLength": 200},
    "data": {"type": "object"}
  }
}`

// requestSchemas holds the compiled request schemas.
type requestSchemas struct {
	query   *gojsonschema.Schema
	analyze *gojsonschema.Schema
}

func compileSchemas() (*requestSchemas, error) {
	query, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(queryRequestSchema))
	if err != nil {
		return nil, fmt.Errorf("compile query schema: %w", err)
	}
	analyze, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(analyzeRequestSchema))
	if err != nil {
		return nil, fmt.Errorf("compile analyze schema: %w", err)
	}
	return &requestSchemas{query: query, analyze: analyze}, nil
}

// validate returns a readable list of violations, or "" when body conforms.
func validate(schema *gojsonschema.Schema, body []byte) (string, error) {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return "", err
	}
	if result.Valid() {
		return "", nil
	}

	errs := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		errs[i] = desc.String()
	}
	return strings.Join(errs, "; "), nil
}
