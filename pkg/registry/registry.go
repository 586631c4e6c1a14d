// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// LoadRegistry reads and validates a template registry file.
func LoadRegistry(path string) (*TemplateRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRegistry(data)
}

// ParseRegistry validates raw JSON against the registry schema and decodes it.
func ParseRegistry(data []byte) (*TemplateRegistry, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}

	var reg TemplateRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	return &reg, nil
}

// Validate checks raw JSON against the registry schema.
func Validate(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(registrySchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("registry validation failed: %s", strings.Join(errs, "; "))
	}

	return nil
}

// SaveRegistry validates reg and writes it as indented JSON, creating the
// parent directory when needed.
func SaveRegistry(reg *TemplateRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := Validate(data); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

// Check reports semantic problems the schema cannot express: an empty
// registry, and business types or aliases claimed more than once.
func (r *TemplateRegistry) Check() error {
	if len(r.Templates) == 0 {
		return fmt.Errorf("registry contains no templates")
	}

	owners := make(map[string]string)
	for _, tmpl := range r.Templates {
		if owner, ok := owners[tmpl.BusinessType]; ok {
			return fmt.Errorf("duplicate business type %s (already used by %s)", tmpl.BusinessType, owner)
		}
		owners[tmpl.BusinessType] = tmpl.BusinessType
		for _, alias := range tmpl.Aliases {
			if owner, ok := owners[alias]; ok {
				return fmt.Errorf("alias %s of %s already used by %s", alias, tmpl.BusinessType, owner)
			}
			owners[alias] = tmpl.BusinessType
		}
	}
	return nil
}

// Find returns the template registered under businessType, or nil.
func (r *TemplateRegistry) Find(businessType string) *BusinessTemplate {
	for i := range r.Templates {
		if r.Templates[i].BusinessType == businessType {
			return &r.Templates[i]
		}
	}
	return nil
}
