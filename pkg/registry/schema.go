// pkg/registry/schema.go
package registry

// TemplateRegistry is the on-disk set of additional growth templates.
type TemplateRegistry struct {
	Version     string             `json:"version"`
	LastUpdated string             `json:"lastUpdated"`
	Templates   []BusinessTemplate `json:"templates"`
}

// BusinessTemplate holds seven actions in category order plus outcome projections.
type BusinessTemplate struct {
	BusinessType string      `json:"businessType"`
	Aliases      []string    `json:"aliases,omitempty"`
	Actions      []string    `json:"actions"`
	Projections  *Projection `json:"projections,omitempty"`
}

type Projection struct {
	RevenueIncrease string `json:"revenueIncrease"`
	TimeSavings     string `json:"timeSavings"`
	CustomerGrowth  string `json:"customerGrowth"`
}

// registrySchema is enforced before a registry file is accepted.
const registrySchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["templates"],
  "properties": {
    "version": {"type": "string"},
    "lastUpdated": {"type": "string"},
    "templates": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["businessType", "actions"],
        "properties": {
          "businessType": {"type": "string", "pattern": "^[a-z0-9_]+$"},
          "aliases": {
            "type": "array",
            "items": {"type": "string", "pattern": "^[a-z0-9_]+$"}
          },
          "actions": {
            "type": "array",
            "minItems": 7,
            "maxItems": 7,
            "items": {"type": "string", "minLength": 1}
          },
          "projections": {
            "type": "object",
            "required": ["revenueIncrease", "timeSavings", "customerGrowth"],
            "properties": {
              "revenueIncrease": {"type": "string", "minLength": 1},
              "timeSavings": {"type": "string", "minLength": 1},
              "customerGrowth": {"type": "string", "minLength": 1}
            }
          }
        }
      }
    }
  }
}`
