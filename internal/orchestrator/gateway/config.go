package gateway

import (
	"time"

	"luuno-orchestrator/internal/common/config"
)

type Config struct {
	BaseURL   string
	BridgeURL string

	// Timeout bounds a single model attempt. Zero defers to the caller's context.
	Timeout      time.Duration
	CheckTimeout time.Duration

	MaxCandidates  int
	MaxConcurrent  int64
	AttemptBackoff time.Duration

	PreferredModels []string
	FallbackModel   string
	BannedPhrases   []string

	IdentityMarker   string
	MinContextLength int

	Options GenerationOptions
}

// ConfigFromBackend maps the application backend section onto gateway settings.
func ConfigFromBackend(b config.BackendConfig) *Config {
	return &Config{
		BaseURL:          b.OllamaURL,
		BridgeURL:        b.BridgeURL,
		Timeout:          config.GetDuration(b.Timeout),
		CheckTimeout:     config.GetDuration(b.CheckTimeout),
		MaxCandidates:    b.MaxCandidates,
		MaxConcurrent:    int64(b.MaxConcurrent),
		AttemptBackoff:   config.GetDuration(b.AttemptBackoff),
		PreferredModels:  b.PreferredModels,
		FallbackModel:    b.FallbackModel,
		BannedPhrases:    b.BannedPhrases,
		IdentityMarker:   b.IdentityMarker,
		MinContextLength: b.MinContextLength,
		Options: GenerationOptions{
			Temperature: b.Options.Temperature,
			TopP:        b.Options.TopP,
			TopK:        b.Options.TopK,
			NumPredict:  b.Options.NumPredict,
		},
	}
}

func (c *Config) withDefaults() *Config {
	out := *c
	if out.BaseURL == "" {
		out.BaseURL = config.DefaultOllamaURL
	}
	if out.MaxCandidates < 1 {
		out.MaxCandidates = config.DefaultMaxCandidates
	}
	if out.MaxConcurrent < 1 {
		out.MaxConcurrent = 1
	}
	if out.FallbackModel == "" {
		out.FallbackModel = config.DefaultFallbackModel
	}
	if out.PreferredModels == nil {
		out.PreferredModels = config.DefaultPreferredModels
	}
	if out.BannedPhrases == nil {
		out.BannedPhrases = config.DefaultBannedPhrases
	}
	if out.IdentityMarker == "" {
		out.IdentityMarker = "LUUNO"
	}
	if out.MinContextLength == 0 {
		out.MinContextLength = 100
	}
	return &out
}
