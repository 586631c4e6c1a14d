// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App            AppConfig            `mapstructure:"app"`
	Server         ServerConfig         `mapstructure:"server"`
	Backend        BackendConfig        `mapstructure:"backend"`
	Status         StatusConfig         `mapstructure:"status"`
	Cache          CacheConfig          `mapstructure:"cache"`
	Recommendation RecommendationConfig `mapstructure:"recommendation"`
	Logging        LoggingConfig        `mapstructure:"logging"`
	Metrics        MetricsConfig        `mapstructure:"metrics"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// BackendConfig holds settings for the local model service.
type BackendConfig struct {
	OllamaURL       string   `mapstructure:"ollama_url"`
	BridgeURL       string   `mapstructure:"bridge_url"`
	Timeout         int      `mapstructure:"timeout"`       // milliseconds, per attempt
	CheckTimeout    int      `mapstructure:"check_timeout"` // milliseconds
	MaxCandidates   int      `mapstructure:"max_candidates"`
	MaxConcurrent   int      `mapstructure:"max_concurrent"`
	AttemptBackoff  int      `mapstructure:"attempt_backoff"` // milliseconds, doubled per attempt
	PreferredModels []string `mapstructure:"preferred_models"`
	FallbackModel   string   `mapstructure:"fallback_model"`
	BannedPhrases   []string `mapstructure:"banned_phrases"`

	// Rich context prompts are used only when they carry the marker and are long enough.
	IdentityMarker   string `mapstructure:"identity_marker"`
	MinContextLength int    `mapstructure:"min_context_length"`

	Options GenerationOptions `mapstructure:"options"`
}

// GenerationOptions is passed through to the model service unchanged.
type GenerationOptions struct {
	Temperature float64 `mapstructure:"temperature"`
	TopP        float64 `mapstructure:"top_p"`
	TopK        int     `mapstructure:"top_k"`
	NumPredict  int     `mapstructure:"num_predict"`
}

type StatusConfig struct {
	RefreshInterval int `mapstructure:"refresh_interval"` // milliseconds
	Timeout         int `mapstructure:"timeout"`          // milliseconds
}

type CacheConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
	TTL       int    `mapstructure:"ttl"` // milliseconds
}

// RecommendationConfig holds settings for the growth report engine.
type RecommendationConfig struct {
	RegistryPath  string `mapstructure:"registry_path"`
	WatchRegistry bool   `mapstructure:"watch_registry"` // reload registry_path on change
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type MetricsConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}

// RefreshIntervalDuration returns the status refresh period.
func (s StatusConfig) RefreshIntervalDuration() time.Duration {
	return GetDuration(s.RefreshInterval)
}
