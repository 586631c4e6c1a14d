// internal/common/config/loader.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Defaults mirror the values the model service and UI were tuned against.
var (
	DefaultPreferredModels = []string{"llama3.2", "llama3.1", "llama3", "llama2:7b", "mistral", "codellama"}
	DefaultBannedPhrases   = []string{"as a quantum ai assistant", "as an ai", "*smiles*", "*chuckles*"}
)

const (
	DefaultOllamaURL     = "http://localhost:11434"
	DefaultFallbackModel = "llama2:7b"
	DefaultMaxCandidates = 2
)

func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return finalize(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finalize(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)
	return v
}

// AutomaticEnv only sees keys viper already knows about; bind the ones that
// may be absent from every config file.
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"app.environment",
		"server.address",
		"backend.ollama_url",
		"backend.bridge_url",
		"backend.max_candidates",
		"backend.max_concurrent",
		"cache.redis.enabled",
		"cache.redis.address",
		"cache.redis.password",
		"recommendation.registry_path",
		"recommendation.watch_registry",
		"logging.level",
		"logging.format",
	} {
		_ = v.BindEnv(key)
	}
}

func finalize(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			if expanded := os.ExpandEnv(strVal); expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "luuno-orchestrator"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	// Server defaults
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 120000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30000
	}

	// Backend defaults
	if cfg.Backend.OllamaURL == "" {
		cfg.Backend.OllamaURL = DefaultOllamaURL
	}
	cfg.Backend.OllamaURL = strings.TrimRight(cfg.Backend.OllamaURL, "/")
	cfg.Backend.BridgeURL = strings.TrimRight(cfg.Backend.BridgeURL, "/")
	if cfg.Backend.Timeout == 0 {
		cfg.Backend.Timeout = 60000
	}
	if cfg.Backend.CheckTimeout == 0 {
		cfg.Backend.CheckTimeout = 5000
	}
	if cfg.Backend.MaxCandidates == 0 {
		cfg.Backend.MaxCandidates = DefaultMaxCandidates
	}
	if cfg.Backend.MaxConcurrent == 0 {
		cfg.Backend.MaxConcurrent = 4
	}
	if cfg.Backend.AttemptBackoff == 0 {
		cfg.Backend.AttemptBackoff = 100
	}
	if len(cfg.Backend.PreferredModels) == 0 {
		cfg.Backend.PreferredModels = append([]string(nil), DefaultPreferredModels...)
	}
	if cfg.Backend.FallbackModel == "" {
		cfg.Backend.FallbackModel = DefaultFallbackModel
	}
	if len(cfg.Backend.BannedPhrases) == 0 {
		cfg.Backend.BannedPhrases = append([]string(nil), DefaultBannedPhrases...)
	}
	if cfg.Backend.IdentityMarker == "" {
		cfg.Backend.IdentityMarker = "LUUNO"
	}
	if cfg.Backend.MinContextLength == 0 {
		cfg.Backend.MinContextLength = 100
	}
	if cfg.Backend.Options.Temperature == 0 {
		cfg.Backend.Options.Temperature = 0.8
	}
	if cfg.Backend.Options.TopP == 0 {
		cfg.Backend.Options.TopP = 0.9
	}
	if cfg.Backend.Options.TopK == 0 {
		cfg.Backend.Options.TopK = 40
	}
	if cfg.Backend.Options.NumPredict == 0 {
		cfg.Backend.Options.NumPredict = 1000
	}

	// Status defaults
	if cfg.Status.RefreshInterval == 0 {
		cfg.Status.RefreshInterval = 30000
	}
	if cfg.Status.Timeout == 0 {
		cfg.Status.Timeout = cfg.Backend.CheckTimeout
	}

	// Cache defaults
	if cfg.Cache.Redis.KeyPrefix == "" {
		cfg.Cache.Redis.KeyPrefix = "luuno:status"
	}
	if cfg.Cache.Redis.TTL == 0 {
		cfg.Cache.Redis.TTL = 15000
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Metrics.ServiceName == "" {
		cfg.Metrics.ServiceName = cfg.App.Name
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if _, err := url.ParseRequestURI(cfg.Backend.OllamaURL); err != nil {
		return fmt.Errorf("backend.ollama_url is invalid: %w", err)
	}
	if cfg.Backend.BridgeURL != "" {
		if _, err := url.ParseRequestURI(cfg.Backend.BridgeURL); err != nil {
			return fmt.Errorf("backend.bridge_url is invalid: %w", err)
		}
	}
	if cfg.Backend.MaxCandidates < 1 {
		return fmt.Errorf("backend.max_candidates must be at least 1")
	}
	if cfg.Backend.MaxConcurrent < 1 {
		return fmt.Errorf("backend.max_concurrent must be at least 1")
	}
	if cfg.Backend.Timeout < 0 || cfg.Backend.CheckTimeout < 0 || cfg.Backend.AttemptBackoff < 0 {
		return fmt.Errorf("backend timeouts must not be negative")
	}
	if cfg.Status.RefreshInterval < 1000 {
		return fmt.Errorf("status.refresh_interval must be at least 1000ms")
	}
	if cfg.Cache.Redis.Enabled && cfg.Cache.Redis.Address == "" {
		return fmt.Errorf("cache.redis.address is required when the cache is enabled")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
