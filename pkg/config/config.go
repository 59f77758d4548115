package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/nikogura/resume-studio/pkg/llm"
	"github.com/nikogura/resume-studio/pkg/style"
	"github.com/pkg/errors"
)

// Session backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

const (
	defaultServerAddr = ":8080"
	defaultSessionTTL = "24h"
	defaultOutputDir  = "./applications"
)

// Config represents the application configuration.
type Config struct {
	Provider        string        `json:"provider"`
	AnthropicAPIKey string        `json:"anthropic_api_key,omitempty"`
	GeminiAPIKey    string        `json:"gemini_api_key,omitempty"`
	Models          ModelsConfig  `json:"models,omitempty"`
	Server          ServerConfig  `json:"server"`
	Session         SessionConfig `json:"session"`
	Defaults        DefaultConfig `json:"defaults"`
}

// ModelsConfig holds the model used for each provider.
type ModelsConfig struct {
	Anthropic string `json:"anthropic,omitempty"`
	Gemini    string `json:"gemini,omitempty"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `json:"addr"`
}

// SessionConfig selects where server sessions live.
type SessionConfig struct {
	Backend       string `json:"backend"`
	RedisAddr     string `json:"redis_addr,omitempty"`
	RedisPassword string `json:"redis_password,omitempty"`
	RedisDB       int    `json:"redis_db,omitempty"`
	TTL           string `json:"ttl"`
}

// DefaultConfig holds default values for commands.
type DefaultConfig struct {
	OutputDir string `json:"output_dir"`
	Template  string `json:"template"`
}

// DefaultPath returns ~/.resume-studio/config.json.
func DefaultPath() (path string, err error) {
	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return path, err
	}
	path = filepath.Join(homeDir, ".resume-studio", "config.json")
	return path, err
}

// LoadEnvFile loads KEY=VALUE pairs from a .env file into the process environment
// without overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) (err error) {
	if path == "" {
		path = ".env"
	}

	_, err = os.Stat(path)
	if os.IsNotExist(err) {
		err = nil
		return err
	}

	err = godotenv.Load(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to load env file: %s", path)
		return err
	}
	return err
}

// GetModel returns the model for the configured provider, or the provider default.
func (c *Config) GetModel() (model string) {
	switch llm.Provider(c.Provider) {
	case llm.ProviderGemini:
		model = c.Models.Gemini
		if model == "" {
			model = llm.DefaultGeminiModel
		}
	default:
		model = c.Models.Anthropic
		if model == "" {
			model = llm.DefaultAnthropicModel
		}
	}
	return model
}

// GetAPIKey returns the key for the configured provider.
func (c *Config) GetAPIKey() (key string) {
	if llm.Provider(c.Provider) == llm.ProviderGemini {
		key = c.GeminiAPIKey
		return key
	}
	key = c.AnthropicAPIKey
	return key
}

// LLMConfig returns the completion backend settings.
func (c *Config) LLMConfig() (cfg llm.Config) {
	cfg = llm.Config{
		Provider: llm.Provider(c.Provider),
		APIKey:   c.GetAPIKey(),
		Model:    c.GetModel(),
	}
	return cfg
}

// SessionTTL returns the parsed session lifetime.
func (c *Config) SessionTTL() (ttl time.Duration) {
	ttl, err := time.ParseDuration(c.Session.TTL)
	if err != nil || ttl <= 0 {
		ttl, _ = time.ParseDuration(defaultSessionTTL)
	}
	return ttl
}

// Load reads configuration from file with environment variable overrides. When the
// file does not exist, the environment alone is used if it names an API key.
func Load(configPath string) (cfg Config, err error) {
	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return cfg, err
		}
	}

	var data []byte
	data, err = os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		if os.Getenv("ANTHROPIC_API_KEY") == "" && os.Getenv("GEMINI_API_KEY") == "" {
			err = errors.Errorf("config file not found: %s (run 'resume-studio init' to create)", path)
			return cfg, err
		}
		err = nil
	case err != nil:
		err = errors.Wrapf(err, "failed to read config file: %s", path)
		return cfg, err
	default:
		err = json.Unmarshal(data, &cfg)
		if err != nil {
			err = errors.Wrapf(err, "failed to parse config file: %s", path)
			return cfg, err
		}
	}

	cfg.applyEnv()

	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "config validation failed")
		return cfg, err
	}

	return cfg, err
}

// applyEnv overrides file values with environment variables.
func (c *Config) applyEnv() {
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		c.AnthropicAPIKey = apiKey
	}

	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		c.GeminiAPIKey = apiKey
	}

	if provider := os.Getenv("RESUME_STUDIO_PROVIDER"); provider != "" {
		c.Provider = provider
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		c.Session.Backend = BackendRedis
		c.Session.RedisAddr = addr
	}

	// Only one key in the environment picks its provider when none is set.
	if c.Provider == "" && c.AnthropicAPIKey == "" && c.GeminiAPIKey != "" {
		c.Provider = string(llm.ProviderGemini)
	}
}

// Validate checks that all required configuration is present and fills defaults.
func (c *Config) Validate() (err error) {
	if c.Provider == "" {
		c.Provider = string(llm.ProviderAnthropic)
	}

	switch llm.Provider(c.Provider) {
	case llm.ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			err = errors.New("anthropic_api_key is required (set in config or ANTHROPIC_API_KEY env var)")
			return err
		}
	case llm.ProviderGemini:
		if c.GeminiAPIKey == "" {
			err = errors.New("gemini_api_key is required (set in config or GEMINI_API_KEY env var)")
			return err
		}
	default:
		err = errors.Errorf("unknown provider %q (expected %q or %q)", c.Provider, llm.ProviderAnthropic, llm.ProviderGemini)
		return err
	}

	if c.Session.Backend == "" {
		c.Session.Backend = BackendMemory
	}

	switch c.Session.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Session.RedisAddr == "" {
			err = errors.New("session.redis_addr is required for the redis backend (set in config or REDIS_ADDR env var)")
			return err
		}
	default:
		err = errors.Errorf("unknown session backend %q (expected %q or %q)", c.Session.Backend, BackendMemory, BackendRedis)
		return err
	}

	if c.Session.TTL == "" {
		c.Session.TTL = defaultSessionTTL
	}

	var ttl time.Duration
	ttl, err = time.ParseDuration(c.Session.TTL)
	if err != nil {
		err = errors.Wrapf(err, "invalid session.ttl %q", c.Session.TTL)
		return err
	}
	if ttl <= 0 {
		err = errors.Errorf("session.ttl must be positive, got %s", c.Session.TTL)
		return err
	}

	if c.Server.Addr == "" {
		c.Server.Addr = defaultServerAddr
	}

	if c.Defaults.OutputDir == "" {
		c.Defaults.OutputDir = defaultOutputDir
	}

	c.Defaults.Template = string(style.ParseTemplate(c.Defaults.Template))

	return err
}

// InitConfig creates a default configuration file.
func InitConfig(configPath string) (err error) {
	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create config directory: %s", dir)
		return err
	}

	_, err = os.Stat(path)
	if err == nil {
		err = errors.Errorf("config file already exists: %s", path)
		return err
	}

	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return err
	}

	defaultConfig := Config{
		Provider:        string(llm.ProviderAnthropic),
		AnthropicAPIKey: "sk-ant-api03-...",
		Models: ModelsConfig{
			Anthropic: llm.DefaultAnthropicModel,
			Gemini:    llm.DefaultGeminiModel,
		},
		Server: ServerConfig{
			Addr: defaultServerAddr,
		},
		Session: SessionConfig{
			Backend: BackendMemory,
			TTL:     defaultSessionTTL,
		},
		Defaults: DefaultConfig{
			OutputDir: filepath.Join(homeDir, "Documents", "Applications"),
			Template:  string(style.Professional),
		},
	}

	var data []byte
	data, err = json.MarshalIndent(defaultConfig, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal default config")
		return err
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write config file: %s", path)
		return err
	}

	return err
}
