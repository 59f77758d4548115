package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nikogura/resume-studio/pkg/llm"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"ANTHROPIC_API_KEY", "GEMINI_API_KEY", "RESUME_STUDIO_PROVIDER", "REDIS_ADDR"} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, cfg Config) (configPath string) {
	t.Helper()

	configPath = filepath.Join(t.TempDir(), "config.json")
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal test config: %v", err)
	}

	err = os.WriteFile(configPath, data, 0600)
	if err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad(t *testing.T) {
	clearEnv(t)

	configPath := writeConfig(t, Config{
		AnthropicAPIKey: "test-key",
		Defaults: DefaultConfig{
			OutputDir: "./test-output",
			Template:  "Modern",
		},
	})

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.AnthropicAPIKey != "test-key" {
		t.Errorf("Expected API key test-key, got %s", cfg.AnthropicAPIKey)
	}

	if cfg.Provider != "anthropic" {
		t.Errorf("Expected default provider anthropic, got %s", cfg.Provider)
	}

	if cfg.Defaults.Template != "Modern" {
		t.Errorf("Expected template Modern, got %s", cfg.Defaults.Template)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Expected default addr :8080, got %s", cfg.Server.Addr)
	}

	if cfg.Session.Backend != BackendMemory {
		t.Errorf("Expected memory backend, got %s", cfg.Session.Backend)
	}

	if cfg.SessionTTL() != 24*time.Hour {
		t.Errorf("Expected 24h TTL, got %s", cfg.SessionTTL())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "env-gemini")
	t.Setenv("RESUME_STUDIO_PROVIDER", "gemini")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	configPath := writeConfig(t, Config{AnthropicAPIKey: "file-key"})

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Provider != "gemini" {
		t.Errorf("Expected provider gemini, got %s", cfg.Provider)
	}

	llmCfg := cfg.LLMConfig()
	if llmCfg.APIKey != "env-gemini" {
		t.Errorf("Expected gemini key from env, got %s", llmCfg.APIKey)
	}
	if llmCfg.Model != llm.DefaultGeminiModel {
		t.Errorf("Expected model %s, got %s", llm.DefaultGeminiModel, llmCfg.Model)
	}

	if cfg.Session.Backend != BackendRedis || cfg.Session.RedisAddr != "localhost:6379" {
		t.Errorf("Expected redis backend at localhost:6379, got %s at %s", cfg.Session.Backend, cfg.Session.RedisAddr)
	}
}

func TestLoadNonexistent(t *testing.T) {
	clearEnv(t)

	_, err := Load("/nonexistent/path/config.json")
	if err == nil {
		t.Error("Expected error loading nonexistent config, got nil")
	}
}

func TestLoadEnvOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "env-gemini")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Expected env-only config to load, got %v", err)
	}

	if cfg.Provider != "gemini" {
		t.Errorf("Expected provider inferred as gemini, got %s", cfg.Provider)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	clearEnv(t)

	configPath := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(configPath, []byte("{not json"), 0600)
	if err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err = Load(configPath)
	if err == nil {
		t.Error("Expected parse error, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		config    Config
		wantError bool
	}{
		{
			name:      "valid anthropic config",
			config:    Config{AnthropicAPIKey: "test-key"},
			wantError: false,
		},
		{
			name:      "valid gemini config",
			config:    Config{Provider: "gemini", GeminiAPIKey: "test-key"},
			wantError: false,
		},
		{
			name:      "missing API key",
			config:    Config{},
			wantError: true,
		},
		{
			name:      "gemini without gemini key",
			config:    Config{Provider: "gemini", AnthropicAPIKey: "test-key"},
			wantError: true,
		},
		{
			name:      "unknown provider",
			config:    Config{Provider: "openai", AnthropicAPIKey: "test-key"},
			wantError: true,
		},
		{
			name: "redis without address",
			config: Config{
				AnthropicAPIKey: "test-key",
				Session:         SessionConfig{Backend: BackendRedis},
			},
			wantError: true,
		},
		{
			name: "unknown backend",
			config: Config{
				AnthropicAPIKey: "test-key",
				Session:         SessionConfig{Backend: "etcd"},
			},
			wantError: true,
		},
		{
			name: "bad ttl",
			config: Config{
				AnthropicAPIKey: "test-key",
				Session:         SessionConfig{TTL: "forever"},
			},
			wantError: true,
		},
		{
			name: "negative ttl",
			config: Config{
				AnthropicAPIKey: "test-key",
				Session:         SessionConfig{TTL: "-1h"},
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantError && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestValidateFillsDefaults(t *testing.T) {
	cfg := Config{AnthropicAPIKey: "test-key", Defaults: DefaultConfig{Template: "Baroque"}}

	err := cfg.Validate()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Defaults.OutputDir != "./applications" {
		t.Errorf("Expected default output dir, got %s", cfg.Defaults.OutputDir)
	}

	if cfg.Defaults.Template != "Professional" {
		t.Errorf("Expected unknown template to fall back to Professional, got %s", cfg.Defaults.Template)
	}

	if cfg.GetModel() != llm.DefaultAnthropicModel {
		t.Errorf("Expected model %s, got %s", llm.DefaultAnthropicModel, cfg.GetModel())
	}
}

func TestValidateTemplateIsCaseSensitive(t *testing.T) {
	cfg := Config{AnthropicAPIKey: "test-key", Defaults: DefaultConfig{Template: "modern"}}

	err := cfg.Validate()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Defaults.Template != "Professional" {
		t.Errorf("Expected lower-case template to fall back to Professional, got %s", cfg.Defaults.Template)
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)

	envPath := filepath.Join(t.TempDir(), ".env")
	err := os.WriteFile(envPath, []byte("ANTHROPIC_API_KEY=from-dotenv\n"), 0600)
	if err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}

	// godotenv never overrides variables that are present, even when empty.
	os.Unsetenv("ANTHROPIC_API_KEY")

	err = LoadEnvFile(envPath)
	if err != nil {
		t.Fatalf("Failed to load env file: %v", err)
	}

	if got := os.Getenv("ANTHROPIC_API_KEY"); got != "from-dotenv" {
		t.Errorf("Expected key from .env, got %q", got)
	}

	err = LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Errorf("Expected missing env file to be ignored, got %v", err)
	}
}

func TestInitConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	err := InitConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to init config: %v", err)
	}

	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		t.Error("Config file was not created")
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	var cfg Config
	err = json.Unmarshal(data, &cfg)
	if err != nil {
		t.Fatalf("Failed to unmarshal config: %v", err)
	}

	if cfg.Defaults.OutputDir == "" {
		t.Error("Default output dir was not set")
	}

	if cfg.Provider != "anthropic" {
		t.Errorf("Expected provider anthropic, got %s", cfg.Provider)
	}

	if cfg.Session.TTL != "24h" {
		t.Errorf("Expected session ttl 24h, got %s", cfg.Session.TTL)
	}
}

func TestInitConfigAlreadyExists(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	err := os.WriteFile(configPath, []byte("{}"), 0600)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	err = InitConfig(configPath)
	if err == nil {
		t.Error("Expected error when config already exists, got nil")
	}
}
