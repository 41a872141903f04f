package config

import (
	"testing"
	"time"
)

func baseConfig() Config {
	return Config{
		AI: AIConfig{
			Provider:    "gemini",
			Model:       "gemini-2.0-flash",
			Timeout:     60 * time.Second,
			APIKey:      "global-key",
			MaxRetries:  3,
			Temperature: 0.7,
		},
		Server: ServerConfig{Port: "8080", TLS: TLSConfig{Mode: "disabled"}},
		App: AppConfig{
			DefaultFormat:           "json",
			SupportedFormats:        []string{"json", "text", "markdown"},
			MinJobDescriptionLength: 50,
			MaxJobDescriptionLength: 50000,
			DefaultMatchLimit:       10,
		},
		Cache:  CacheConfig{Enabled: true, TTL: 48 * time.Hour},
		GitHub: GitHubConfig{BaseURL: "https://api.github.com"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid config", func(c *Config) {}, false},
		{"zero AI timeout", func(c *Config) { c.AI.Timeout = 0 }, true},
		{"missing server port", func(c *Config) { c.Server.Port = "" }, true},
		{"unsupported default format", func(c *Config) { c.App.DefaultFormat = "xml" }, true},
		{"zero min job length", func(c *Config) { c.App.MinJobDescriptionLength = 0 }, true},
		{"max below min job length", func(c *Config) { c.App.MaxJobDescriptionLength = 10 }, true},
		{"zero match limit", func(c *Config) { c.App.DefaultMatchLimit = 0 }, true},
		{"zero cache TTL while enabled", func(c *Config) { c.Cache.TTL = 0 }, true},
		{"zero cache TTL while disabled", func(c *Config) { c.Cache.Enabled = false; c.Cache.TTL = 0 }, false},
		{"missing github base URL", func(c *Config) { c.GitHub.BaseURL = "" }, true},
		{"auto-reload without taxonomy file", func(c *Config) { c.Taxonomy.AutoReload.Enabled = true }, true},
		{"auto-reload with taxonomy file", func(c *Config) {
			c.Taxonomy.File = "taxonomy.yaml"
			c.Taxonomy.AutoReload.Enabled = true
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Expected wantErr=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestGetResumeConfigFallbacks(t *testing.T) {
	cfg := baseConfig()

	op := cfg.GetResumeConfig()

	if op.Provider != "gemini" || op.Model != "gemini-2.0-flash" {
		t.Errorf("Expected global provider/model fallback, got %q / %q", op.Provider, op.Model)
	}
	if op.APIKey != "global-key" {
		t.Errorf("Expected global API key fallback, got %q", op.APIKey)
	}
	if op.Timeout == nil || *op.Timeout != 60*time.Second {
		t.Errorf("Expected global timeout fallback, got %v", op.Timeout)
	}
	if op.MaxRetries == nil || *op.MaxRetries != 3 {
		t.Errorf("Expected global retries fallback, got %v", op.MaxRetries)
	}
}

func TestGetInterviewConfigOverrides(t *testing.T) {
	cfg := baseConfig()
	opTimeout := 30 * time.Second
	cfg.AI.Interview = OperationAIConfig{
		Model:   "gemini-2.5-pro",
		APIKey:  "interview-key",
		Timeout: &opTimeout,
	}

	op := cfg.GetInterviewConfig()

	if op.Model != "gemini-2.5-pro" {
		t.Errorf("Expected operation model to win, got %q", op.Model)
	}
	if op.APIKey != "interview-key" {
		t.Errorf("Expected operation API key to win, got %q", op.APIKey)
	}
	if op.Timeout == nil || *op.Timeout != opTimeout {
		t.Errorf("Expected operation timeout to win, got %v", op.Timeout)
	}
	if op.Provider != "gemini" {
		t.Errorf("Expected provider fallback, got %q", op.Provider)
	}
}

func TestGetOperationConfigPrompts(t *testing.T) {
	cfg := baseConfig()
	cfg.AI.CustomPrompts.SystemPrompts.GenerateResume = "global system prompt"
	cfg.AI.Resume.CustomPrompts.UserPrompts.GenerateResume = "operation user prompt"

	op := cfg.GetResumeConfig()

	if op.CustomPrompts.SystemPrompts.GenerateResume != "global system prompt" {
		t.Errorf("Expected global system prompt fallback, got %q", op.CustomPrompts.SystemPrompts.GenerateResume)
	}
	if op.CustomPrompts.UserPrompts.GenerateResume != "operation user prompt" {
		t.Errorf("Expected operation user prompt preserved, got %q", op.CustomPrompts.UserPrompts.GenerateResume)
	}
}
