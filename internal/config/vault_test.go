package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"llmployable/internal/errors"
)

func testLogger() *errors.Logger {
	logger, _ := errors.New("error")
	return logger
}

func TestParseVersionValue(t *testing.T) {
	tests := []struct {
		name        string
		input       any
		expected    int64
		expectError bool
	}{
		{"int64 value", int64(42), 42, false},
		{"float64 value", float64(42.0), 42, false},
		{"string value", "42", 42, false},
		{"invalid string value", "not-a-number", 0, true},
		{"unsupported type", []string{"42"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseVersionValue(tt.input, "test/path")

			if tt.expectError {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if result != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestApplyGeminiKeyToConfig(t *testing.T) {
	config := &Config{}

	applyGeminiKeyToConfig(config, "test-gemini-key")

	if config.AI.APIKey != "test-gemini-key" {
		t.Errorf("Expected global API key to be set, got %q", config.AI.APIKey)
	}
	if config.AI.Resume.APIKey != "test-gemini-key" {
		t.Errorf("Expected resume API key to be set, got %q", config.AI.Resume.APIKey)
	}
	if config.AI.Interview.APIKey != "test-gemini-key" {
		t.Errorf("Expected interview API key to be set, got %q", config.AI.Interview.APIKey)
	}
}

func TestApplyGeminiKeyToConfigWithExistingKeys(t *testing.T) {
	config := &Config{
		AI: AIConfig{
			Resume: OperationAIConfig{APIKey: "existing-resume-key"},
		},
	}

	applyGeminiKeyToConfig(config, "test-gemini-key")

	if config.AI.Resume.APIKey != "existing-resume-key" {
		t.Errorf("Expected existing resume key to be preserved, got %q", config.AI.Resume.APIKey)
	}
	if config.AI.Interview.APIKey != "test-gemini-key" {
		t.Errorf("Expected interview key to inherit the Vault key, got %q", config.AI.Interview.APIKey)
	}
}

func TestResolveVaultToken(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(tokenFile, []byte("  file-token\n"), 0o600); err != nil {
		t.Fatalf("failed to write token file: %v", err)
	}

	tests := []struct {
		name        string
		config      VaultConfig
		expected    string
		expectError bool
	}{
		{"token from config", VaultConfig{Token: "direct-token"}, "direct-token", false},
		{"token from file", VaultConfig{TokenFile: tokenFile}, "file-token", false},
		{"config token wins over file", VaultConfig{Token: "direct-token", TokenFile: tokenFile}, "direct-token", false},
		{"missing token", VaultConfig{}, "", true},
		{"unreadable token file", VaultConfig{TokenFile: "/nonexistent/token"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := resolveVaultToken(tt.config, testLogger())

			if tt.expectError {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if token != tt.expected {
				t.Errorf("Expected token %q, got %q", tt.expected, token)
			}
		})
	}
}

func TestLoadSingleCertificate(t *testing.T) {
	var target string
	data := &VaultSecret{Data: map[string]any{"cert": "cert-content", "empty": "", "number": 42}}

	if n := loadSingleCertificate(data, "cert", &target, "cert", testLogger()); n != 1 || target != "cert-content" {
		t.Errorf("Expected cert content loaded, got count=%d target=%q", n, target)
	}

	target = ""
	if n := loadSingleCertificate(data, "empty", &target, "cert", testLogger()); n != 0 || target != "" {
		t.Errorf("Expected empty value skipped, got count=%d target=%q", n, target)
	}
	if n := loadSingleCertificate(data, "number", &target, "cert", testLogger()); n != 0 {
		t.Errorf("Expected non-string value skipped, got count=%d", n)
	}
	if n := loadSingleCertificate(data, "missing", &target, "cert", testLogger()); n != 0 {
		t.Errorf("Expected missing key skipped, got count=%d", n)
	}
}

func TestLoadTLSCertificateContent(t *testing.T) {
	config := &Config{}
	data := &VaultSecret{Data: map[string]any{
		"cert": "cert-content",
		"key":  "key-content",
		"ca":   "ca-content",
	}}

	count := loadTLSCertificateContent(config, data, testLogger())

	if count != 3 {
		t.Errorf("Expected 3 certificates loaded, got %d", count)
	}
	if config.Server.TLS.CertContent != "cert-content" ||
		config.Server.TLS.KeyContent != "key-content" ||
		config.Server.TLS.CAContent != "ca-content" {
		t.Errorf("Expected all certificate content applied, got %+v", config.Server.TLS)
	}
}

func TestValidateTLSDeprecatedFields(t *testing.T) {
	valid := &VaultSecret{Data: map[string]any{"cert": "x", "key": "y"}}
	if err := validateTLSDeprecatedFields(valid, testLogger()); err != nil {
		t.Errorf("Expected no error for content fields, got %v", err)
	}

	deprecated := &VaultSecret{Data: map[string]any{"cert_file": "/path/to/cert.pem"}}
	err := validateTLSDeprecatedFields(deprecated, testLogger())
	if err == nil {
		t.Fatal("Expected error for deprecated cert_file field")
	}
	if !strings.Contains(err.Error(), "cert_file") {
		t.Errorf("Expected error to name the deprecated field, got %q", err.Error())
	}
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	config := &Config{Vault: VaultConfig{Enabled: false}}

	if err := ApplyVaultSecrets(config, testLogger()); err != nil {
		t.Errorf("Expected disabled Vault to be a no-op, got %v", err)
	}
}
