package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"llmployable/internal/ai"
	"llmployable/internal/cache"
	"llmployable/internal/config"
	apperrors "llmployable/internal/errors"
	"llmployable/internal/observability"
	"llmployable/internal/types"
)

func testLogger(t *testing.T) *apperrors.Logger {
	t.Helper()
	logger, err := apperrors.New("error")
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}
	return logger
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			LogLevel:                "error",
			DefaultFormat:           "json",
			SupportedFormats:        []string{"json", "text", "markdown"},
			MinJobDescriptionLength: 10,
			MaxJobDescriptionLength: 50000,
			DefaultMatchLimit:       10,
		},
		Cache: config.CacheConfig{Enabled: true, TTL: time.Hour},
	}
}

// stubSource fakes the portfolio source for handler tests
type stubSource struct {
	profile types.DeveloperProfile
	err     error
}

func (s *stubSource) FetchProfile(context.Context, string) (types.DeveloperProfile, error) {
	return s.profile, s.err
}

func disabledObservability(t *testing.T) *observability.ObservabilityManager {
	t.Helper()
	om, err := observability.NewObservabilityManager(observability.ObservabilityConfig{Enabled: false}, nil)
	if err != nil {
		t.Fatalf("failed to build observability manager: %v", err)
	}
	return om
}

// fallbackService builds an AI service with no provider configured
func fallbackService(t *testing.T, operationType string) *ai.Service {
	t.Helper()
	timeout := 30 * time.Second
	retries := 1
	temperature := float32(0.3)
	useSystem := true
	cfg := &config.OperationAIConfig{
		Provider:         "gemini",
		Model:            "gemini-2.0-flash",
		Timeout:          &timeout,
		MaxRetries:       &retries,
		Temperature:      &temperature,
		UseSystemPrompts: &useSystem,
	}
	service, err := ai.NewService(cfg, operationType, testLogger(t), nil)
	if err != nil {
		t.Fatalf("failed to build AI service: %v", err)
	}
	return service
}

func newTestServer(t *testing.T, source *stubSource) *Server {
	t.Helper()
	logger := testLogger(t)
	cfg := testConfig()

	taxonomy, err := NewTaxonomyReloader(config.TaxonomyConfig{}, logger)
	if err != nil {
		t.Fatalf("failed to build taxonomy reloader: %v", err)
	}

	s := NewServer(cfg, ServerConfig{
		Host:           "localhost",
		Port:           "0",
		Version:        "test",
		MaxRequestSize: 1 << 20,
	}, logger)

	s.taxonomy = taxonomy
	s.extractor = cache.NewCachedExtractor(taxonomy, cache.NewMemoryStore(), time.Hour, logger, nil)
	s.source = source
	s.resumeService = fallbackService(t, "Resume")
	s.interviewService = fallbackService(t, "Interview")

	return s
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestAnalyzeHandler(t *testing.T) {
	s := newTestServer(t, &stubSource{})
	handler := s.createAnalyzeHandler(disabledObservability(t))

	rec := postJSON(t, handler, `{"jobDescription":"Looking for a Python developer with 5+ years of experience"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var profile types.RequirementProfile
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(profile.Skills["languages"]) == 0 || profile.Skills["languages"][0] != "python" {
		t.Errorf("Expected python in languages, got %v", profile.Skills)
	}
	if profile.Experience != "5+ years of experience" {
		t.Errorf("Unexpected experience: %q", profile.Experience)
	}
}

func TestAnalyzeHandlerValidation(t *testing.T) {
	s := newTestServer(t, &stubSource{})
	handler := s.createAnalyzeHandler(disabledObservability(t))

	tests := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"too short", `{"jobDescription":"short"}`},
		{"not json", `not json at all`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, handler, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestMatchHandler(t *testing.T) {
	source := &stubSource{
		profile: types.DeveloperProfile{
			Username: "octocat",
			Repositories: []types.PortfolioItem{
				{Name: "py-tool", Description: "A python tool", Language: "Python", Stars: 3},
				{Name: "dotfiles", Description: "configs", Language: "Shell", Stars: 10},
			},
		},
	}
	s := newTestServer(t, source)
	handler := s.createMatchHandler(disabledObservability(t))

	rec := postJSON(t, handler, `{"username":"octocat","jobDescription":"Looking for a Python developer"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result types.MatchOutput
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(result.Items) != 2 || result.Items[0].Name != "py-tool" {
		t.Errorf("Expected py-tool ranked first, got %+v", result.Items)
	}
	if result.Items[0].Rank != 1 {
		t.Errorf("Expected 1-based rank, got %d", result.Items[0].Rank)
	}
}

func TestMatchHandlerUserNotFound(t *testing.T) {
	source := &stubSource{
		err: apperrors.NewPortfolioError(apperrors.ErrCodeGitHubNotFound, "GitHub user not found", nil),
	}
	s := newTestServer(t, source)
	handler := s.createMatchHandler(disabledObservability(t))

	rec := postJSON(t, handler, `{"username":"nosuchuser","jobDescription":"Looking for a Python developer"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestMatchHandlerDegradesOnFetchFailure(t *testing.T) {
	source := &stubSource{
		err: apperrors.NewPortfolioError(apperrors.ErrCodeGitHubUnavailable, "GitHub server error", nil),
	}
	s := newTestServer(t, source)
	handler := s.createMatchHandler(disabledObservability(t))

	rec := postJSON(t, handler, `{"username":"octocat","jobDescription":"Looking for a Python developer"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected degraded 200, got %d", rec.Code)
	}

	var result types.MatchOutput
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(result.Items) != 0 {
		t.Errorf("Expected empty item list, got %+v", result.Items)
	}
	if len(result.Requirements.Skills) == 0 {
		t.Error("Expected requirements still extracted")
	}
}

func TestMatchHandlerInvalidUsername(t *testing.T) {
	s := newTestServer(t, &stubSource{})
	handler := s.createMatchHandler(disabledObservability(t))

	rec := postJSON(t, handler, `{"username":"-bad-","jobDescription":"Looking for a Python developer"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestGenerateHandlerFallback(t *testing.T) {
	source := &stubSource{
		profile: types.DeveloperProfile{
			Username: "octocat",
			Name:     "The Octocat",
			Languages: []types.LanguageCount{
				{Language: "Go", Count: 3},
			},
		},
	}
	s := newTestServer(t, source)
	handler := s.createGenerateHandler(disabledObservability(t))

	rec := postJSON(t, handler, `{"username":"octocat","jobDescription":"Looking for a Go developer"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result GenerateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !result.Fallback {
		t.Error("Expected fallback generation without an API key")
	}
	if result.Resume.Basics.Name != "The Octocat" {
		t.Errorf("Unexpected resume basics: %+v", result.Resume.Basics)
	}
}

func TestInterviewHandlerFallback(t *testing.T) {
	s := newTestServer(t, &stubSource{})
	handler := s.createInterviewHandler(disabledObservability(t))

	rec := postJSON(t, handler, `{"jobDescription":"Looking for a Python developer"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result InterviewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !result.Fallback || len(result.Interview.Tips) == 0 {
		t.Errorf("Expected fallback interview prep, got fallback=%v tips=%d",
			result.Fallback, len(result.Interview.Tips))
	}
}

// breakerProvider fakes an AI provider that reports circuit breaker state
type breakerProvider struct{}

func (p *breakerProvider) GenerateResume(context.Context, types.GenerateResumeInput) (types.GenerateResumeOutput, *ai.TokenUsage, error) {
	return types.GenerateResumeOutput{}, nil, nil
}

func (p *breakerProvider) GenerateInterviewPrep(context.Context, types.GenerateInterviewInput) (types.GenerateInterviewOutput, *ai.TokenUsage, error) {
	return types.GenerateInterviewOutput{}, nil, nil
}

func (p *breakerProvider) GetModelInfo(context.Context) *ai.ModelInfo {
	return &ai.ModelInfo{Name: "fake", Available: true}
}

func (p *breakerProvider) Close() error { return nil }

func (p *breakerProvider) GetCircuitBreakerStats() map[string]any {
	return map[string]any{"overall_healthy": true}
}

func TestStatsHandler(t *testing.T) {
	s := newTestServer(t, &stubSource{})

	getStats := func(t *testing.T) map[string]any {
		t.Helper()
		rec := httptest.NewRecorder()
		s.statsHandler(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}
		var response map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		return response
	}

	response := getStats(t)
	if _, ok := response["ai_circuit_breakers"]; ok {
		t.Error("Expected no breaker stats in fallback-only mode")
	}

	s.resumeService.Provider = &breakerProvider{}
	response = getStats(t)
	breakers, ok := response["ai_circuit_breakers"].(map[string]any)
	if !ok {
		t.Fatalf("Expected breaker stats once a provider exposes them, got %v", response["ai_circuit_breakers"])
	}
	resume, ok := breakers["resume"].(map[string]any)
	if !ok || resume["overall_healthy"] != true {
		t.Errorf("Unexpected resume breaker stats: %v", breakers)
	}
	if _, ok := breakers["interview"]; ok {
		t.Errorf("Expected no interview breaker stats in fallback-only mode, got %v", breakers)
	}
}

func TestAuthMiddleware(t *testing.T) {
	s := newTestServer(t, &stubSource{})
	s.APIKeys = map[string]bool{"secret-key-12345": true}

	handler := s.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name     string
		header   string
		value    string
		expected int
	}{
		{"missing key", "", "", http.StatusUnauthorized},
		{"invalid key", "X-API-Key", "wrong", http.StatusUnauthorized},
		{"valid key", "X-API-Key", "secret-key-12345", http.StatusOK},
		{"valid bearer", "Authorization", "Bearer secret-key-12345", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)

			if rec.Code != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, rec.Code)
			}
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	s := newTestServer(t, &stubSource{})
	handler := s.requestIDMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("generates ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Header().Get(requestIDHeader) == "" {
			t.Error("Expected a generated request ID on the response")
		}
	})

	t.Run("honors client ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(requestIDHeader, "client-supplied")
		rec := httptest.NewRecorder()
		handler(rec, req)

		if got := rec.Header().Get(requestIDHeader); got != "client-supplied" {
			t.Errorf("Expected client-supplied request ID echoed, got %q", got)
		}
	})
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(60, 2, testLogger(t))
	defer limiter.Close()

	if !limiter.Allow("ip:1.2.3.4") || !limiter.Allow("ip:1.2.3.4") {
		t.Error("Expected burst capacity to allow first two requests")
	}
	if limiter.Allow("ip:1.2.3.4") {
		t.Error("Expected third immediate request to be rejected")
	}
	if !limiter.Allow("ip:5.6.7.8") {
		t.Error("Expected separate key to have its own budget")
	}

	stats := limiter.GetStats()
	if stats["active_limiters"] != 2 {
		t.Errorf("Expected 2 active limiters, got %v", stats["active_limiters"])
	}
}

func TestTaxonomyReloaderSwap(t *testing.T) {
	logger := testLogger(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "taxonomy.yaml")

	initial := "categories:\n  - name: languages\n    tokens: [python]\n"
	if err := os.WriteFile(file, []byte(initial), 0o600); err != nil {
		t.Fatalf("failed to write taxonomy file: %v", err)
	}

	reloader, err := NewTaxonomyReloader(config.TaxonomyConfig{File: file}, logger)
	if err != nil {
		t.Fatalf("NewTaxonomyReloader failed: %v", err)
	}

	profile := reloader.Extract("We need python and elixir developers")
	if len(profile.Skills["languages"]) != 1 {
		t.Fatalf("Expected only python matched, got %v", profile.Skills)
	}

	updated := "categories:\n  - name: languages\n    tokens: [python, elixir]\n"
	if err := os.WriteFile(file, []byte(updated), 0o600); err != nil {
		t.Fatalf("failed to update taxonomy file: %v", err)
	}
	reloader.reload()

	profile = reloader.Extract("We need python and elixir developers")
	if len(profile.Skills["languages"]) != 2 {
		t.Errorf("Expected python and elixir after reload, got %v", profile.Skills)
	}
}

func TestTaxonomyReloaderKeepsOldOnBadFile(t *testing.T) {
	logger := testLogger(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "taxonomy.yaml")

	initial := "categories:\n  - name: languages\n    tokens: [python]\n"
	if err := os.WriteFile(file, []byte(initial), 0o600); err != nil {
		t.Fatalf("failed to write taxonomy file: %v", err)
	}

	reloader, err := NewTaxonomyReloader(config.TaxonomyConfig{File: file}, logger)
	if err != nil {
		t.Fatalf("NewTaxonomyReloader failed: %v", err)
	}

	if err := os.WriteFile(file, []byte("categories:\n  - name: broken\n"), 0o600); err != nil {
		t.Fatalf("failed to update taxonomy file: %v", err)
	}
	reloader.reload()

	profile := reloader.Extract("python developer wanted for this role")
	if len(profile.Skills["languages"]) != 1 {
		t.Errorf("Expected previous taxonomy kept after bad reload, got %v", profile.Skills)
	}
}
