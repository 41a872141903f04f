package ai

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"llmployable/internal/config"
	"llmployable/internal/errors"
	"llmployable/internal/types"
)

func timePtr(d time.Duration) *time.Duration { return &d }
func intPtr(i int) *int                      { return &i }
func float32Ptr(f float32) *float32          { return &f }
func boolPtr(b bool) *bool                   { return &b }

func serviceTestConfig(apiKey string) *config.OperationAIConfig {
	return &config.OperationAIConfig{
		Provider:         "gemini",
		Model:            "gemini-2.0-flash",
		APIKey:           apiKey,
		Timeout:          timePtr(30 * time.Second),
		MaxRetries:       intPtr(1),
		Temperature:      float32Ptr(0.3),
		UseSystemPrompts: boolPtr(true),
	}
}

// stubProvider fakes an AIProvider for service-level tests
type stubProvider struct {
	resumeOutput    types.GenerateResumeOutput
	interviewOutput types.GenerateInterviewOutput
	err             error
}

func (s *stubProvider) GenerateResume(context.Context, types.GenerateResumeInput) (types.GenerateResumeOutput, *TokenUsage, error) {
	if s.err != nil {
		return types.GenerateResumeOutput{}, nil, s.err
	}
	return s.resumeOutput, &TokenUsage{InputTokens: 10, OutputTokens: 20, TotalTokens: 30}, nil
}

func (s *stubProvider) GenerateInterviewPrep(context.Context, types.GenerateInterviewInput) (types.GenerateInterviewOutput, *TokenUsage, error) {
	if s.err != nil {
		return types.GenerateInterviewOutput{}, nil, s.err
	}
	return s.interviewOutput, &TokenUsage{TotalTokens: 30}, nil
}

func (s *stubProvider) GetModelInfo(context.Context) *ModelInfo {
	return &ModelInfo{Name: "stub", Available: true}
}

func (s *stubProvider) Close() error { return nil }

// countingFallbackRecorder tracks degradation events
type countingFallbackRecorder struct {
	operations []string
}

func (r *countingFallbackRecorder) RecordEnrichmentFallback(_ context.Context, operation string) {
	r.operations = append(r.operations, operation)
}

func newTestService(t *testing.T, provider AIProvider, recorder FallbackRecorder) *Service {
	t.Helper()
	logger, err := errors.New("error")
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}
	return &Service{
		Provider: provider,
		config:   serviceTestConfig("key"),
		logger:   logger,
		recorder: recorder,
	}
}

func TestNewServiceWithoutAPIKey(t *testing.T) {
	logger, _ := errors.New("error")

	service, err := NewService(serviceTestConfig(""), "Resume", logger, nil)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	if service.Provider != nil {
		t.Error("Expected no provider without an API key")
	}

	// Fallback-only mode still generates
	output, usage, fromFallback, err := service.GenerateResume(context.Background(), types.GenerateResumeInput{
		Profile: types.DeveloperProfile{Username: "octocat", Name: "The Octocat"},
	})
	if err != nil {
		t.Fatalf("GenerateResume failed: %v", err)
	}
	if !fromFallback || usage != nil {
		t.Errorf("Expected fallback generation without token usage, fromFallback=%v usage=%v", fromFallback, usage)
	}
	if output.Basics.Name != "The Octocat" {
		t.Errorf("Unexpected fallback output: %+v", output.Basics)
	}
}

func TestNewServiceUnsupportedProvider(t *testing.T) {
	logger, _ := errors.New("error")
	cfg := serviceTestConfig("key")
	cfg.Provider = "unknown"

	if _, err := NewService(cfg, "Resume", logger, nil); err == nil {
		t.Error("Expected error for unsupported provider")
	}
}

func TestGenerateResumeUsesProvider(t *testing.T) {
	provider := &stubProvider{
		resumeOutput: types.GenerateResumeOutput{Summary: "from provider"},
	}
	recorder := &countingFallbackRecorder{}
	service := newTestService(t, provider, recorder)

	output, usage, fromFallback, err := service.GenerateResume(context.Background(), types.GenerateResumeInput{})
	if err != nil {
		t.Fatalf("GenerateResume failed: %v", err)
	}
	if fromFallback {
		t.Error("Expected provider output, not fallback")
	}
	if output.Summary != "from provider" || usage == nil || usage.TotalTokens != 30 {
		t.Errorf("Unexpected output %+v usage %+v", output, usage)
	}
	if len(recorder.operations) != 0 {
		t.Errorf("Expected no fallback events, got %v", recorder.operations)
	}
}

func TestGenerateResumeDegradesOnProviderFailure(t *testing.T) {
	provider := &stubProvider{err: errors.NewAIError(errors.ErrCodeAIServiceFailed, "model unavailable", nil)}
	recorder := &countingFallbackRecorder{}
	service := newTestService(t, provider, recorder)

	output, usage, fromFallback, err := service.GenerateResume(context.Background(), types.GenerateResumeInput{
		Profile: types.DeveloperProfile{Username: "octocat"},
	})
	if err != nil {
		t.Fatalf("Expected degradation, not error: %v", err)
	}
	if !fromFallback || usage != nil {
		t.Errorf("Expected fallback generation, fromFallback=%v usage=%v", fromFallback, usage)
	}
	if output.Basics.Website != "github.com/octocat" {
		t.Errorf("Unexpected fallback output: %+v", output.Basics)
	}
	if len(recorder.operations) != 1 || recorder.operations[0] != "generate_resume" {
		t.Errorf("Expected one generate_resume fallback event, got %v", recorder.operations)
	}
}

func TestGenerateInterviewPrepDegradesOnProviderFailure(t *testing.T) {
	provider := &stubProvider{err: errors.NewAIError(errors.ErrCodeAIServiceFailed, "model unavailable", nil)}
	recorder := &countingFallbackRecorder{}
	service := newTestService(t, provider, recorder)

	output, _, fromFallback, err := service.GenerateInterviewPrep(context.Background(), types.GenerateInterviewInput{})
	if err != nil {
		t.Fatalf("Expected degradation, not error: %v", err)
	}
	if !fromFallback || len(output.Tips) == 0 {
		t.Errorf("Expected fallback interview prep, fromFallback=%v tips=%d", fromFallback, len(output.Tips))
	}
	if len(recorder.operations) != 1 || recorder.operations[0] != "generate_interview_prep" {
		t.Errorf("Expected one generate_interview_prep fallback event, got %v", recorder.operations)
	}
}

func TestGenerateResumeCancelledContext(t *testing.T) {
	provider := &stubProvider{err: context.Canceled}
	service := newTestService(t, provider, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, _, err := service.GenerateResume(ctx, types.GenerateResumeInput{}); err == nil {
		t.Error("Expected error for cancelled context, not fallback")
	}
}

func TestGenerateResumeDeadlineExceeded(t *testing.T) {
	provider := &stubProvider{err: context.DeadlineExceeded}
	service := newTestService(t, provider, nil)

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, _, _, err := service.GenerateResume(ctx, types.GenerateResumeInput{})
	if err == nil {
		t.Fatal("Expected timeout error, not fallback")
	}
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) || appErr.Code != errors.ErrCodeAITimeout {
		t.Errorf("Expected code %s, got %v", errors.ErrCodeAITimeout, err)
	}
}

// statsProvider is a stubProvider that also exposes breaker state
type statsProvider struct {
	stubProvider
}

func (s *statsProvider) GetCircuitBreakerStats() map[string]any {
	return map[string]any{"overall_healthy": true}
}

func TestBreakerStats(t *testing.T) {
	service := newTestService(t, &statsProvider{}, nil)
	stats := service.BreakerStats()
	if stats == nil {
		t.Fatal("Expected breaker stats from a provider that exposes them")
	}
	if healthy, ok := stats["overall_healthy"].(bool); !ok || !healthy {
		t.Errorf("Unexpected breaker stats: %v", stats)
	}

	fallbackOnly := newTestService(t, nil, nil)
	if got := fallbackOnly.BreakerStats(); got != nil {
		t.Errorf("Expected nil stats in fallback-only mode, got %v", got)
	}

	plain := newTestService(t, &stubProvider{}, nil)
	if got := plain.BreakerStats(); got != nil {
		t.Errorf("Expected nil stats for a provider without a breaker, got %v", got)
	}
}
