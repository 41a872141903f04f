package ai

import (
	"context"
	stderrors "errors"
	"fmt"

	"llmployable/internal/config"
	"llmployable/internal/errors"
	"llmployable/internal/types"
)

// FallbackRecorder receives an event each time generation degrades to the
// basic generator. Implemented by the observability layer; nil disables
// recording.
type FallbackRecorder interface {
	RecordEnrichmentFallback(ctx context.Context, operation string)
}

// Service handles content generation for one operation type. When an AI
// provider is configured it is tried first; any provider failure degrades
// to the deterministic BasicGenerator, so generation itself never fails
// unless the context is cancelled.
type Service struct {
	Provider AIProvider // nil when no provider is configured
	fallback BasicGenerator
	config   *config.OperationAIConfig
	logger   *errors.Logger
	recorder FallbackRecorder
}

// NewService creates a generation service for a specific operation. An
// empty API key selects fallback-only mode rather than an error.
func NewService(cfg *config.OperationAIConfig, operationType string, logger *errors.Logger, recorder FallbackRecorder) (*Service, error) {
	service := &Service{
		config:   cfg,
		logger:   logger,
		recorder: recorder,
	}

	if cfg.APIKey == "" {
		logger.Warn("No AI API key configured, using basic generation",
			"operation_type", operationType)
		return service, nil
	}

	logger.Debug("Initializing AI service",
		"provider", cfg.Provider,
		"operation_type", operationType,
		"model", cfg.Model,
		"temperature", *cfg.Temperature,
		"timeout", *cfg.Timeout,
		"max_retries", *cfg.MaxRetries,
		"use_system_prompts", *cfg.UseSystemPrompts)

	switch cfg.Provider {
	case "gemini":
		provider, err := NewGeminiProvider(cfg, operationType, logger)
		if err != nil {
			return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
				"Failed to create AI provider", err)
		}
		service.Provider = provider
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}

	return service, nil
}

// GenerateResume produces tailored resume content. The returned bool
// reports whether the basic generator was used.
func (s *Service) GenerateResume(ctx context.Context, input types.GenerateResumeInput) (types.GenerateResumeOutput, *TokenUsage, bool, error) {
	if s.Provider != nil {
		output, usage, err := s.Provider.GenerateResume(ctx, input)
		if err == nil {
			return output, usage, false, nil
		}
		if ctx.Err() != nil {
			return types.GenerateResumeOutput{}, nil, false, wrapContextErr(ctx.Err())
		}
		s.logger.Warn("AI resume generation failed, using basic generation", "error", err.Error())
	}

	if s.recorder != nil {
		s.recorder.RecordEnrichmentFallback(ctx, "generate_resume")
	}
	return s.fallback.GenerateResume(input), nil, true, nil
}

// GenerateInterviewPrep produces interview preparation content. The
// returned bool reports whether the basic generator was used.
func (s *Service) GenerateInterviewPrep(ctx context.Context, input types.GenerateInterviewInput) (types.GenerateInterviewOutput, *TokenUsage, bool, error) {
	if s.Provider != nil {
		output, usage, err := s.Provider.GenerateInterviewPrep(ctx, input)
		if err == nil {
			return output, usage, false, nil
		}
		if ctx.Err() != nil {
			return types.GenerateInterviewOutput{}, nil, false, wrapContextErr(ctx.Err())
		}
		s.logger.Warn("AI interview prep generation failed, using basic generation", "error", err.Error())
	}

	if s.recorder != nil {
		s.recorder.RecordEnrichmentFallback(ctx, "generate_interview_prep")
	}
	return s.fallback.GenerateInterviewPrep(input), nil, true, nil
}

// wrapContextErr marks a deadline hit as an AI timeout; explicit
// cancellation passes through unchanged
func wrapContextErr(err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewAIError(errors.ErrCodeAITimeout, "AI generation timed out", err)
	}
	return err
}

// BreakerStats reports the provider's circuit breaker state, nil when the
// provider has no breaker (fallback-only mode included)
func (s *Service) BreakerStats() map[string]any {
	type breakerStater interface {
		GetCircuitBreakerStats() map[string]any
	}
	if stater, ok := s.Provider.(breakerStater); ok {
		return stater.GetCircuitBreakerStats()
	}
	return nil
}

// GetModelInfo returns information about the AI model for health checks
func (s *Service) GetModelInfo(ctx context.Context) any {
	if s.Provider == nil {
		return &ModelInfo{Name: "basic-generator", Available: true}
	}
	return s.Provider.GetModelInfo(ctx)
}

// Close releases provider resources
func (s *Service) Close() error {
	if s.Provider == nil {
		return nil
	}
	return s.Provider.Close()
}
