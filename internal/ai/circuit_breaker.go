package ai

import (
	"fmt"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/genai"

	"llmployable/internal/config"
	"llmployable/internal/errors"
)

// OperationBreaker wraps one class of AI calls with circuit breaker
// protection. A nil breaker executes calls directly, so disabled
// configuration needs no special-casing at call sites.
type OperationBreaker[T any] struct {
	cb *gobreaker.CircuitBreaker[T]
}

// newOperationBreaker creates a breaker for an operation. Returns nil when
// the circuit breaker is disabled in configuration.
func newOperationBreaker[T any](name string, cfg *config.CircuitBreakerConfig, logger *errors.Logger, readyToTrip func(gobreaker.Counts) bool) *OperationBreaker[T] {
	if !cfg.Enabled {
		return nil
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: readyToTrip,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
				"max_requests", cfg.MaxRequests,
				"failure_threshold", cfg.FailureThreshold)
		},
	}

	return &OperationBreaker[T]{cb: gobreaker.NewCircuitBreaker[T](settings)}
}

// NewContentBreaker creates the breaker guarding content generation calls
// for a specific operation type
func NewContentBreaker(operationType string, cfg *config.OperationAIConfig, logger *errors.Logger) *OperationBreaker[*genai.GenerateContentResponse] {
	cbCfg := &cfg.CircuitBreaker
	return newOperationBreaker[*genai.GenerateContentResponse](
		fmt.Sprintf("AI-%s", operationType), cbCfg, logger,
		func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cbCfg.MinRequests &&
				failureRatio >= cbCfg.FailureThreshold
		})
}

// NewModelBreaker creates the breaker guarding model info lookups. Model
// info is less critical, so the trip conditions are more lenient.
func NewModelBreaker(operationType string, cfg *config.OperationAIConfig, logger *errors.Logger) *OperationBreaker[*genai.Model] {
	return newOperationBreaker[*genai.Model](
		fmt.Sprintf("AI-Model-%s", operationType), &cfg.CircuitBreaker, logger,
		func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.8
		})
}

// Execute executes the provided function with circuit breaker protection
func (b *OperationBreaker[T]) Execute(fn func() (T, error)) (T, error) {
	if b == nil || b.cb == nil {
		return fn()
	}
	return b.cb.Execute(fn)
}

// Stats returns circuit breaker statistics
func (b *OperationBreaker[T]) Stats() map[string]any {
	if b == nil || b.cb == nil {
		return map[string]any{"enabled": false}
	}
	return map[string]any{
		"name":    b.cb.Name(),
		"state":   b.cb.State().String(),
		"counts":  b.cb.Counts(),
		"enabled": true,
	}
}

// IsHealthy returns true if the circuit breaker is in closed state
func (b *OperationBreaker[T]) IsHealthy() bool {
	if b == nil || b.cb == nil {
		return true
	}
	return b.cb.State() == gobreaker.StateClosed
}
