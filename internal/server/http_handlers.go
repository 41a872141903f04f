package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// getHealthCheckTimeout returns the configured health check timeout
func (s *Server) getHealthCheckTimeout() time.Duration {
	if t := s.AppConfig.Observability.HealthCheck.Timeout; t > 0 {
		return t
	}
	return 15 * time.Second
}

// healthHandler reports overall service health: AI model availability for
// both generation operations, the portfolio circuit breaker, and the cache
// backend
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status":  "healthy",
		"service": "llmployable",
		"version": s.Version,
	}

	aiStatus := s.checkAIModelsHealth()
	response["ai_models"] = aiStatus

	response["portfolio"] = s.checkPortfolioHealth()
	response["cache"] = s.checkCacheHealth()

	// AI unavailability is not fatal: generation degrades to the basic
	// generator. Report degraded status but stay 200.
	for _, modelStatus := range aiStatus {
		if modelInfo, ok := modelStatus.(map[string]any); ok {
			if avail, ok := modelInfo["available"].(bool); ok && !avail {
				response["status"] = "degraded"
				break
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode health response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// checkAIModelsHealth checks model availability for both AI operations
func (s *Server) checkAIModelsHealth() map[string]any {
	timeout := s.getHealthCheckTimeout()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	aiStatus := make(map[string]any)

	if s.resumeService != nil {
		aiStatus["resume"] = s.resumeService.GetModelInfo(ctx)
	} else {
		aiStatus["resume"] = map[string]any{
			"available": false,
			"error":     "resume service not initialized",
		}
	}

	if s.interviewService != nil {
		aiStatus["interview"] = s.interviewService.GetModelInfo(ctx)
	} else {
		aiStatus["interview"] = map[string]any{
			"available": false,
			"error":     "interview service not initialized",
		}
	}

	return aiStatus
}

// checkPortfolioHealth reports the GitHub client circuit breaker state
func (s *Server) checkPortfolioHealth() map[string]any {
	type breakerStater interface {
		BreakerStats() map[string]any
	}

	status := map[string]any{
		"base_url": s.AppConfig.GitHub.BaseURL,
	}
	if stater, ok := s.source.(breakerStater); ok {
		status["circuit_breaker"] = stater.BreakerStats()
	}
	return status
}

// checkCacheHealth reports which cache backend is serving analysis results
func (s *Server) checkCacheHealth() map[string]any {
	status := map[string]any{
		"enabled": s.AppConfig.Cache.Enabled,
	}
	if !s.AppConfig.Cache.Enabled {
		return status
	}

	if s.AppConfig.Cache.Redis.Addr != "" {
		status["backend"] = "redis"
		status["addr"] = s.AppConfig.Cache.Redis.Addr
	} else {
		status["backend"] = "memory"
	}
	status["ttl"] = s.AppConfig.Cache.TTL.String()
	return status
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"service": "llmployable",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
		},
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	if breakers := s.collectAIBreakerStats(); len(breakers) > 0 {
		response["ai_circuit_breakers"] = breakers
	}

	response["taxonomy"] = map[string]any{
		"file":        s.AppConfig.Taxonomy.File,
		"auto_reload": s.AppConfig.Taxonomy.AutoReload.Enabled,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode stats response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// collectAIBreakerStats gathers circuit breaker state from the AI services;
// fallback-only services contribute nothing
func (s *Server) collectAIBreakerStats() map[string]any {
	breakers := make(map[string]any)
	if s.resumeService != nil {
		if stats := s.resumeService.BreakerStats(); stats != nil {
			breakers["resume"] = stats
		}
	}
	if s.interviewService != nil {
		if stats := s.interviewService.BreakerStats(); stats != nil {
			breakers["interview"] = stats
		}
	}
	return breakers
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	if r.Header.Get("Content-Type") != "application/json" {
		return fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   error,
		Message: message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode error response: %v", err)
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}
