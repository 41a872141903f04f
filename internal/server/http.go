package server

import (
	"time"

	"llmployable/internal/ai"
	"llmployable/internal/cache"
	"llmployable/internal/config"
	apperrors "llmployable/internal/errors"
	"llmployable/internal/portfolio"
	"llmployable/internal/types"
)

// AnalyzeRequest is the request body for the analyze endpoint
type AnalyzeRequest struct {
	JobDescription string `json:"jobDescription"`
}

// MatchRequest is the request body for the match endpoint
type MatchRequest struct {
	Username       string `json:"username"`
	JobDescription string `json:"jobDescription"`
	Limit          int    `json:"limit,omitempty"`
}

// GenerateRequest is the request body for the generate endpoint
type GenerateRequest struct {
	Username       string `json:"username"`
	JobDescription string `json:"jobDescription"`
}

// InterviewRequest is the request body for the interview endpoint
type InterviewRequest struct {
	JobDescription string `json:"jobDescription"`
}

// GenerateResponse wraps generated resume content with a flag reporting
// whether the deterministic fallback produced it
type GenerateResponse struct {
	Resume   types.GenerateResumeOutput `json:"resume"`
	Fallback bool                       `json:"fallback"`
}

// InterviewResponse wraps interview preparation content with a flag
// reporting whether the deterministic fallback produced it
type InterviewResponse struct {
	Interview types.GenerateInterviewOutput `json:"interview"`
	Fallback  bool                          `json:"fallback"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration and wired components for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// TLS Configuration
	TLSConfig config.TLSConfig

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Logger
	Logger *apperrors.Logger

	// Analysis pipeline, wired during Start
	taxonomy         *TaxonomyReloader
	extractor        *cache.CachedExtractor
	cacheStore       cache.Store
	source           portfolio.Source
	resumeService    *ai.Service
	interviewService *ai.Service
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, logger *apperrors.Logger) *Server {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLSConfig,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Logger:         logger,
	}
}
