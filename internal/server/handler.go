package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"llmployable/internal/analyzer"
	"llmployable/internal/common"
	apperrors "llmployable/internal/errors"
	"llmployable/internal/observability"
	"llmployable/internal/types"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// createAnalyzeHandler builds the analyze endpoint: job description in,
// requirement profile out
func (s *Server) createAnalyzeHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("llmployable.api")
		ctx, span := tracer.Start(ctx, "api.analyze")
		defer span.End()

		var req AnalyzeRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if err := s.validateJobDescription(req.JobDescription); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid job description", err.Error(), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "analyze"),
		)

		result := s.extractor.Extract(ctx, req.JobDescription)

		metrics := om.GetMetrics()
		metrics.RecordBusinessMetric(ctx, "job_analyzed", true, om,
			attribute.Int("skill_categories", len(result.Skills)),
			attribute.Int("keywords", len(result.Keywords)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.skill_categories", len(result.Skills)),
		)

		writeJSONResponse(w, span, result)
	}
}

// createMatchHandler builds the match endpoint: username plus job
// description in, ranked repositories out
func (s *Server) createMatchHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("llmployable.api")
		ctx, span := tracer.Start(ctx, "api.match")
		defer span.End()

		var req MatchRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if err := s.validateJobDescription(req.JobDescription); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid job description", err.Error(), http.StatusBadRequest)
			return
		}
		if err := common.ValidateGitHubUsername(req.Username); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid username", err.Error(), http.StatusBadRequest)
			return
		}

		limit := req.Limit
		if limit <= 0 {
			limit = s.AppConfig.App.DefaultMatchLimit
		}

		span.SetAttributes(
			attribute.String("request.username", req.Username),
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.Int("request.limit", limit),
			attribute.String("operation", "match"),
		)

		requirements := s.extractor.Extract(ctx, req.JobDescription)

		metrics := om.GetMetrics()
		profile, err := s.source.FetchProfile(ctx, req.Username)
		if err != nil {
			if isNotFound(err) {
				span.RecordError(err)
				span.SetAttributes(attribute.String("error.type", "not_found"))
				writeErrorResponse(w, "GitHub user not found", err.Error(), http.StatusNotFound)
				return
			}
			// Portfolio host failures degrade to an empty item list rather
			// than failing the analysis
			s.Logger.Warn("Portfolio fetch failed, returning empty match list",
				"username", req.Username,
				"error", err.Error())
			span.RecordError(err)
			span.SetAttributes(attribute.Bool("portfolio.degraded", true))
			metrics.RecordBusinessMetric(ctx, "match_ranked", false, om,
				attribute.String("error", err.Error()))
		}

		result := types.MatchOutput{
			Username:     req.Username,
			Requirements: requirements,
			Items:        analyzer.Rank(profile.Repositories, requirements.Skills, limit),
		}

		if err == nil {
			metrics.RecordBusinessMetric(ctx, "match_ranked", true, om,
				attribute.Int("items", len(result.Items)))
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.items", len(result.Items)),
		)

		writeJSONResponse(w, span, result)
	}
}

// createGenerateHandler builds the generate endpoint: username plus job
// description in, tailored resume content out
func (s *Server) createGenerateHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("llmployable.api")
		ctx, span := tracer.Start(ctx, "api.generate")
		defer span.End()

		var req GenerateRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if err := s.validateJobDescription(req.JobDescription); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid job description", err.Error(), http.StatusBadRequest)
			return
		}
		if err := common.ValidateGitHubUsername(req.Username); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid username", err.Error(), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.String("request.username", req.Username),
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "generate"),
		)

		requirements := s.extractor.Extract(ctx, req.JobDescription)

		profile, err := s.source.FetchProfile(ctx, req.Username)
		if err != nil {
			span.RecordError(err)
			if isNotFound(err) {
				span.SetAttributes(attribute.String("error.type", "not_found"))
				writeErrorResponse(w, "GitHub user not found", err.Error(), http.StatusNotFound)
				return
			}
			span.SetAttributes(attribute.String("error.type", "portfolio"))
			writeErrorResponse(w, "Failed to fetch GitHub profile", err.Error(), http.StatusBadGateway)
			return
		}

		input := types.GenerateResumeInput{
			Profile:      profile,
			Requirements: requirements,
		}

		metrics := om.GetMetrics()
		var result types.GenerateResumeOutput
		var fromFallback bool
		err = metrics.TrackAIOperationWithTokens(ctx, "generate_resume", func(ctx context.Context) *observability.AIOperationResult {
			output, tokenUsage, fallback, aiErr := s.resumeService.GenerateResume(ctx, input)
			result = output
			fromFallback = fallback
			return &observability.AIOperationResult{
				Error:      aiErr,
				TokenUsage: (*observability.TokenUsage)(tokenUsage),
			}
		}, om)

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			metrics.RecordBusinessMetric(ctx, "resume_generated", false, om,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to generate resume content", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics.RecordBusinessMetric(ctx, "resume_generated", true, om,
			attribute.Bool("fallback", fromFallback),
			attribute.Int("output.projects", len(result.Projects)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Bool("response.fallback", fromFallback),
		)

		writeJSONResponse(w, span, GenerateResponse{Resume: result, Fallback: fromFallback})
	}
}

// createInterviewHandler builds the interview endpoint: job description in,
// interview preparation out
func (s *Server) createInterviewHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("llmployable.api")
		ctx, span := tracer.Start(ctx, "api.interview")
		defer span.End()

		var req InterviewRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if err := s.validateJobDescription(req.JobDescription); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid job description", err.Error(), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "interview"),
		)

		requirements := s.extractor.Extract(ctx, req.JobDescription)
		input := types.GenerateInterviewInput{Requirements: requirements}

		metrics := om.GetMetrics()
		var result types.GenerateInterviewOutput
		var fromFallback bool
		err := metrics.TrackAIOperationWithTokens(ctx, "generate_interview_prep", func(ctx context.Context) *observability.AIOperationResult {
			output, tokenUsage, fallback, aiErr := s.interviewService.GenerateInterviewPrep(ctx, input)
			result = output
			fromFallback = fallback
			return &observability.AIOperationResult{
				Error:      aiErr,
				TokenUsage: (*observability.TokenUsage)(tokenUsage),
			}
		}, om)

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			metrics.RecordBusinessMetric(ctx, "interview_generated", false, om,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to generate interview preparation", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics.RecordBusinessMetric(ctx, "interview_generated", true, om,
			attribute.Bool("fallback", fromFallback),
			attribute.Int("output.tips", len(result.Tips)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Bool("response.fallback", fromFallback),
		)

		writeJSONResponse(w, span, InterviewResponse{Interview: result, Fallback: fromFallback})
	}
}

// validateJobDescription applies the configured length bounds
func (s *Server) validateJobDescription(text string) error {
	return common.ValidateJobDescription(text,
		s.AppConfig.App.MinJobDescriptionLength,
		s.AppConfig.App.MaxJobDescriptionLength)
}

// isNotFound reports whether err is a missing-user portfolio error
func isNotFound(err error) bool {
	var appErr *apperrors.AppError
	return errors.As(err, &appErr) && appErr.Code == apperrors.ErrCodeGitHubNotFound
}

// writeJSONResponse encodes v as the success response body
func writeJSONResponse(w http.ResponseWriter, span oteltrace.Span, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		span.RecordError(err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
