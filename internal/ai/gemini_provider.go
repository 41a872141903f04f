package ai

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"

	"llmployable/internal/config"
	apperrors "llmployable/internal/errors"
	"llmployable/internal/types"
)

// GeminiProvider implements AIProvider for Google Gemini
type GeminiProvider struct {
	client         *genai.Client
	config         *config.OperationAIConfig
	contentBreaker *OperationBreaker[*genai.GenerateContentResponse]
	modelBreaker   *OperationBreaker[*genai.Model]
	logger         *apperrors.Logger
}

// Ensure GeminiProvider implements AIProvider
var _ AIProvider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a new Gemini provider instance for a specific operation
func NewGeminiProvider(cfg *config.OperationAIConfig, operationType string, logger *apperrors.Logger) (*GeminiProvider, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, apperrors.NewAIError(apperrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	return &GeminiProvider{
		client:         client,
		config:         cfg,
		contentBreaker: NewContentBreaker(operationType, cfg, logger),
		modelBreaker:   NewModelBreaker(operationType, cfg, logger),
		logger:         logger,
	}, nil
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{
		Name:      g.config.Model,
		Available: false,
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	model, err := g.modelBreaker.Execute(func() (*genai.Model, error) {
		return g.client.Models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"provider", g.config.Provider,
			"error", err.Error())
		return modelInfo
	}

	modelInfo.Available = true
	if model.DisplayName != "" {
		modelInfo.DisplayName = model.DisplayName
	}
	if model.Version != "" {
		modelInfo.Version = model.Version
	}

	g.logger.Debug("Model availability check successful",
		"model", g.config.Model,
		"provider", g.config.Provider,
		"display_name", modelInfo.DisplayName,
		"version", modelInfo.Version)

	return modelInfo
}

// executeWithRetry executes an AI operation with retry logic and exponential backoff
func (g *GeminiProvider) executeWithRetry(ctx context.Context, operation string, fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= *g.config.MaxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("Retrying AI operation",
				"operation", operation,
				"attempt", attempt,
				"max_retries", *g.config.MaxRetries,
				"error", lastErr.Error())

			// Exponential backoff with jitter to prevent thundering herd
			baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			jitterMax := big.NewInt(int64(float64(baseDelay) * 0.1))
			jitterBig, _ := rand.Int(rand.Reader, jitterMax)
			jitter := time.Duration(jitterBig.Int64())
			backoff := min(baseDelay+jitter, 30*time.Second)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 {
				g.logger.Info("AI operation succeeded after retry",
					"operation", operation,
					"successful_attempt", attempt+1)
			}
			return result, nil
		}

		lastErr = err

		// Don't retry on certain errors (auth, invalid input, etc.)
		if !g.isRetryableError(err) {
			g.logger.Debug("Error is not retryable, stopping retry attempts",
				"operation", operation,
				"error", err.Error())
			break
		}
	}

	g.logger.LogError(lastErr, "AI operation failed after all retry attempts",
		"operation", operation,
		"total_attempts", *g.config.MaxRetries+1)

	return nil, fmt.Errorf("operation '%s' failed after %d retries: %w", operation, *g.config.MaxRetries, lastErr)
}

// isRetryableError determines if an error should trigger a retry
func (g *GeminiProvider) isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}

// executeAIOperation is a generic helper to run AI operations with common
// tracing, circuit breaker, and parsing logic
func executeAIOperation[Out any](
	g *GeminiProvider,
	ctx context.Context,
	operationName string,
	userPrompt string,
	systemPrompt string,
	genaiConfig *genai.GenerateContentConfig,
	spanAttributes ...attribute.KeyValue,
) (Out, *TokenUsage, error) {
	var output Out
	tracer := otel.Tracer("llmployable.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini."+operationName)
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.Float64("ai.temperature", float64(*g.config.Temperature)),
	)
	span.SetAttributes(spanAttributes...)

	if *g.config.UseSystemPrompts && systemPrompt != "" {
		genaiConfig.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	result, err := g.contentBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, operationName, func() (*genai.GenerateContentResponse, error) {
			return g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(userPrompt), genaiConfig)
		})
	})

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, nil, apperrors.NewAIError(apperrors.ErrCodeAIServiceFailed, "Failed to generate content for "+operationName, err)
	}

	if err := json.Unmarshal([]byte(result.Text()), &output); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, nil, apperrors.NewAIError("AI_RESPONSE_PARSE_FAILED", "Failed to parse AI response for "+operationName, err)
	}

	tokenUsage := extractTokenUsage(result)
	if tokenUsage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", tokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", tokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", tokenUsage.TotalTokens),
		)
	}

	span.SetAttributes(attribute.Bool("success", true))
	return output, tokenUsage, nil
}

// GenerateResume implements AIProvider for tailored resume content
func (g *GeminiProvider) GenerateResume(ctx context.Context, input types.GenerateResumeInput) (types.GenerateResumeOutput, *TokenUsage, error) {
	systemPrompt, userPrompt, err := g.getPromptsForResume(input)
	if err != nil {
		return types.GenerateResumeOutput{}, nil, err
	}
	genaiConfig := g.buildResumeSchema()

	output, tokenUsage, err := executeAIOperation[types.GenerateResumeOutput](
		g,
		ctx,
		"generate_resume",
		userPrompt,
		systemPrompt,
		genaiConfig,
		attribute.String("input.username", input.Profile.Username),
		attribute.Int("input.repository_count", len(input.Profile.Repositories)),
	)

	if err != nil {
		return types.GenerateResumeOutput{}, nil, err
	}

	// The model works from profile data alone; identity fields come from
	// the fetched profile, not the model.
	applyProfileBasics(&output, input.Profile)

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.Int("output.project_count", len(output.Projects)),
			attribute.Int("output.skill_group_count", len(output.Skills)),
		)
	}

	return output, tokenUsage, nil
}

// GenerateInterviewPrep implements AIProvider for interview preparation
func (g *GeminiProvider) GenerateInterviewPrep(ctx context.Context, input types.GenerateInterviewInput) (types.GenerateInterviewOutput, *TokenUsage, error) {
	systemPrompt, userPrompt, err := g.getPromptsForInterview(input)
	if err != nil {
		return types.GenerateInterviewOutput{}, nil, err
	}
	genaiConfig := g.buildInterviewSchema()

	output, tokenUsage, err := executeAIOperation[types.GenerateInterviewOutput](
		g,
		ctx,
		"generate_interview_prep",
		userPrompt,
		systemPrompt,
		genaiConfig,
		attribute.Int("input.job_length", len(input.Requirements.OriginalText)),
	)

	if err != nil {
		return types.GenerateInterviewOutput{}, nil, err
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.Int("output.tip_count", len(output.Tips)),
			attribute.Int("output.technical_question_count", len(output.TechnicalQuestions)),
		)
	}

	return output, tokenUsage, nil
}

// getPromptsForResume returns system and user prompts for resume generation
func (g *GeminiProvider) getPromptsForResume(input types.GenerateResumeInput) (string, string, error) {
	profileJSON, err := json.MarshalIndent(input.Profile, "", "  ")
	if err != nil {
		return "", "", apperrors.NewAIError(apperrors.ErrCodeAIServiceFailed, "Failed to encode profile for prompt", err)
	}
	requirementsJSON, err := json.MarshalIndent(promptRequirements(input.Requirements), "", "  ")
	if err != nil {
		return "", "", apperrors.NewAIError(apperrors.ErrCodeAIServiceFailed, "Failed to encode requirements for prompt", err)
	}

	systemPrompt := resolvePrompt(g.config.CustomPrompts.SystemPrompts.GenerateResume, DefaultSystemPrompts.GenerateResume)
	userPrompt := resolvePrompt(g.config.CustomPrompts.UserPrompts.GenerateResume, DefaultUserPrompts.GenerateResume)

	return systemPrompt, fmt.Sprintf(userPrompt, profileJSON, requirementsJSON), nil
}

// getPromptsForInterview returns system and user prompts for interview preparation
func (g *GeminiProvider) getPromptsForInterview(input types.GenerateInterviewInput) (string, string, error) {
	req := input.Requirements

	var allSkills []string
	for _, skills := range req.Skills {
		allSkills = append(allSkills, skills...)
	}
	skillsText := "General technical skills"
	if len(allSkills) > 0 {
		skillsText = strings.Join(allSkills, ", ")
	}

	sectionsJSON, err := json.MarshalIndent(req.Sections, "", "  ")
	if err != nil {
		return "", "", apperrors.NewAIError(apperrors.ErrCodeAIServiceFailed, "Failed to encode job sections for prompt", err)
	}

	systemPrompt := resolvePrompt(g.config.CustomPrompts.SystemPrompts.GenerateInterview, DefaultSystemPrompts.GenerateInterview)
	userPrompt := resolvePrompt(g.config.CustomPrompts.UserPrompts.GenerateInterview, DefaultUserPrompts.GenerateInterview)

	return systemPrompt, fmt.Sprintf(userPrompt, skillsText, req.Experience, req.Education, sectionsJSON), nil
}

// promptRequirements strips the original job text from the requirements
// before embedding them in a prompt; the structured fields carry everything
// the model needs without blowing up the token count.
func promptRequirements(req types.RequirementProfile) types.RequirementProfile {
	req.OriginalText = ""
	return req
}

// applyProfileBasics overwrites model-produced identity fields with data
// from the fetched profile
func applyProfileBasics(output *types.GenerateResumeOutput, profile types.DeveloperProfile) {
	output.Basics.Name = profile.Name
	output.Basics.Email = profile.Email
	output.Basics.Location = profile.Location
	if profile.Blog != "" {
		output.Basics.Website = profile.Blog
	} else if profile.Username != "" {
		output.Basics.Website = "github.com/" + profile.Username
	}
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	stats := map[string]any{
		"ai_operations":    g.contentBreaker.Stats(),
		"model_operations": g.modelBreaker.Stats(),
	}
	stats["overall_healthy"] = g.contentBreaker.IsHealthy() && g.modelBreaker.IsHealthy()
	return stats
}

// Close implements AIProvider interface
func (g *GeminiProvider) Close() error {
	// Gemini client doesn't have a Close method in current single-shot usage
	return nil
}

// buildResumeSchema creates the response schema for resume generation
func (g *GeminiProvider) buildResumeSchema() *genai.GenerateContentConfig {
	genaiConfig := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"basics": {
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":     {Type: genai.TypeString},
						"label":    {Type: genai.TypeString},
						"email":    {Type: genai.TypeString},
						"location": {Type: genai.TypeString},
						"website":  {Type: genai.TypeString},
					},
					Required: []string{"name", "label"},
				},
				"summary": {Type: genai.TypeString},
				"skills": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"category": {Type: genai.TypeString},
							"items": {
								Type:  genai.TypeArray,
								Items: &genai.Schema{Type: genai.TypeString},
							},
						},
						Required: []string{"category", "items"},
					},
				},
				"projects": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"name":        {Type: genai.TypeString},
							"description": {Type: genai.TypeString},
							"highlights": {
								Type:  genai.TypeArray,
								Items: &genai.Schema{Type: genai.TypeString},
							},
							"keywords": {
								Type:  genai.TypeArray,
								Items: &genai.Schema{Type: genai.TypeString},
							},
							"url": {Type: genai.TypeString},
						},
						Required: []string{"name", "description"},
					},
				},
			},
			Required: []string{"basics", "summary", "skills", "projects"},
		},
	}

	if *g.config.Temperature > 0 {
		genaiConfig.Temperature = g.config.Temperature
	}

	return genaiConfig
}

// buildInterviewSchema creates the response schema for interview preparation
func (g *GeminiProvider) buildInterviewSchema() *genai.GenerateContentConfig {
	questionSchema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"question": {Type: genai.TypeString},
			"context":  {Type: genai.TypeString},
		},
		Required: []string{"question", "context"},
	}

	genaiConfig := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"tips": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"technicalQuestions":   {Type: genai.TypeArray, Items: questionSchema},
				"behavioralQuestions":  {Type: genai.TypeArray, Items: questionSchema},
				"situationalQuestions": {Type: genai.TypeArray, Items: questionSchema},
				"winningStrategy":      {Type: genai.TypeString},
			},
			Required: []string{"tips", "technicalQuestions", "behavioralQuestions", "situationalQuestions", "winningStrategy"},
		},
	}

	if *g.config.Temperature > 0 {
		genaiConfig.Temperature = g.config.Temperature
	}

	return genaiConfig
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// extractTokenUsage extracts token usage information from a Gemini API response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}
