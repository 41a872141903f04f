package ai

import (
	"context"

	"llmployable/internal/types"
)

// AIProvider interface for different AI implementations.
// All methods return token usage information - callers can ignore it if not needed.
type AIProvider interface {
	GenerateResume(ctx context.Context, input types.GenerateResumeInput) (types.GenerateResumeOutput, *TokenUsage, error)
	GenerateInterviewPrep(ctx context.Context, input types.GenerateInterviewInput) (types.GenerateInterviewOutput, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}
