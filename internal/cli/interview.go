package cli

import (
	"context"
	"fmt"

	"llmployable/internal/ai"
	"llmployable/internal/common"
	"llmployable/internal/types"

	"github.com/spf13/cobra"
)

var interviewCmd = &cobra.Command{
	Use:   "interview [job-description-file]",
	Short: "Generate interview preparation for a job description",
	Long: `Generate interview preparation material for a specific job description:
preparation tips plus technical, behavioral, and situational questions with
context, and a winning strategy summary. With an AI API key configured the
material is produced by the AI provider; without one a deterministic basic
generator assembles it from the extracted requirements.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if interviewConfig.OutputFormat == "" {
			interviewConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(interviewConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runInterview,
}

var interviewConfig common.CommandConfig

func init() {
	interviewCmd.Flags().StringVarP(&interviewConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	interviewCmd.Flags().StringVar(&interviewConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = interviewCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runInterview(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	extractor, err := buildExtractor(cfg)
	if err != nil {
		return err
	}

	interviewAIConfig := cfg.GetInterviewConfig()
	aiService, err := ai.NewService(&interviewAIConfig, "Interview", logger, nil)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}
	defer func() {
		if err := aiService.Close(); err != nil {
			logger.Warn("Failed to close AI service", "error", err)
		}
	}()

	createInput := func(contents []string) (types.GenerateInterviewInput, error) {
		if len(contents) != 1 {
			return types.GenerateInterviewInput{}, fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		if err := common.ValidateJobDescription(contents[0],
			cfg.App.MinJobDescriptionLength, cfg.App.MaxJobDescriptionLength); err != nil {
			return types.GenerateInterviewInput{}, err
		}
		return types.GenerateInterviewInput{
			Requirements: extractor.Extract(contents[0]),
		}, nil
	}

	logDetails := func(input types.GenerateInterviewInput, cmdCfg common.CommandConfig) {
		logger.Info("Starting interview preparation",
			"skill_categories", len(input.Requirements.Skills),
			"output_format", cmdCfg.OutputFormat)
	}

	interviewOperation := func(ctx context.Context, input types.GenerateInterviewInput) (types.GenerateInterviewOutput, *ai.TokenUsage, error) {
		output, tokenUsage, fromFallback, err := aiService.GenerateInterviewPrep(ctx, input)
		if err != nil {
			return types.GenerateInterviewOutput{}, nil, err
		}
		if fromFallback {
			logger.Info("Interview preparation produced by the basic generator")
		}
		return output, tokenUsage, nil
	}

	err = common.RunFileCommand(
		cmd.Context(),
		logger,
		interviewConfig,
		args,
		createInput,
		interviewOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to generate interview preparation: %w", err)
	}
	logger.Info("Interview preparation completed successfully")
	return nil
}
