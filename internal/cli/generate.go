package cli

import (
	"fmt"

	"llmployable/internal/ai"
	"llmployable/internal/common"
	"llmployable/internal/portfolio"
	"llmployable/internal/types"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate [github-username] [job-description-file]",
	Short: "Generate tailored resume content for a job description",
	Long: `Generate resume content tailored to a specific job description,
built from the developer's GitHub portfolio. With an AI API key configured
the content is produced by the AI provider; without one a deterministic
basic generator assembles it from the portfolio data.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if generateConfig.OutputFormat == "" {
			generateConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(generateConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runGenerate,
}

var generateConfig common.CommandConfig

func init() {
	generateCmd.Flags().StringVarP(&generateConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	generateCmd.Flags().StringVar(&generateConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = generateCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	username := args[0]
	if err := common.ValidateGitHubUsername(username); err != nil {
		return err
	}

	fileProcessor := common.NewFileProcessor(logger)
	contents, err := fileProcessor.ValidateAndReadFiles(args[1])
	if err != nil {
		return err
	}
	jobText := contents[0]
	if err := common.ValidateJobDescription(jobText,
		cfg.App.MinJobDescriptionLength, cfg.App.MaxJobDescriptionLength); err != nil {
		return err
	}

	extractor, err := buildExtractor(cfg)
	if err != nil {
		return err
	}

	resumeConfig := cfg.GetResumeConfig()
	aiService, err := ai.NewService(&resumeConfig, "Resume", logger, nil)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}
	defer func() {
		if err := aiService.Close(); err != nil {
			logger.Warn("Failed to close AI service", "error", err)
		}
	}()

	logger.Info("Starting resume generation",
		"username", username,
		"job_chars", len(jobText),
		"output_format", generateConfig.OutputFormat)

	requirements := extractor.Extract(jobText)

	client := portfolio.NewGitHubClient(&cfg.GitHub, logger)
	profile, err := client.FetchProfile(cmd.Context(), username)
	if err != nil {
		return fmt.Errorf("failed to fetch GitHub profile for %s: %w", username, err)
	}

	input := types.GenerateResumeInput{
		Profile:      profile,
		Requirements: requirements,
	}

	result, tokenUsage, fromFallback, err := aiService.GenerateResume(cmd.Context(), input)
	if err != nil {
		return fmt.Errorf("failed to generate resume content: %w", err)
	}

	if fromFallback {
		logger.Info("Resume content produced by the basic generator")
	}
	if tokenUsage != nil {
		logger.Info("AI token usage",
			"input_tokens", tokenUsage.InputTokens,
			"output_tokens", tokenUsage.OutputTokens,
			"total_tokens", tokenUsage.TotalTokens)
	}

	outputHandler := common.NewOutputHandler(logger)
	if err := outputHandler.HandleOutput(result, generateConfig); err != nil {
		return err
	}
	logger.Info("Resume generation completed successfully")
	return nil
}
