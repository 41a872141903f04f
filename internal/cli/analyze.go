package cli

import (
	"context"
	"fmt"

	"llmployable/internal/ai"
	"llmployable/internal/analyzer"
	"llmployable/internal/common"
	"llmployable/internal/config"
	"llmployable/internal/types"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [job-description-file]",
	Short: "Extract structured requirements from a job description",
	Long: `Analyze a job description and extract a structured requirement profile:
skills grouped by taxonomy category, the experience and education requirements,
named sections such as responsibilities and benefits, and ranked keywords.

The extraction is deterministic and runs entirely offline.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if analyzeConfig.OutputFormat == "" {
			analyzeConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(analyzeConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runAnalyze,
}

var analyzeConfig common.CommandConfig

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	// Add completion for format flag
	_ = analyzeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	extractor, err := buildExtractor(cfg)
	if err != nil {
		return err
	}

	createInput := func(contents []string) (string, error) {
		if len(contents) != 1 {
			return "", fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		if err := common.ValidateJobDescription(contents[0],
			cfg.App.MinJobDescriptionLength, cfg.App.MaxJobDescriptionLength); err != nil {
			return "", err
		}
		return contents[0], nil
	}

	logDetails := func(input string, cmdCfg common.CommandConfig) {
		logger.Info("Starting job description analysis",
			"job_chars", len(input),
			"output_format", cmdCfg.OutputFormat)
	}

	analyzeOperation := func(ctx context.Context, jobText string) (types.RequirementProfile, *ai.TokenUsage, error) {
		return extractor.Extract(jobText), nil, nil
	}

	err = common.RunFileCommand(
		cmd.Context(),
		logger,
		analyzeConfig,
		args,
		createInput,
		analyzeOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to analyze job description: %w", err)
	}
	logger.Info("Job description analysis completed successfully")
	return nil
}

// buildExtractor loads the configured taxonomy and builds an extractor for it
func buildExtractor(cfg *config.Config) (*analyzer.Extractor, error) {
	tax, err := config.LoadTaxonomy(cfg.Taxonomy)
	if err != nil {
		return nil, fmt.Errorf("failed to load taxonomy: %w", err)
	}
	return analyzer.NewExtractor(tax), nil
}
