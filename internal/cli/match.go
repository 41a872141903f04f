package cli

import (
	"fmt"

	"llmployable/internal/analyzer"
	"llmployable/internal/common"
	"llmployable/internal/portfolio"
	"llmployable/internal/types"

	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match [github-username] [job-description-file]",
	Short: "Rank a developer's repositories against a job description",
	Long: `Match a developer's GitHub portfolio against a job description.
The job description is analyzed for requirements, the developer's public
repositories are fetched from GitHub, and each repository is scored and
ranked by relevance to the extracted requirements.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if matchConfig.OutputFormat == "" {
			matchConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(matchConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runMatch,
}

var matchConfig common.CommandConfig
var matchLimit int

func init() {
	matchCmd.Flags().StringVarP(&matchConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	matchCmd.Flags().StringVar(&matchConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	matchCmd.Flags().IntVar(&matchLimit, "limit", 0, "Maximum number of ranked repositories (default from config)")

	_ = matchCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runMatch(cmd *cobra.Command, args []string) error {
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

	limit := matchLimit
	if limit <= 0 {
		limit = cfg.App.DefaultMatchLimit
	}

	logger.Info("Starting portfolio matching",
		"username", username,
		"job_chars", len(jobText),
		"limit", limit,
		"output_format", matchConfig.OutputFormat)

	requirements := extractor.Extract(jobText)

	client := portfolio.NewGitHubClient(&cfg.GitHub, logger)
	profile, err := client.FetchProfile(cmd.Context(), username)
	if err != nil {
		return fmt.Errorf("failed to fetch GitHub profile for %s: %w", username, err)
	}

	result := types.MatchOutput{
		Username:     username,
		Requirements: requirements,
		Items:        analyzer.Rank(profile.Repositories, requirements.Skills, limit),
	}

	outputHandler := common.NewOutputHandler(logger)
	if err := outputHandler.HandleOutput(result, matchConfig); err != nil {
		return err
	}
	logger.Info("Portfolio matching completed successfully", "items", len(result.Items))
	return nil
}
