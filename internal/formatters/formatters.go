package formatters

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"llmployable/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "RequirementProfile", &RequirementsTextFormatter{})
	registry.RegisterFormatter("markdown", "RequirementProfile", &RequirementsMarkdownFormatter{})
	registry.RegisterFormatter("text", "MatchOutput", &MatchTextFormatter{})
	registry.RegisterFormatter("markdown", "MatchOutput", &MatchMarkdownFormatter{})
	registry.RegisterFormatter("text", "GenerateResumeOutput", &ResumeTextFormatter{})
	registry.RegisterFormatter("markdown", "GenerateResumeOutput", &ResumeMarkdownFormatter{})
	registry.RegisterFormatter("text", "GenerateInterviewOutput", &InterviewTextFormatter{})
	registry.RegisterFormatter("markdown", "GenerateInterviewOutput", &InterviewMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.RequirementProfile:
		return "RequirementProfile"
	case types.MatchOutput:
		return "MatchOutput"
	case types.GenerateResumeOutput:
		return "GenerateResumeOutput"
	case types.GenerateInterviewOutput:
		return "GenerateInterviewOutput"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// sortedKeys returns the map's keys in ascending order so map-backed
// sections render identically run to run
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// writeSkills renders skills grouped by category as indented lists
func writeSkills(output *strings.Builder, skills map[string][]string, bullet string) {
	for _, category := range sortedKeys(skills) {
		output.WriteString(fmt.Sprintf("%s%s: %s\n", bullet, category, strings.Join(skills[category], ", ")))
	}
}

// RequirementsTextFormatter handles text formatting for job analysis results
type RequirementsTextFormatter struct{}

func (rtf *RequirementsTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.RequirementProfile)
	if !ok {
		return "", fmt.Errorf("expected RequirementProfile, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== JOB REQUIREMENTS ===\n\n")

	output.WriteString("Skills:\n")
	if len(result.Skills) > 0 {
		writeSkills(&output, result.Skills, "- ")
	} else {
		output.WriteString("None detected.\n")
	}
	output.WriteString("\n")

	output.WriteString(fmt.Sprintf("Experience: %s\n", result.Experience))
	output.WriteString(fmt.Sprintf("Education: %s\n\n", result.Education))

	if len(result.Sections) > 0 {
		output.WriteString("=== SECTIONS ===\n\n")
		for _, name := range sortedKeys(result.Sections) {
			output.WriteString(fmt.Sprintf("%s:\n%s\n\n", name, result.Sections[name]))
		}
	}

	if len(result.Keywords) > 0 {
		output.WriteString("Keywords: ")
		output.WriteString(strings.Join(result.Keywords, ", "))
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (rtf *RequirementsTextFormatter) SupportedType() string {
	return "RequirementProfile"
}

// RequirementsMarkdownFormatter handles markdown formatting for job analysis results
type RequirementsMarkdownFormatter struct{}

func (rmf *RequirementsMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.RequirementProfile)
	if !ok {
		return "", fmt.Errorf("expected RequirementProfile, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Job Requirements\n\n")

	output.WriteString("## Skills\n\n")
	if len(result.Skills) > 0 {
		for _, category := range sortedKeys(result.Skills) {
			output.WriteString(fmt.Sprintf("- **%s:** %s\n", category, strings.Join(result.Skills[category], ", ")))
		}
	} else {
		output.WriteString("None detected.\n")
	}
	output.WriteString("\n")

	output.WriteString(fmt.Sprintf("**Experience:** %s\n\n", result.Experience))
	output.WriteString(fmt.Sprintf("**Education:** %s\n\n", result.Education))

	if len(result.Sections) > 0 {
		output.WriteString("## Sections\n\n")
		for _, name := range sortedKeys(result.Sections) {
			output.WriteString(fmt.Sprintf("### %s\n\n%s\n\n", name, result.Sections[name]))
		}
	}

	if len(result.Keywords) > 0 {
		output.WriteString("## Keywords\n\n")
		output.WriteString(strings.Join(result.Keywords, ", "))
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (rmf *RequirementsMarkdownFormatter) SupportedType() string {
	return "RequirementProfile"
}

// MatchTextFormatter handles text formatting for match results
type MatchTextFormatter struct{}

func (mtf *MatchTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.MatchOutput)
	if !ok {
		return "", fmt.Errorf("expected MatchOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString(fmt.Sprintf("=== RANKED REPOSITORIES FOR %s ===\n\n", result.Username))

	if len(result.Items) == 0 {
		output.WriteString("No repositories to rank.\n")
		return output.String(), nil
	}

	for _, item := range result.Items {
		output.WriteString(fmt.Sprintf("%d. %s (score %d, %d stars)\n", item.Rank, item.Name, item.RelevanceScore, item.Stars))
		if item.Language != "" {
			output.WriteString(fmt.Sprintf("   Language: %s\n", item.Language))
		}
		if item.Description != "" {
			output.WriteString(fmt.Sprintf("   %s\n", item.Description))
		}
		if item.URL != "" {
			output.WriteString(fmt.Sprintf("   %s\n", item.URL))
		}
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (mtf *MatchTextFormatter) SupportedType() string {
	return "MatchOutput"
}

// MatchMarkdownFormatter handles markdown formatting for match results
type MatchMarkdownFormatter struct{}

func (mmf *MatchMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.MatchOutput)
	if !ok {
		return "", fmt.Errorf("expected MatchOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString(fmt.Sprintf("# Ranked Repositories for %s\n\n", result.Username))

	if len(result.Items) == 0 {
		output.WriteString("No repositories to rank.\n")
		return output.String(), nil
	}

	output.WriteString("| Rank | Repository | Score | Stars | Language |\n")
	output.WriteString("|------|------------|-------|-------|----------|\n")
	for _, item := range result.Items {
		name := item.Name
		if item.URL != "" {
			name = fmt.Sprintf("[%s](%s)", item.Name, item.URL)
		}
		output.WriteString(fmt.Sprintf("| %d | %s | %d | %d | %s |\n",
			item.Rank, name, item.RelevanceScore, item.Stars, item.Language))
	}

	return output.String(), nil
}

func (mmf *MatchMarkdownFormatter) SupportedType() string {
	return "MatchOutput"
}

// ResumeTextFormatter handles text formatting for generated resume content
type ResumeTextFormatter struct{}

func (rtf *ResumeTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.GenerateResumeOutput)
	if !ok {
		return "", fmt.Errorf("expected GenerateResumeOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== RESUME ===\n\n")
	output.WriteString(result.Basics.Name)
	if result.Basics.Label != "" {
		output.WriteString(" - " + result.Basics.Label)
	}
	output.WriteString("\n")
	for _, line := range []string{result.Basics.Email, result.Basics.Location, result.Basics.Website} {
		if line != "" {
			output.WriteString(line + "\n")
		}
	}
	output.WriteString("\n")

	if result.Summary != "" {
		output.WriteString("=== SUMMARY ===\n")
		output.WriteString(result.Summary)
		output.WriteString("\n\n")
	}

	if len(result.Skills) > 0 {
		output.WriteString("=== SKILLS ===\n")
		for _, group := range result.Skills {
			output.WriteString(fmt.Sprintf("%s: %s\n", group.Category, strings.Join(group.Items, ", ")))
		}
		output.WriteString("\n")
	}

	if len(result.Projects) > 0 {
		output.WriteString("=== PROJECTS ===\n\n")
		for _, project := range result.Projects {
			output.WriteString(project.Name + "\n")
			if project.Description != "" {
				output.WriteString(project.Description + "\n")
			}
			for _, highlight := range project.Highlights {
				output.WriteString(fmt.Sprintf("- %s\n", highlight))
			}
			if len(project.Keywords) > 0 {
				output.WriteString("Keywords: " + strings.Join(project.Keywords, ", ") + "\n")
			}
			if project.URL != "" {
				output.WriteString(project.URL + "\n")
			}
			output.WriteString("\n")
		}
	}

	return output.String(), nil
}

func (rtf *ResumeTextFormatter) SupportedType() string {
	return "GenerateResumeOutput"
}

// ResumeMarkdownFormatter handles markdown formatting for generated resume content
type ResumeMarkdownFormatter struct{}

func (rmf *ResumeMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.GenerateResumeOutput)
	if !ok {
		return "", fmt.Errorf("expected GenerateResumeOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString(fmt.Sprintf("# %s\n\n", result.Basics.Name))
	if result.Basics.Label != "" {
		output.WriteString(fmt.Sprintf("**%s**\n\n", result.Basics.Label))
	}
	var contact []string
	for _, line := range []string{result.Basics.Email, result.Basics.Location, result.Basics.Website} {
		if line != "" {
			contact = append(contact, line)
		}
	}
	if len(contact) > 0 {
		output.WriteString(strings.Join(contact, " | "))
		output.WriteString("\n\n")
	}

	if result.Summary != "" {
		output.WriteString("## Summary\n\n")
		output.WriteString(result.Summary)
		output.WriteString("\n\n")
	}

	if len(result.Skills) > 0 {
		output.WriteString("## Skills\n\n")
		for _, group := range result.Skills {
			output.WriteString(fmt.Sprintf("- **%s:** %s\n", group.Category, strings.Join(group.Items, ", ")))
		}
		output.WriteString("\n")
	}

	if len(result.Projects) > 0 {
		output.WriteString("## Projects\n\n")
		for _, project := range result.Projects {
			if project.URL != "" {
				output.WriteString(fmt.Sprintf("### [%s](%s)\n\n", project.Name, project.URL))
			} else {
				output.WriteString(fmt.Sprintf("### %s\n\n", project.Name))
			}
			if project.Description != "" {
				output.WriteString(project.Description + "\n\n")
			}
			for _, highlight := range project.Highlights {
				output.WriteString(fmt.Sprintf("- %s\n", highlight))
			}
			if len(project.Highlights) > 0 {
				output.WriteString("\n")
			}
			if len(project.Keywords) > 0 {
				output.WriteString("*" + strings.Join(project.Keywords, ", ") + "*\n\n")
			}
		}
	}

	return output.String(), nil
}

func (rmf *ResumeMarkdownFormatter) SupportedType() string {
	return "GenerateResumeOutput"
}

// writeQuestionsText renders a question list with context notes
func writeQuestionsText(output *strings.Builder, questions []types.InterviewQuestion) {
	for i, q := range questions {
		output.WriteString(fmt.Sprintf("%d. %s\n", i+1, q.Question))
		if q.Context != "" {
			output.WriteString(fmt.Sprintf("   Context: %s\n", q.Context))
		}
	}
	output.WriteString("\n")
}

// InterviewTextFormatter handles text formatting for interview preparation
type InterviewTextFormatter struct{}

func (itf *InterviewTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.GenerateInterviewOutput)
	if !ok {
		return "", fmt.Errorf("expected GenerateInterviewOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== INTERVIEW PREPARATION ===\n\n")

	if len(result.Tips) > 0 {
		output.WriteString("Tips:\n")
		for _, tip := range result.Tips {
			output.WriteString(fmt.Sprintf("- %s\n", tip))
		}
		output.WriteString("\n")
	}

	if len(result.TechnicalQuestions) > 0 {
		output.WriteString("=== TECHNICAL QUESTIONS ===\n")
		writeQuestionsText(&output, result.TechnicalQuestions)
	}
	if len(result.BehavioralQuestions) > 0 {
		output.WriteString("=== BEHAVIORAL QUESTIONS ===\n")
		writeQuestionsText(&output, result.BehavioralQuestions)
	}
	if len(result.SituationalQuestions) > 0 {
		output.WriteString("=== SITUATIONAL QUESTIONS ===\n")
		writeQuestionsText(&output, result.SituationalQuestions)
	}

	if result.WinningStrategy != "" {
		output.WriteString("=== WINNING STRATEGY ===\n")
		output.WriteString(result.WinningStrategy)
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (itf *InterviewTextFormatter) SupportedType() string {
	return "GenerateInterviewOutput"
}

// writeQuestionsMarkdown renders a question list with context notes
func writeQuestionsMarkdown(output *strings.Builder, questions []types.InterviewQuestion) {
	for i, q := range questions {
		output.WriteString(fmt.Sprintf("%d. %s\n", i+1, q.Question))
		if q.Context != "" {
			output.WriteString(fmt.Sprintf("   - *%s*\n", q.Context))
		}
	}
	output.WriteString("\n")
}

// InterviewMarkdownFormatter handles markdown formatting for interview preparation
type InterviewMarkdownFormatter struct{}

func (imf *InterviewMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.GenerateInterviewOutput)
	if !ok {
		return "", fmt.Errorf("expected GenerateInterviewOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Interview Preparation\n\n")

	if len(result.Tips) > 0 {
		output.WriteString("## Tips\n\n")
		for _, tip := range result.Tips {
			output.WriteString(fmt.Sprintf("- %s\n", tip))
		}
		output.WriteString("\n")
	}

	if len(result.TechnicalQuestions) > 0 {
		output.WriteString("## Technical Questions\n\n")
		writeQuestionsMarkdown(&output, result.TechnicalQuestions)
	}
	if len(result.BehavioralQuestions) > 0 {
		output.WriteString("## Behavioral Questions\n\n")
		writeQuestionsMarkdown(&output, result.BehavioralQuestions)
	}
	if len(result.SituationalQuestions) > 0 {
		output.WriteString("## Situational Questions\n\n")
		writeQuestionsMarkdown(&output, result.SituationalQuestions)
	}

	if result.WinningStrategy != "" {
		output.WriteString("## Winning Strategy\n\n")
		output.WriteString(result.WinningStrategy)
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (imf *InterviewMarkdownFormatter) SupportedType() string {
	return "GenerateInterviewOutput"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
