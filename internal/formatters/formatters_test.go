package formatters

import (
	"encoding/json"
	"strings"
	"testing"

	"llmployable/internal/types"
)

func sampleRequirements() types.RequirementProfile {
	return types.RequirementProfile{
		Skills: map[string][]string{
			"languages": {"go", "python"},
		},
		Experience: "5+ years of experience",
		Education:  "Bachelor's degree",
		Sections: map[string]string{
			"Responsibilities": "Build and operate backend services.",
		},
		Keywords: []string{"go", "kubernetes", "grpc"},
	}
}

func sampleMatch() types.MatchOutput {
	return types.MatchOutput{
		Username: "octocat",
		Items: []types.RankedItem{
			{
				PortfolioItem: types.PortfolioItem{
					Name:        "api-server",
					Description: "A Go API server",
					Language:    "Go",
					Stars:       42,
					URL:         "https://github.com/octocat/api-server",
				},
				RelevanceScore: 17,
				Rank:           1,
			},
		},
	}
}

func sampleResume() types.GenerateResumeOutput {
	return types.GenerateResumeOutput{
		Basics: types.ResumeBasics{
			Name:     "The Octocat",
			Label:    "Software Engineer",
			Email:    "octocat@example.com",
			Location: "San Francisco",
			Website:  "github.com/octocat",
		},
		Summary: "Backend engineer with a focus on Go services.",
		Skills: []types.SkillGroup{
			{Category: "Technical Skills", Items: []string{"Go", "Python"}},
		},
		Projects: []types.ResumeProject{
			{
				Name:        "api-server",
				Description: "A Go API server",
				Highlights:  []string{"Handles 1k rps"},
				Keywords:    []string{"Go", "api"},
				URL:         "https://github.com/octocat/api-server",
			},
		},
	}
}

func sampleInterview() types.GenerateInterviewOutput {
	return types.GenerateInterviewOutput{
		Tips: []string{"Research the company."},
		TechnicalQuestions: []types.InterviewQuestion{
			{Question: "Describe a project you are proud of.", Context: "Pick something with measurable impact."},
		},
		BehavioralQuestions: []types.InterviewQuestion{
			{Question: "Tell me about a conflict on your team.", Context: "Use the STAR method."},
		},
		SituationalQuestions: []types.InterviewQuestion{
			{Question: "Production is down. What do you do first?"},
		},
		WinningStrategy: "Connect your portfolio work to the role's requirements.",
	}
}

func TestJSONFormatterRoundTrip(t *testing.T) {
	output, err := GlobalRegistry.Format(sampleRequirements(), "json")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var decoded types.RequirementProfile
	if err := json.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if decoded.Experience != "5+ years of experience" {
		t.Errorf("Unexpected decoded experience: %q", decoded.Experience)
	}
}

func TestJSONFallbackForUnknownType(t *testing.T) {
	output, err := GlobalRegistry.Format(map[string]int{"count": 3}, "json")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.Contains(output, `"count": 3`) {
		t.Errorf("Expected generic JSON output, got %q", output)
	}
}

func TestUnknownFormat(t *testing.T) {
	if _, err := GlobalRegistry.Format(sampleRequirements(), "yaml"); err == nil {
		t.Error("Expected error for unregistered format")
	}
}

func TestRequirementsFormatting(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		expected []string
	}{
		{
			name:   "text",
			format: "text",
			expected: []string{
				"=== JOB REQUIREMENTS ===",
				"languages: go, python",
				"Experience: 5+ years of experience",
				"Responsibilities:",
				"Keywords: go, kubernetes, grpc",
			},
		},
		{
			name:   "markdown",
			format: "markdown",
			expected: []string{
				"# Job Requirements",
				"- **languages:** go, python",
				"**Experience:** 5+ years of experience",
				"### Responsibilities",
				"## Keywords",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := GlobalRegistry.Format(sampleRequirements(), tt.format)
			if err != nil {
				t.Fatalf("Format failed: %v", err)
			}
			for _, want := range tt.expected {
				if !strings.Contains(output, want) {
					t.Errorf("Expected output to contain %q, got:\n%s", want, output)
				}
			}
		})
	}
}

func TestMatchFormatting(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		expected []string
	}{
		{
			name:   "text",
			format: "text",
			expected: []string{
				"=== RANKED REPOSITORIES FOR octocat ===",
				"1. api-server (score 17, 42 stars)",
				"Language: Go",
				"https://github.com/octocat/api-server",
			},
		},
		{
			name:   "markdown",
			format: "markdown",
			expected: []string{
				"# Ranked Repositories for octocat",
				"| Rank | Repository | Score | Stars | Language |",
				"| 1 | [api-server](https://github.com/octocat/api-server) | 17 | 42 | Go |",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := GlobalRegistry.Format(sampleMatch(), tt.format)
			if err != nil {
				t.Fatalf("Format failed: %v", err)
			}
			for _, want := range tt.expected {
				if !strings.Contains(output, want) {
					t.Errorf("Expected output to contain %q, got:\n%s", want, output)
				}
			}
		})
	}
}

func TestMatchFormattingEmpty(t *testing.T) {
	output, err := GlobalRegistry.Format(types.MatchOutput{Username: "octocat"}, "text")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.Contains(output, "No repositories to rank.") {
		t.Errorf("Expected empty-result message, got:\n%s", output)
	}
}

func TestResumeFormatting(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		expected []string
	}{
		{
			name:   "text",
			format: "text",
			expected: []string{
				"=== RESUME ===",
				"The Octocat - Software Engineer",
				"=== SUMMARY ===",
				"Technical Skills: Go, Python",
				"=== PROJECTS ===",
				"- Handles 1k rps",
				"Keywords: Go, api",
			},
		},
		{
			name:   "markdown",
			format: "markdown",
			expected: []string{
				"# The Octocat",
				"**Software Engineer**",
				"octocat@example.com | San Francisco | github.com/octocat",
				"- **Technical Skills:** Go, Python",
				"### [api-server](https://github.com/octocat/api-server)",
				"*Go, api*",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := GlobalRegistry.Format(sampleResume(), tt.format)
			if err != nil {
				t.Fatalf("Format failed: %v", err)
			}
			for _, want := range tt.expected {
				if !strings.Contains(output, want) {
					t.Errorf("Expected output to contain %q, got:\n%s", want, output)
				}
			}
		})
	}
}

func TestInterviewFormatting(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		expected []string
	}{
		{
			name:   "text",
			format: "text",
			expected: []string{
				"=== INTERVIEW PREPARATION ===",
				"- Research the company.",
				"=== TECHNICAL QUESTIONS ===",
				"1. Describe a project you are proud of.",
				"Context: Pick something with measurable impact.",
				"=== WINNING STRATEGY ===",
			},
		},
		{
			name:   "markdown",
			format: "markdown",
			expected: []string{
				"# Interview Preparation",
				"## Technical Questions",
				"## Behavioral Questions",
				"## Situational Questions",
				"- *Use the STAR method.*",
				"## Winning Strategy",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := GlobalRegistry.Format(sampleInterview(), tt.format)
			if err != nil {
				t.Fatalf("Format failed: %v", err)
			}
			for _, want := range tt.expected {
				if !strings.Contains(output, want) {
					t.Errorf("Expected output to contain %q, got:\n%s", want, output)
				}
			}
		})
	}
}

func TestRequirementsFormattingStableOrder(t *testing.T) {
	requirements := types.RequirementProfile{
		Skills: map[string][]string{
			"tools":     {"docker"},
			"languages": {"go"},
			"cloud":     {"aws"},
		},
		Sections: map[string]string{
			"Responsibilities": "Build services.",
			"Benefits":         "Remote friendly.",
			"About":            "Small team.",
		},
	}

	for _, format := range []string{"text", "markdown"} {
		t.Run(format, func(t *testing.T) {
			first, err := GlobalRegistry.Format(requirements, format)
			if err != nil {
				t.Fatalf("Format failed: %v", err)
			}

			inOrder := func(output string, parts []string) bool {
				pos := -1
				for _, part := range parts {
					next := strings.Index(output, part)
					if next <= pos {
						return false
					}
					pos = next
				}
				return true
			}
			if !inOrder(first, []string{"cloud", "languages", "tools"}) {
				t.Errorf("Expected skill categories in sorted order, got:\n%s", first)
			}
			if !inOrder(first, []string{"About", "Benefits", "Responsibilities"}) {
				t.Errorf("Expected sections in sorted order, got:\n%s", first)
			}

			for i := 0; i < 10; i++ {
				output, err := GlobalRegistry.Format(requirements, format)
				if err != nil {
					t.Fatalf("Format failed: %v", err)
				}
				if output != first {
					t.Fatalf("Expected identical output across runs, got:\n%s\nvs:\n%s", output, first)
				}
			}
		})
	}
}

func TestGetSupportedFormats(t *testing.T) {
	formats := GlobalRegistry.GetSupportedFormats()
	if len(formats) != 3 {
		t.Errorf("Expected 3 supported formats, got %v", formats)
	}
	for _, want := range []string{"json", "text", "markdown"} {
		found := false
		for _, f := range formats {
			if f == want {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected %q in supported formats %v", want, formats)
		}
	}
}
