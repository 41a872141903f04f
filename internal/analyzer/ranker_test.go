package analyzer

import (
	"testing"

	"llmployable/internal/types"
)

func rankerSkills() map[string][]string {
	return map[string][]string{
		"languages":  {"python", "go"},
		"frameworks": {"react"},
		"cloud":      {"docker"},
	}
}

func TestRankScoring(t *testing.T) {
	tests := []struct {
		name          string
		item          types.PortfolioItem
		expectedScore int
	}{
		{
			name:          "language match",
			item:          types.PortfolioItem{Name: "svc", Language: "Go"},
			expectedScore: scoreLanguageMatch,
		},
		{
			name:          "topic match",
			item:          types.PortfolioItem{Name: "svc", Topics: []string{"docker"}},
			expectedScore: scoreTopicMatch,
		},
		{
			name:          "each topic scored independently",
			item:          types.PortfolioItem{Name: "svc", Topics: []string{"docker", "react"}},
			expectedScore: 2 * scoreTopicMatch,
		},
		{
			name:          "substring in name",
			item:          types.PortfolioItem{Name: "react-dashboard"},
			expectedScore: scoreSubstringMatch,
		},
		{
			name:          "substring in description",
			item:          types.PortfolioItem{Name: "svc", Description: "A python toolkit"},
			expectedScore: scoreSubstringMatch,
		},
		{
			name: "all signals accumulate",
			item: types.PortfolioItem{
				Name:        "go-react-starter",
				Description: "python bindings included",
				Language:    "Go",
				Topics:      []string{"docker"},
			},
			// language +5, topic +3, substrings go/react/python +3
			expectedScore: scoreLanguageMatch + scoreTopicMatch + 3*scoreSubstringMatch,
		},
		{
			name:          "language match is case insensitive",
			item:          types.PortfolioItem{Name: "svc", Language: "PYTHON"},
			expectedScore: scoreLanguageMatch,
		},
		{
			name:          "unrelated item scores zero",
			item:          types.PortfolioItem{Name: "dotfiles", Description: "my shell setup", Language: "Shell"},
			expectedScore: 0,
		},
		{
			name:          "empty fields tolerated",
			item:          types.PortfolioItem{},
			expectedScore: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked := Rank([]types.PortfolioItem{tt.item}, rankerSkills(), 10)
			if len(ranked) != 1 {
				t.Fatalf("Expected 1 ranked item, got %d", len(ranked))
			}
			if ranked[0].RelevanceScore != tt.expectedScore {
				t.Errorf("Expected score %d, got %d", tt.expectedScore, ranked[0].RelevanceScore)
			}
		})
	}
}

func TestRankOrdering(t *testing.T) {
	items := []types.PortfolioItem{
		{Name: "zero", Stars: 100},
		{Name: "api", Language: "Go", Stars: 1},
		{Name: "popular-match", Language: "Go", Stars: 50},
		{Name: "tied-a", Description: "python", Stars: 10},
		{Name: "tied-b", Description: "python", Stars: 10},
	}

	ranked := Rank(items, rankerSkills(), 10)

	expected := []string{"popular-match", "api", "tied-a", "tied-b", "zero"}
	for i, name := range expected {
		if ranked[i].Name != name {
			t.Errorf("Expected position %d to be %q, got %q", i, name, ranked[i].Name)
		}
	}
	for i := range ranked {
		if ranked[i].Rank != i+1 {
			t.Errorf("Expected rank %d at position %d, got %d", i+1, i, ranked[i].Rank)
		}
	}
}

func TestRankLimit(t *testing.T) {
	items := []types.PortfolioItem{
		{Name: "a", Language: "Go", Stars: 3},
		{Name: "b", Language: "Go", Stars: 2},
		{Name: "c", Language: "Go", Stars: 1},
	}

	tests := []struct {
		name     string
		limit    int
		expected int
	}{
		{"limit below item count", 2, 2},
		{"limit equals item count", 3, 3},
		{"limit above item count", 10, 3},
		{"zero limit", 0, 0},
		{"negative limit treated as zero", -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked := Rank(items, rankerSkills(), tt.limit)
			if len(ranked) != tt.expected {
				t.Errorf("Expected %d items, got %d", tt.expected, len(ranked))
			}
		})
	}
}

func TestRankEmptyItems(t *testing.T) {
	ranked := Rank(nil, rankerSkills(), 5)
	if len(ranked) != 0 {
		t.Errorf("Expected empty result, got %d items", len(ranked))
	}
}

func TestRankEmptySkillsFallsBackToPopularity(t *testing.T) {
	items := []types.PortfolioItem{
		{Name: "low", Stars: 1},
		{Name: "high", Stars: 100},
		{Name: "mid", Stars: 10},
	}

	ranked := Rank(items, map[string][]string{}, 2)

	if len(ranked) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(ranked))
	}
	if ranked[0].Name != "high" || ranked[1].Name != "mid" {
		t.Errorf("Expected popularity order [high mid], got [%s %s]", ranked[0].Name, ranked[1].Name)
	}
	for _, item := range ranked {
		if item.RelevanceScore != 0 {
			t.Errorf("Expected zero score for %q, got %d", item.Name, item.RelevanceScore)
		}
	}
}

func TestRankLanguageMonotonicity(t *testing.T) {
	// identical items except for the language match
	base := types.PortfolioItem{Name: "svc", Description: "service", Stars: 5}
	matching := base
	matching.Language = "go"
	other := base
	other.Language = "cobol"

	ranked := Rank([]types.PortfolioItem{other, matching}, rankerSkills(), 2)

	if ranked[0].Language != "go" {
		t.Fatalf("Expected language-matching item first, got %q", ranked[0].Language)
	}
	if diff := ranked[0].RelevanceScore - ranked[1].RelevanceScore; diff < scoreLanguageMatch {
		t.Errorf("Expected score gap of at least %d, got %d", scoreLanguageMatch, diff)
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	items := []types.PortfolioItem{
		{Name: "b", Stars: 1},
		{Name: "a", Language: "Go", Stars: 2},
	}

	Rank(items, rankerSkills(), 2)

	if items[0].Name != "b" || items[1].Name != "a" {
		t.Error("Expected input slice order to be unchanged")
	}
}

func BenchmarkRank(b *testing.B) {
	items := make([]types.PortfolioItem, 100)
	for i := range items {
		items[i] = types.PortfolioItem{
			Name:        "project",
			Description: "a python service with react frontend",
			Language:    "Python",
			Topics:      []string{"docker", "api"},
			Stars:       i,
		}
	}
	skills := rankerSkills()

	for b.Loop() {
		Rank(items, skills, 10)
	}
}
