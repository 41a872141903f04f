package analyzer

import (
	"sort"
	"strings"

	"llmployable/internal/types"
)

// Scoring weights for repository relevance
const (
	scoreLanguageMatch  = 5
	scoreTopicMatch     = 3
	scoreSubstringMatch = 1
)

// Rank scores portfolio items against the flattened skill set of a
// requirement profile and returns the top items in relevance order.
//
// An item earns scoreLanguageMatch when its primary language is a required
// skill, scoreTopicMatch per topic that is a required skill, and
// scoreSubstringMatch per skill appearing as a substring of its name or
// description. Ties break by stars, then by input order. Ranks are 1-based.
//
// Rank never fails: empty items yield an empty slice, and an empty skill
// set yields the most popular items with zero scores.
func Rank(items []types.PortfolioItem, skillsByCategory map[string][]string, limit int) []types.RankedItem {
	if len(items) == 0 {
		return []types.RankedItem{}
	}
	if limit < 0 {
		limit = 0
	}

	skillSet := flattenSkills(skillsByCategory)

	ranked := make([]types.RankedItem, 0, len(items))
	for _, item := range items {
		ranked = append(ranked, types.RankedItem{
			PortfolioItem:  item,
			RelevanceScore: scoreItem(item, skillSet),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].RelevanceScore != ranked[j].RelevanceScore {
			return ranked[i].RelevanceScore > ranked[j].RelevanceScore
		}
		return ranked[i].Stars > ranked[j].Stars
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// flattenSkills collapses the per-category skill lists into one lowercase
// membership set
func flattenSkills(skillsByCategory map[string][]string) map[string]bool {
	set := make(map[string]bool)
	for _, tokens := range skillsByCategory {
		for _, token := range tokens {
			set[strings.ToLower(token)] = true
		}
	}
	return set
}

func scoreItem(item types.PortfolioItem, skillSet map[string]bool) int {
	if len(skillSet) == 0 {
		return 0
	}

	score := 0
	if skillSet[strings.ToLower(item.Language)] {
		score += scoreLanguageMatch
	}
	for _, topic := range item.Topics {
		if skillSet[strings.ToLower(topic)] {
			score += scoreTopicMatch
		}
	}

	name := strings.ToLower(item.Name)
	description := strings.ToLower(item.Description)
	for skill := range skillSet {
		if strings.Contains(name, skill) || strings.Contains(description, skill) {
			score += scoreSubstringMatch
		}
	}
	return score
}
