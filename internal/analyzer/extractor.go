// Package analyzer extracts structured requirement profiles from job
// description text and ranks portfolio items against them. Everything in
// this package is deterministic and rule-based; AI enrichment lives in
// internal/ai and only decorates these results.
package analyzer

import (
	"regexp"
	"sort"
	"strings"

	"llmployable/internal/types"
)

// NotSpecified is returned for experience and education when the text
// contains no recognizable requirement.
const NotSpecified = "Not specified"

// experiencePatterns are tried in order; the first match wins
var experiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\+?\s*years?\s+(?:of\s+)?experience`),
	regexp.MustCompile(`(\d+)-(\d+)\s*years?\s+(?:of\s+)?experience`),
	regexp.MustCompile(`minimum\s+(?:of\s+)?(\d+)\s*years?`),
}

// educationKeywords are checked in order; the first one present wins
var educationKeywords = []string{"bachelor", "master", "phd", "degree", "bs", "ms", "mba"}

// sectionPattern pairs a section name with the regex that captures its body.
// The body is the run of non-blank lines following the header; a blank line
// ends the section.
type sectionPattern struct {
	name    string
	pattern *regexp.Regexp
}

var sectionPatterns = []sectionPattern{
	{"responsibilities", regexp.MustCompile(`(?i)(?:responsibilities|duties|role)[:\s]*([^\n]+(?:\n[^\n]+)*)`)},
	{"requirements", regexp.MustCompile(`(?i)(?:requirements|qualifications)[:\s]*([^\n]+(?:\n[^\n]+)*)`)},
	{"nice_to_have", regexp.MustCompile(`(?i)(?:nice to have|preferred|bonus)[:\s]*([^\n]+(?:\n[^\n]+)*)`)},
}

var keywordPattern = regexp.MustCompile(`\b[a-z]{3,}\b`)

// stopwords are excluded from keyword extraction
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "as": true, "is": true, "was": true,
	"are": true, "were": true, "be": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "do": true, "does": true,
	"did": true, "will": true, "would": true, "should": true, "could": true,
	"may": true, "might": true, "must": true, "can": true,
}

const topKeywordCount = 20

// compiledCategory holds a category's canonical tokens alongside their
// word-boundary match patterns, index-aligned
type compiledCategory struct {
	name     string
	tokens   []string
	patterns []*regexp.Regexp
}

// Extractor turns raw job description text into a types.RequirementProfile.
// It is built from an immutable taxonomy, compiles all token patterns once,
// and is safe for concurrent use.
type Extractor struct {
	categories []compiledCategory
}

// NewExtractor builds an Extractor from the given taxonomy. Token patterns
// are anchored on word boundaries so "java" never matches inside
// "javascript".
func NewExtractor(tax Taxonomy) *Extractor {
	e := &Extractor{categories: make([]compiledCategory, 0, len(tax.Categories))}
	for _, cat := range tax.Categories {
		cc := compiledCategory{
			name:     cat.Name,
			tokens:   append([]string(nil), cat.Tokens...),
			patterns: make([]*regexp.Regexp, 0, len(cat.Tokens)),
		}
		for _, token := range cat.Tokens {
			pattern := `\b` + regexp.QuoteMeta(strings.ToLower(token)) + `\b`
			cc.patterns = append(cc.patterns, regexp.MustCompile(pattern))
		}
		e.categories = append(e.categories, cc)
	}
	return e
}

// Extract analyzes a job description and returns its requirement profile.
// It is a total function: any input, including empty text, yields a valid
// profile and never an error. Identical input always yields an identical
// profile.
func (e *Extractor) Extract(text string) types.RequirementProfile {
	lower := strings.ToLower(text)

	return types.RequirementProfile{
		OriginalText: text,
		Skills:       e.extractSkills(lower),
		Experience:   extractExperience(lower),
		Education:    extractEducation(lower),
		Sections:     extractSections(text),
		Keywords:     extractKeywords(lower),
	}
}

// extractSkills matches taxonomy tokens against the lowercased text.
// Categories with no matches are omitted entirely.
func (e *Extractor) extractSkills(lower string) map[string][]string {
	skills := make(map[string][]string)
	for _, cat := range e.categories {
		var found []string
		for i, pattern := range cat.patterns {
			if pattern.MatchString(lower) {
				found = append(found, cat.tokens[i])
			}
		}
		if len(found) > 0 {
			skills[cat.name] = found
		}
	}
	return skills
}

func extractExperience(lower string) string {
	for _, pattern := range experiencePatterns {
		if match := pattern.FindString(lower); match != "" {
			return match
		}
	}
	return NotSpecified
}

// extractEducation returns the first period-delimited sentence containing
// the highest-priority education keyword present in the text
func extractEducation(lower string) string {
	for _, keyword := range educationKeywords {
		if !strings.Contains(lower, keyword) {
			continue
		}
		for _, sentence := range strings.Split(lower, ".") {
			if strings.Contains(sentence, keyword) {
				return strings.TrimSpace(sentence)
			}
		}
	}
	return NotSpecified
}

// extractSections runs over the original-case text so captured bodies keep
// their formatting. Only the first occurrence of each section header counts.
func extractSections(text string) map[string]string {
	sections := make(map[string]string)
	for _, sp := range sectionPatterns {
		if m := sp.pattern.FindStringSubmatch(text); m != nil {
			sections[sp.name] = strings.TrimSpace(m[1])
		}
	}
	return sections
}

// extractKeywords tallies alphabetic tokens of three or more letters,
// drops stopwords, and returns the top 20 by frequency. Ties keep first
// encounter order, so output is stable for identical input.
func extractKeywords(lower string) []string {
	words := keywordPattern.FindAllString(lower, -1)

	freq := make(map[string]int)
	var order []string
	for _, word := range words {
		if stopwords[word] {
			continue
		}
		if _, seen := freq[word]; !seen {
			order = append(order, word)
		}
		freq[word]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return freq[order[i]] > freq[order[j]]
	})

	if len(order) > topKeywordCount {
		order = order[:topKeywordCount]
	}
	return order
}
