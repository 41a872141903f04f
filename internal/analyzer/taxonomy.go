package analyzer

import (
	"fmt"

	"llmployable/internal/errors"
)

// Category is a named, ordered list of canonical skill tokens
type Category struct {
	Name   string
	Tokens []string
}

// Taxonomy is an ordered list of skill categories. It is read-only after
// construction; extractors built from it never mutate it.
type Taxonomy struct {
	Categories []Category
}

// DefaultTaxonomy returns the built-in skill taxonomy. Category and token
// order is significant: extraction results preserve it.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		Categories: []Category{
			{
				Name: "languages",
				Tokens: []string{
					"python", "java", "javascript", "typescript", "c++", "c#",
					"go", "rust", "ruby", "php", "swift", "kotlin", "scala", "r",
				},
			},
			{
				Name: "frameworks",
				Tokens: []string{
					"react", "angular", "vue", "django", "flask", "spring",
					"express", "fastapi", "rails", "laravel", ".net", "node.js", "nodejs",
				},
			},
			{
				Name: "databases",
				Tokens: []string{
					"sql", "mysql", "postgresql", "mongodb", "redis",
					"elasticsearch", "dynamodb", "cassandra", "oracle",
				},
			},
			{
				Name: "cloud",
				Tokens: []string{
					"aws", "azure", "gcp", "google cloud", "docker",
					"kubernetes", "k8s", "terraform", "ansible",
				},
			},
			{
				Name: "tools",
				Tokens: []string{
					"git", "jenkins", "ci/cd", "jira", "agile", "scrum", "linux",
				},
			},
		},
	}
}

// Validate checks that the taxonomy has at least one category and that
// every category has a name and at least one token
func (t Taxonomy) Validate() error {
	if len(t.Categories) == 0 {
		return errors.NewValidationError(errors.ErrCodeInvalidTaxonomy, "taxonomy has no categories", nil)
	}
	seen := make(map[string]bool, len(t.Categories))
	for _, c := range t.Categories {
		if c.Name == "" {
			return errors.NewValidationError(errors.ErrCodeInvalidTaxonomy, "category with empty name", nil)
		}
		if seen[c.Name] {
			return errors.NewValidationError(errors.ErrCodeInvalidTaxonomy,
				fmt.Sprintf("duplicate category %q", c.Name), nil)
		}
		seen[c.Name] = true
		if len(c.Tokens) == 0 {
			return errors.NewValidationError(errors.ErrCodeInvalidTaxonomy,
				fmt.Sprintf("category %q has no tokens", c.Name), nil)
		}
	}
	return nil
}
