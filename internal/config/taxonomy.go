package config

import (
	"fmt"

	"github.com/spf13/viper"

	"llmployable/internal/analyzer"
)

// LoadTaxonomy loads the skill taxonomy named by the configuration. An
// empty file path selects the built-in taxonomy.
func LoadTaxonomy(cfg TaxonomyConfig) (analyzer.Taxonomy, error) {
	if cfg.File == "" {
		return analyzer.DefaultTaxonomy(), nil
	}
	return LoadTaxonomyFile(cfg.File)
}

// LoadTaxonomyFile reads and validates a YAML taxonomy file.
//
// Expected layout:
//
//	categories:
//	  - name: languages
//	    tokens: [python, go, rust]
func LoadTaxonomyFile(path string) (analyzer.Taxonomy, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return analyzer.Taxonomy{}, fmt.Errorf("failed to read taxonomy file %s: %w", path, err)
	}

	var raw struct {
		Categories []struct {
			Name   string   `mapstructure:"name"`
			Tokens []string `mapstructure:"tokens"`
		} `mapstructure:"categories"`
	}
	if err := v.Unmarshal(&raw); err != nil {
		return analyzer.Taxonomy{}, fmt.Errorf("failed to parse taxonomy file %s: %w", path, err)
	}

	var tax analyzer.Taxonomy
	for _, category := range raw.Categories {
		tax.Categories = append(tax.Categories, analyzer.Category{
			Name:   category.Name,
			Tokens: category.Tokens,
		})
	}

	if err := tax.Validate(); err != nil {
		return analyzer.Taxonomy{}, fmt.Errorf("taxonomy file %s: %w", path, err)
	}
	return tax, nil
}
