package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTaxonomyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write taxonomy file: %v", err)
	}
	return path
}

func TestLoadTaxonomyDefault(t *testing.T) {
	tax, err := LoadTaxonomy(TaxonomyConfig{})
	if err != nil {
		t.Fatalf("LoadTaxonomy failed: %v", err)
	}
	if len(tax.Categories) == 0 {
		t.Error("Expected built-in taxonomy for empty file path")
	}
}

func TestLoadTaxonomyFile(t *testing.T) {
	path := writeTaxonomyFile(t, `
categories:
  - name: languages
    tokens: [python, go, rust]
  - name: tools
    tokens: [git, docker]
`)

	tax, err := LoadTaxonomy(TaxonomyConfig{File: path})
	if err != nil {
		t.Fatalf("LoadTaxonomy failed: %v", err)
	}

	if len(tax.Categories) != 2 {
		t.Fatalf("Expected 2 categories, got %d", len(tax.Categories))
	}
	if tax.Categories[0].Name != "languages" || len(tax.Categories[0].Tokens) != 3 {
		t.Errorf("Unexpected first category: %+v", tax.Categories[0])
	}
}

func TestLoadTaxonomyFileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty categories", "categories: []"},
		{"unnamed category", "categories:\n  - tokens: [python]"},
		{"category without tokens", "categories:\n  - name: languages"},
		{"duplicate category names", "categories:\n  - name: languages\n    tokens: [python]\n  - name: languages\n    tokens: [go]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTaxonomyFile(t, tt.content)
			if _, err := LoadTaxonomy(TaxonomyConfig{File: path}); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestLoadTaxonomyMissingFile(t *testing.T) {
	if _, err := LoadTaxonomy(TaxonomyConfig{File: "/nonexistent/taxonomy.yaml"}); err == nil {
		t.Error("Expected error for missing file")
	}
}
