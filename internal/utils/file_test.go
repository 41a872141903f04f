package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateInputFile(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "job.txt")
	if err := os.WriteFile(existing, []byte("Looking for a Go developer"), 0o600); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	tests := []struct {
		name        string
		filename    string
		expectError bool
	}{
		{"existing file", existing, false},
		{"empty path", "", true},
		{"missing file", filepath.Join(dir, "nope.txt"), true},
		{"directory", dir, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInputFile(tt.filename)
			if tt.expectError && err == nil {
				t.Errorf("Expected error for %q, got nil", tt.filename)
			}
			if !tt.expectError && err != nil {
				t.Errorf("Expected no error for %q, got %v", tt.filename, err)
			}
		})
	}
}

func TestValidateOutputFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("stdout", func(t *testing.T) {
		if err := ValidateOutputFile(""); err != nil {
			t.Errorf("Expected empty path to be valid, got %v", err)
		}
	})

	t.Run("creates missing directory", func(t *testing.T) {
		target := filepath.Join(dir, "reports", "analysis.json")
		if err := ValidateOutputFile(target); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if _, err := os.Stat(filepath.Dir(target)); err != nil {
			t.Errorf("Expected output directory created, got %v", err)
		}
	})
}

func TestIsTextFile(t *testing.T) {
	tests := []struct {
		filename string
		expected bool
	}{
		{"job.txt", true},
		{"job.md", true},
		{"JOB.TXT", true},
		{"posting.markdown", true},
		{"notes.text", true},
		{"resume.pdf", false},
		{"archive.tar.gz", false},
		{"noextension", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := IsTextFile(tt.filename); got != tt.expected {
				t.Errorf("IsTextFile(%q) = %v, expected %v", tt.filename, got, tt.expected)
			}
		})
	}
}
