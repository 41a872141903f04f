// Package utils holds small filesystem helpers for the CLI's job
// description inputs and formatted outputs.
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// textExtensions are the extensions job description files are expected to
// carry. Anything else triggers a warning upstream, not a rejection.
var textExtensions = []string{".txt", ".md", ".markdown", ".text"}

// ValidateInputFile checks that a job description input file exists, is a
// regular file, and is readable.
func ValidateInputFile(filename string) error {
	if filename == "" {
		return fmt.Errorf("input file path cannot be empty")
	}

	info, err := os.Stat(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("input file does not exist: %s", filename)
		}
		return fmt.Errorf("cannot access input file %s: %w", filename, err)
	}

	if info.IsDir() {
		return fmt.Errorf("input path is a directory, not a file: %s", filename)
	}

	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("cannot read input file %s: %w", filename, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close input file %s: %w", filename, err)
	}

	return nil
}

// ValidateOutputFile ensures the directory for a formatted output file
// exists, creating it when needed. An empty path means stdout.
func ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil
	}

	dir := filepath.Dir(filename)
	if dir != "." {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("cannot create output directory %s: %w", dir, err)
			}
		}
	}

	return nil
}

// IsTextFile reports whether the file looks like a plain-text job
// description, judged by extension.
func IsTextFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return slices.Contains(textExtensions, ext)
}
