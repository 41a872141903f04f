package common

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"llmployable/internal/errors"
)

// githubUsernamePattern matches valid GitHub usernames: 1-39 alphanumeric
// characters or hyphens, no leading/trailing hyphen.
var githubUsernamePattern = regexp.MustCompile(`^[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,37}[a-zA-Z0-9])?$`)

// ValidateOutputFormat validates format against configured supported formats
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 {
		return nil // No restrictions configured
	}

	if slices.Contains(supportedFormats, format) {
		return nil
	}

	return fmt.Errorf("unsupported output format '%s'. Supported formats: %v",
		format, supportedFormats)
}

// GetSupportedFormats returns the list of supported formats
func GetSupportedFormats(supportedFormats []string) []string {
	return supportedFormats
}

// ValidateJobDescription checks the job description length bounds. The
// bounds come from app configuration; a non-positive bound disables that
// side of the check.
func ValidateJobDescription(text string, minLength, maxLength int) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return errors.NewValidationError(errors.ErrCodeInvalidJobText,
			"Job description is required", nil)
	}
	if minLength > 0 && len(trimmed) < minLength {
		return errors.NewValidationError(errors.ErrCodeInvalidJobText,
			fmt.Sprintf("Job description too short: %d characters (minimum %d)", len(trimmed), minLength), nil)
	}
	if maxLength > 0 && len(trimmed) > maxLength {
		return errors.NewValidationError(errors.ErrCodeInvalidJobText,
			fmt.Sprintf("Job description too long: %d characters (maximum %d)", len(trimmed), maxLength), nil)
	}
	return nil
}

// ValidateGitHubUsername checks the username against GitHub's naming rules
func ValidateGitHubUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return errors.NewValidationError(errors.ErrCodeInvalidUsername,
			"GitHub username is required", nil)
	}
	if !githubUsernamePattern.MatchString(username) {
		return errors.NewValidationError(errors.ErrCodeInvalidUsername,
			fmt.Sprintf("Invalid GitHub username: %s", username), nil)
	}
	return nil
}
