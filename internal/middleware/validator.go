package middleware

import (
	"fmt"
	"regexp"
	"strings"
)

// Input validation and sanitization utilities

var datasetNameRe = regexp.MustCompile(`^[a-zA-Z0-9 ._-]{1,128}$`)

// ValidateDatasetName checks uploaded file names before they reach the
// registry or a prompt.
func ValidateDatasetName(name string) error {
	if name == "" {
		return fmt.Errorf("dataset name cannot be empty")
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid characters in dataset name")
	}
	if !datasetNameRe.MatchString(name) {
		return fmt.Errorf("invalid dataset name (alphanumeric, space, dot, dash, underscore, max 128 chars)")
	}
	return nil
}

const maxQuestionLen = 2000

// ValidateQuestion bounds question length; content goes to the model as-is.
func ValidateQuestion(q string) error {
	q = strings.TrimSpace(q)
	if q == "" {
		return fmt.Errorf("question cannot be empty")
	}
	if len(q) > maxQuestionLen {
		return fmt.Errorf("question too long (max %d chars)", maxQuestionLen)
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}
