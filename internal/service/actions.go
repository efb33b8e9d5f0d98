package service

import (
	"fmt"
	"strings"
)

// ActionsService defines the interface for reporting results back to the
// invoking GitHub Actions workflow.

type ActionsService interface {
	// SetOutput appends a key=value pair to the step's output file.
	SetOutput(key, value string) error
	// AddSummary appends a markdown block to the job summary.
	AddSummary(markdown string) error
}

// FormatOutputLine renders a single output entry in the workflow file
// format. Multiline values are rejected: the delimiter syntax is not
// supported here and truncating silently would corrupt the output.
func FormatOutputLine(key, value string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("output key cannot be empty")
	}
	if strings.ContainsAny(value, "\n\r") {
		return "", fmt.Errorf("output value for %s cannot contain newlines", key)
	}
	return fmt.Sprintf("%s=%s\n", key, value), nil
}
