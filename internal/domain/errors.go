package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrProjectNotFound is returned when no organization project matches the
// configured display name. The sync cannot proceed without a project.
var ErrProjectNotFound = errors.New("project not found")

// PermissionDeniedError indicates the token lacks the organization or
// project scope required for the lookup. It carries remediation text so the
// workflow log tells the operator exactly what to fix.
type PermissionDeniedError struct {
	Org string
	Err error
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf(
		"permission denied listing projects for org %s: %v "+
			"(the token needs the 'read:project' and 'project' scopes; "+
			"for fine-grained tokens grant organization Projects read/write access)",
		e.Org, e.Err,
	)
}

func (e *PermissionDeniedError) Unwrap() error { return e.Err }

// FieldUpdateError records the failure of a single field write. Field
// writes are independently fault isolated, so these are collected and
// logged rather than propagated.
type FieldUpdateError struct {
	Role string
	Err  error
}

func (e *FieldUpdateError) Error() string {
	return fmt.Sprintf("failed to update %s field: %v", e.Role, e.Err)
}

func (e *FieldUpdateError) Unwrap() error { return e.Err }

// permissionKeywords are the authorization markers looked for in external
// API error text to distinguish a scope problem from a generic failure.
var permissionKeywords = []string{
	"permission",
	"forbidden",
	"401",
	"403",
	"scope",
	"resource not accessible",
}

// IsPermissionError reports whether an external API error looks like an
// authorization failure rather than a generic one.
func IsPermissionError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, kw := range permissionKeywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}
