package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Tracking issues carry their composite key (pull-request number, repository
// name) inside free text, because the external service has no native
// composite-key field. The number lives in the title as "PR #<n>:" and the
// repository in the body as a "**Repository:** <name>" line. The formatter
// and parser below are the single source of truth for both encodings.

var (
	trackingTitleRe  = regexp.MustCompile(`^PR #(\d+):`)
	repositoryLineRe = regexp.MustCompile(`(?m)^\*\*Repository:\*\* (.+)$`)
)

// FormatTrackingTitle builds the canonical tracking-issue title.
func FormatTrackingTitle(prNumber int, prTitle string) string {
	return fmt.Sprintf("PR #%d: %s", prNumber, prTitle)
}

// ParseTrackingNumber extracts the pull-request number from a tracking-issue
// title. The second return value is false when the title does not carry the
// canonical prefix.
func ParseTrackingNumber(title string) (int, bool) {
	m := trackingTitleRe.FindStringSubmatch(title)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// BodyMatchesRepository reports whether a tracking-issue body carries the
// repository marker line for exactly the given repository. Bodies without
// any marker never match, regardless of the title: an issue that cannot
// prove which repository it belongs to must not be claimed.
func BodyMatchesRepository(body, repository string) bool {
	m := repositoryLineRe.FindStringSubmatch(body)
	if m == nil {
		return false
	}
	return strings.TrimSpace(m[1]) == repository
}

// FormatTrackingBody builds the canonical tracking-issue body. Every run
// rewrites the body with this template so the issue always reflects the
// latest pull-request state.
func FormatTrackingBody(pr *PullRequest, cs *ChangeStats, weight float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Pull Request:** %s\n", pr.URL)
	fmt.Fprintf(&b, "**Repository:** %s\n", pr.Repository)
	fmt.Fprintf(&b, "**Author:** @%s\n\n", pr.Author)
	b.WriteString("### Stats\n\n")
	fmt.Fprintf(&b, "- Files changed: %d\n", cs.FilesChanged)
	fmt.Fprintf(&b, "- Additions: %d\n", cs.Additions)
	fmt.Fprintf(&b, "- Deletions: %d\n", cs.Deletions)
	fmt.Fprintf(&b, "- Total changes: %d\n", cs.TotalChanges)
	fmt.Fprintf(&b, "- Weight: %.2f\n", weight)
	fmt.Fprintf(&b, "- Effort: %.2f\n", cs.Effort)
	return b.String()
}
