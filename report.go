package x12

import (
	"fmt"
	"io"
	"strings"
)

// WriteReport renders a severity-grouped validation report. The writer's
// error, if any, is returned so callers can surface stream failures.
func WriteReport(w io.Writer, result *ValidationResult) error {
	rule := strings.Repeat("=", 80)
	line := strings.Repeat("-", 80)

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", rule)
	fmt.Fprintln(&b, "837P VALIDATION REPORT")
	fmt.Fprintln(&b, rule)

	fmt.Fprintf(&b, "\nTotal Segments Processed: %d\n", result.SegmentCount)
	status := "INVALID"
	if result.Valid() {
		status = "VALID"
	}
	fmt.Fprintf(&b, "Overall Status: %s\n", status)

	summary := result.Summary()
	fmt.Fprintln(&b, "\nIssue Summary:")
	fmt.Fprintf(&b, "  Errors:   %d\n", summary[SeverityError])
	fmt.Fprintf(&b, "  Warnings: %d\n", summary[SeverityWarning])
	fmt.Fprintf(&b, "  Info:     %d\n", summary[SeverityInfo])

	if len(result.Issues) == 0 {
		fmt.Fprintln(&b, "\nNo validation issues found.")
		fmt.Fprintf(&b, "%s\n", rule)
		_, err := io.WriteString(w, b.String())
		return err
	}

	fmt.Fprintf(&b, "\n%s\n", line)
	fmt.Fprintln(&b, "VALIDATION ISSUES")
	fmt.Fprintln(&b, line)

	for _, severity := range []Severity{SeverityError, SeverityWarning, SeverityInfo} {
		issues := result.BySeverity(severity)
		if len(issues) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%sS (%d):\n", severity, len(issues))
		fmt.Fprintln(&b, line)
		for _, issue := range issues {
			elementInfo := ""
			if issue.ElementPosition > 0 {
				elementInfo = fmt.Sprintf(", Element %d", issue.ElementPosition)
			}
			fmt.Fprintf(&b, "  [%s] Segment %d%s\n", issue.SegmentID, issue.SegmentNumber, elementInfo)
			fmt.Fprintf(&b, "    %s\n", issue.Message)
			if issue.Context != "" {
				fmt.Fprintf(&b, "    Context: %s\n", issue.Context)
			}
			fmt.Fprintln(&b)
		}
	}

	fmt.Fprintf(&b, "%s\n", rule)
	_, err := io.WriteString(w, b.String())
	return err
}
