package report

import "strings"

// Severity classifies the impact of a diagnostic on the canonical scale
// shared by every supported analyzer. The values are lowercase to match the
// artifact encoding consumed by downstream report stores.
type Severity string

// Constants defining the canonical severity levels for diagnostics.
const (
	SeverityError       Severity = "error"       // The reported code is broken or dangerous.
	SeverityWarning     Severity = "warning"     // The reported code is suspicious but may be intentional.
	SeverityStyle       Severity = "style"       // Stylistic or conventions issue.
	SeverityPerformance Severity = "performance" // The reported code is needlessly slow.
	SeverityPortability Severity = "portability" // The reported code is platform dependent.
	SeverityInfo        Severity = "information" // Informational note, no action required.
	SeverityUnspecified Severity = "unspecified" // The analyzer gave no usable severity.
)

// ParseSeverity maps a raw severity word onto the canonical scale. The
// mapping is total: input that names no canonical level, including the empty
// string, yields SeverityUnspecified rather than an error, so converters can
// rely on every parsed diagnostic carrying a valid severity.
func ParseSeverity(raw string) Severity {
	switch Severity(strings.ToLower(strings.TrimSpace(raw))) {
	case SeverityError:
		return SeverityError
	case SeverityWarning:
		return SeverityWarning
	case SeverityStyle:
		return SeverityStyle
	case SeverityPerformance:
		return SeverityPerformance
	case SeverityPortability:
		return SeverityPortability
	case SeverityInfo:
		return SeverityInfo
	default:
		return SeverityUnspecified
	}
}
