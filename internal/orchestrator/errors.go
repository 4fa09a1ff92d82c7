package orchestrator

import (
	"fmt"
	"sort"
	"strings"
)

// UnsupportedToolError reports a conversion request for a tool id that no
// registered converter claims.
type UnsupportedToolError struct {
	Tool      string
	Supported []string // Registered tool ids, sorted.
}

func (e *UnsupportedToolError) Error() string {
	return fmt.Sprintf("unsupported tool %q; supported tools: %s", e.Tool, strings.Join(e.Supported, ", "))
}

// InvalidMetadataError reports run-metadata pairs that failed validation:
// keys outside the allow-list, or arguments that are not key=value at all.
type InvalidMetadataError struct {
	Rejected  []string // Keys outside the allow-list, sorted.
	Malformed []string // Raw arguments missing the key=value shape, in input order.
	Allowed   []string // The allow-list in force, sorted.
}

func (e *InvalidMetadataError) Error() string {
	var parts []string
	if len(e.Rejected) > 0 {
		parts = append(parts, fmt.Sprintf("unsupported keys [%s]", strings.Join(e.Rejected, ", ")))
	}
	if len(e.Malformed) > 0 {
		parts = append(parts, fmt.Sprintf("malformed pairs [%s]", strings.Join(e.Malformed, ", ")))
	}
	return fmt.Sprintf("invalid run metadata: %s; allowed keys: %s",
		strings.Join(parts, "; "), strings.Join(e.Allowed, ", "))
}

// parseMetadata splits raw key=value arguments against the allow-list. On
// any violation it reports every offending argument at once rather than the
// first one found. Duplicate keys keep the last value, matching the
// left-to-right order of the command line.
func parseMetadata(pairs, allowed []string) (map[string]string, error) {
	allow := make(map[string]bool, len(allowed))
	for _, k := range allowed {
		allow[k] = true
	}

	meta := make(map[string]string, len(pairs))
	var rejected, malformed []string
	for _, raw := range pairs {
		key, value, ok := strings.Cut(raw, "=")
		if !ok || key == "" {
			malformed = append(malformed, raw)
			continue
		}
		if !allow[key] {
			rejected = append(rejected, key)
			continue
		}
		meta[key] = value
	}
	if len(rejected) > 0 || len(malformed) > 0 {
		sort.Strings(rejected)
		allowedSorted := append([]string(nil), allowed...)
		sort.Strings(allowedSorted)
		return nil, &InvalidMetadataError{Rejected: rejected, Malformed: malformed, Allowed: allowedSorted}
	}
	if len(meta) == 0 {
		return nil, nil
	}
	return meta, nil
}
