package storage

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// RunNaming decides how a run's output directory is named.
type RunNaming int

const (
	// RunUUID uses the full run ID (default)
	RunUUID RunNaming = iota
	// RunTimestamp uses timestamp + short ID
	RunTimestamp
	// RunDescriptive uses timestamp + a slug of the story idea + short ID
	RunDescriptive
)

// ParseRunNaming maps the configuration value to a RunNaming.
func ParseRunNaming(s string) (RunNaming, error) {
	switch s {
	case "", "uuid":
		return RunUUID, nil
	case "timestamp":
		return RunTimestamp, nil
	case "descriptive":
		return RunDescriptive, nil
	}
	return RunUUID, fmt.Errorf("unknown run naming %q", s)
}

// RunDir returns the directory name for a run, relative to the output root.
func RunDir(runID, description string, naming RunNaming, now time.Time) string {
	shortID := runID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	timestamp := now.Format("2006-01-02_1504")

	switch naming {
	case RunTimestamp:
		// 2025-07-16_1530_82f06b15
		return fmt.Sprintf("%s_%s", timestamp, shortID)
	case RunDescriptive:
		// 2025-07-16_1530_lighthouse-keeper-finds_82f06b15
		return fmt.Sprintf("%s_%s_%s", timestamp, slugify(description, 30), shortID)
	default:
		return runID
	}
}

// slugify lowercases s, keeps letters and digits, and joins words with
// single hyphens, truncated to maxLen.
func slugify(s string, maxLen int) string {
	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			hyphen = false
		case !hyphen && b.Len() > 0:
			b.WriteByte('-')
			hyphen = true
		}
	}

	slug := strings.Trim(b.String(), "-")
	if len(slug) > maxLen {
		slug = strings.TrimRight(slug[:maxLen], "-")
	}
	if slug == "" {
		slug = "comic"
	}
	return slug
}
