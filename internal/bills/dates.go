package bills

import (
	"strings"
	"time"
)

// dateLayouts are tried in order when parsing descriptor date strings.
// Layouts without zone information parse as UTC.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses a descriptor date string. A trailing literal "Z" is
// normalized to an explicit "+00:00" offset before structured parsing.
// Unparseable strings return the zero time, meaning "unknown"; callers
// resolve unknowns via the file modification time.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	// Full timestamp with an unrecognized time portion: retry on the
	// date part alone, matching the permissive upstream feeds.
	if idx := strings.IndexByte(s, 'T'); idx > 0 {
		if t, err := time.Parse("2006-01-02", s[:idx]); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
