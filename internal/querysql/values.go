package querysql

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// TimeValue renders a timestamp the way the generated schema stores it:
// RFC 3339 in UTC, so lexical comparison in SQL equals time comparison.
func TimeValue(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// TagsValue renders a tag set the way the generated schema stores it:
// case-folded, comma-fenced. An empty set renders as "" so no membership
// LIKE can match it.
func TagsValue(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	fold := cases.Fold()
	parts := make([]string, len(tags))
	for i, tag := range tags {
		parts[i] = fold.String(tag)
	}
	return "," + strings.Join(parts, ",") + ","
}

// BoolValue renders a bool as the 0/1 the schema stores.
func BoolValue(b bool) int {
	if b {
		return 1
	}
	return 0
}
