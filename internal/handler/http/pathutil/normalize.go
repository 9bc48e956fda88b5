package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern pairs a regex with the normalized template it collapses to.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// pathPatterns lists dynamic routes that must be collapsed before they
// reach a metrics label. Evaluated in order, most specific first.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/events/\d+$`), Template: "/events/:id"},
}

// NormalizePath normalizes dynamic URL paths to prevent metrics label
// cardinality explosion. It converts paths with IDs (e.g., /events/123) to
// template form (e.g., /events/:id). Static paths such as /events/search,
// /events/stats/summary, and /health are left unchanged.
//
// Examples:
//
//	NormalizePath("/events/123")            // "/events/:id"
//	NormalizePath("/events/search?q=x")     // "/events/search"
//	NormalizePath("/events/stats/summary")  // "/events/stats/summary"
//	NormalizePath("/health")                // "/health"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return path
}
