package middleware

import "strings"

// MatchesPrefix reports whether path equals prefix or lies below it on a
// segment boundary: "/api/blogs" matches "/api/blogs/1" but not "/api/blogsx".
func MatchesPrefix(path, prefix string) bool {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		return true
	}
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}

// MatchesAnyPrefix reports whether path matches at least one prefix.
func MatchesAnyPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if MatchesPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// RouteLabel collapses path segments that look like document identifiers
// (24 hex characters) into ":id" so the result is safe as a metric label
// or span name.
func RouteLabel(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		if isObjectIDHex(segment) {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}

func isObjectIDHex(s string) bool {
	if len(s) != 24 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}
