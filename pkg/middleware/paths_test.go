package middleware

import (
	"context"
	"testing"
)

func TestMatchesPrefix(t *testing.T) {
	tests := []struct {
		path, prefix string
		want         bool
	}{
		{"/api/blogs", "/api/blogs", true},
		{"/api/blogs/123", "/api/blogs", true},
		{"/api/blogs/123", "/api/blogs/", true},
		{"/api/blogsearch", "/api/blogs", false},
		{"/api/users", "/api/blogs", false},
		{"/anything", "/", true},
		{"/anything", "", true},
	}
	for _, tt := range tests {
		if got := MatchesPrefix(tt.path, tt.prefix); got != tt.want {
			t.Errorf("MatchesPrefix(%q, %q) = %v, want %v", tt.path, tt.prefix, got, tt.want)
		}
	}
	if MatchesAnyPrefix("/api/users", nil) {
		t.Error("no prefixes should match nothing")
	}
}

func TestRouteLabel(t *testing.T) {
	tests := map[string]string{
		"/api/blogs":                                     "/api/blogs",
		"/api/blogs/65a1b2c3d4e5f60718293a4b":            "/api/blogs/:id",
		"/api/categories/65A1B2C3D4E5F60718293A4B/extra": "/api/categories/:id/extra",
		"/api/blogs/not-an-id":                           "/api/blogs/not-an-id",
	}
	for path, want := range tests {
		if got := RouteLabel(path); got != want {
			t.Errorf("RouteLabel(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestRequestIDContext(t *testing.T) {
	if RequestID(context.Background()) != "" {
		t.Error("expected empty request id")
	}
	if RequestID(nil) != "" {
		t.Error("nil context must be tolerated")
	}
	if got := RequestID(WithRequestID(context.Background(), "abc")); got != "abc" {
		t.Errorf("RequestID() = %q", got)
	}
}
