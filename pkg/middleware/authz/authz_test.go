package authz

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/nimburion/blogapi/pkg/auth"
	"github.com/nimburion/blogapi/pkg/server/router"
	ginadapter "github.com/nimburion/blogapi/pkg/server/router/gin"
)

// stubVerifier accepts exactly one token.
type stubVerifier struct{ accept string }

func (s stubVerifier) Verify(_ context.Context, token string) (*auth.Claims, error) {
	if token == "" || token != s.accept {
		return nil, errors.New("rejected")
	}
	return &auth.Claims{Subject: "user-" + token}, nil
}

func newTestRouter(verifier auth.TokenVerifier, hits *int) router.Router {
	r := ginadapter.NewRouter()
	r.Use(Authenticate(verifier, DefaultConfig(), nil))
	handler := func(c router.Context) error {
		*hits++
		subject := ""
		if claims := auth.GetClaims(c.Request().Context()); claims != nil {
			subject = claims.Subject
		}
		return c.JSON(http.StatusOK, map[string]string{"subject": subject})
	}
	r.GET("/api/blogs", handler)
	r.GET("/api/blogs/:blogId", handler)
	r.GET("/api/users", handler)
	r.GET("/api/blogsearch", handler)
	return r
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name        string
		verifier    auth.TokenVerifier
		path        string
		header      string
		wantStatus  int
		wantHandled bool
		wantSubject string
	}{
		{name: "guarded without header", verifier: auth.PresenceVerifier{}, path: "/api/blogs", wantStatus: http.StatusUnauthorized},
		{name: "guarded with bearer token", verifier: auth.PresenceVerifier{}, path: "/api/blogs", header: "Bearer abc", wantStatus: http.StatusOK, wantHandled: true},
		{name: "guarded subpath", verifier: auth.PresenceVerifier{}, path: "/api/blogs/123", wantStatus: http.StatusUnauthorized},
		{name: "scheme only", verifier: auth.PresenceVerifier{}, path: "/api/blogs", header: "Bearer", wantStatus: http.StatusUnauthorized},
		{name: "token without scheme", verifier: auth.PresenceVerifier{}, path: "/api/blogs", header: "abc", wantStatus: http.StatusUnauthorized},
		{name: "any scheme word", verifier: auth.PresenceVerifier{}, path: "/api/blogs", header: "Token abc", wantStatus: http.StatusOK, wantHandled: true},
		{name: "unguarded without header", verifier: auth.PresenceVerifier{}, path: "/api/users", wantStatus: http.StatusOK, wantHandled: true},
		{name: "segment boundary", verifier: auth.PresenceVerifier{}, path: "/api/blogsearch", wantStatus: http.StatusOK, wantHandled: true},
		{name: "verifier rejects", verifier: stubVerifier{accept: "good"}, path: "/api/blogs", header: "Bearer bad", wantStatus: http.StatusUnauthorized},
		{name: "verifier accepts with claims", verifier: stubVerifier{accept: "good"}, path: "/api/blogs", header: "Bearer good", wantStatus: http.StatusOK, wantHandled: true, wantSubject: "user-good"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := 0
			r := newTestRouter(tt.verifier, &hits)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if (hits == 1) != tt.wantHandled {
				t.Fatalf("handler hits = %d, wantHandled %v", hits, tt.wantHandled)
			}

			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("body is not JSON: %v", err)
			}
			if tt.wantStatus == http.StatusUnauthorized {
				if len(body) != 1 || body["message"] != "Unauthorized" {
					t.Errorf("body = %v, want {\"message\":\"Unauthorized\"}", body)
				}
				return
			}
			if body["subject"] != tt.wantSubject {
				t.Errorf("subject = %q, want %q", body["subject"], tt.wantSubject)
			}
		})
	}
}

func TestAuthenticate_CustomPrefixes(t *testing.T) {
	r := ginadapter.NewRouter()
	r.Use(Authenticate(auth.PresenceVerifier{}, Config{GuardedPrefixes: []string{"/api/categories", "/api/blogs/"}}, nil))
	r.GET("/api/categories", func(c router.Context) error { return c.JSON(http.StatusOK, []string{}) })
	r.GET("/api/blogs", func(c router.Context) error { return c.JSON(http.StatusOK, []string{}) })

	for path, want := range map[string]int{
		"/api/categories": http.StatusUnauthorized,
		"/api/blogs":      http.StatusUnauthorized,
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != want {
			t.Errorf("%s: status = %d, want %d", path, rec.Code, want)
		}
	}
}

func TestExtractToken(t *testing.T) {
	tests := map[string]string{
		"":                   "",
		"Bearer":             "",
		"Bearer abc":         "abc",
		"Bearer  abc":        "abc",
		"\tBearer\tabc":      "abc",
		"Bearer abc extra":   "abc",
		"Basic dXNlcjpwdw==": "dXNlcjpwdw==",
	}
	for header, want := range tests {
		if got := ExtractToken(header); got != want {
			t.Errorf("ExtractToken(%q) = %q, want %q", header, got, want)
		}
	}
}

func TestExtractToken_Property(t *testing.T) {
	properties := gopter.NewProperties(nil)
	word := gen.RegexMatch(`^[A-Za-z0-9._~+/=-]{1,40}$`)

	properties.Property("second field is the token", prop.ForAll(
		func(scheme, token, sep string) bool {
			return ExtractToken(scheme+sep+token) == token
		},
		word, word, gen.OneConstOf(" ", "  ", "\t", " \t "),
	))

	properties.Property("a single field never yields a token", prop.ForAll(
		func(only string) bool {
			return ExtractToken(only) == "" && ExtractToken(" "+only+" ") == ""
		},
		word,
	))

	properties.TestingRun(t)
}

func TestUnauthorizedBodyShape(t *testing.T) {
	raw, err := json.Marshal(UnauthorizedBody)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(raw)) != `{"message":"Unauthorized"}` {
		t.Errorf("body = %s", raw)
	}
}
