package gin

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nimburion/blogapi/pkg/server/router"
)

func TestRouter_RoutesAndParams(t *testing.T) {
	r := NewRouter()
	r.GET("/api/blogs/:blogId", func(c router.Context) error {
		return c.String(http.StatusOK, c.Param("blogId")+"|"+c.Query("userId"))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/blogs/abc?userId=u1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "abc|u1" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestRouter_MiddlewareOrder(t *testing.T) {
	var order []string
	mw := func(name string) router.MiddlewareFunc {
		return func(next router.HandlerFunc) router.HandlerFunc {
			return func(c router.Context) error {
				order = append(order, name)
				return next(c)
			}
		}
	}

	r := NewRouter()
	r.Use(mw("global-1"), mw("global-2"))
	api := r.Group("/api", mw("group"))
	api.POST("/users", func(c router.Context) error {
		order = append(order, "handler")
		return c.JSON(http.StatusOK, nil)
	}, mw("route"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/users", nil))

	want := []string{"global-1", "global-2", "group", "route", "handler"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestRouter_BindDecodesJSON(t *testing.T) {
	r := NewRouter()
	r.PATCH("/api/users", func(c router.Context) error {
		var body struct {
			UserID string `json:"userId"`
		}
		if err := c.Bind(&body); err != nil {
			return c.String(http.StatusBadRequest, "bad")
		}
		return c.String(http.StatusOK, body.UserID)
	})

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "valid json without content type", body: `{"userId":"42"}`, wantStatus: http.StatusOK},
		{name: "malformed json", body: `{"userId":`, wantStatus: http.StatusBadRequest},
		{name: "empty body", body: "", wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/users", strings.NewReader(tt.body)))
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRouter_UnwrittenErrorBecomes500(t *testing.T) {
	r := NewRouter()
	r.DELETE("/boom", func(c router.Context) error {
		return errors.New("boom")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/boom", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestRouter_FallbacksRunGlobalMiddleware(t *testing.T) {
	r := NewRouter()
	r.Use(func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			c.Response().Header().Set("X-Seen", "yes")
			return next(c)
		}
	})
	r.GET("/api/users", func(c router.Context) error { return c.JSON(http.StatusOK, []string{}) })

	tests := []struct {
		method     string
		path       string
		wantStatus int
	}{
		{http.MethodGet, "/missing", http.StatusNotFound},
		{http.MethodPut, "/api/users", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != tt.wantStatus {
			t.Errorf("%s %s status = %d, want %d", tt.method, tt.path, rec.Code, tt.wantStatus)
		}
		if rec.Header().Get("X-Seen") != "yes" {
			t.Errorf("%s %s: middleware not applied", tt.method, tt.path)
		}
	}
}

func TestResponseWriter_TracksStatus(t *testing.T) {
	r := NewRouter()
	var status int
	var written bool
	r.GET("/status", func(c router.Context) error {
		c.Response().WriteHeader(http.StatusAccepted)
		c.Response().WriteHeader(http.StatusTeapot)
		status, written = c.Response().Status(), c.Response().Written()
		return nil
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	if status != http.StatusAccepted || !written {
		t.Errorf("Status() = %d, Written() = %v", status, written)
	}
	if rec.Code != http.StatusAccepted {
		t.Errorf("recorded status = %d, want 202", rec.Code)
	}
}

var _ router.Router = (*GinRouter)(nil)
