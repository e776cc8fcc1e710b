package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	obsmetrics "github.com/nimburion/blogapi/pkg/observability/metrics"
	"github.com/nimburion/blogapi/pkg/server/router"
	ginadapter "github.com/nimburion/blogapi/pkg/server/router/gin"
)

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	obsmetrics.NewRegistry().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(body)
}

func TestMetrics_RecordsRouteLabel(t *testing.T) {
	r := ginadapter.NewRouter()
	r.Use(Metrics())
	r.GET("/api/blogs/:blogId", func(c router.Context) error {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Blog not found"})
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/blogs/65a1b2c3d4e5f60718293a4b", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}

	body := scrape(t)
	want := `http_requests_total{method="GET",path="/api/blogs/:id",status="404"}`
	if !strings.Contains(body, want) {
		t.Errorf("expected %s in scrape output", want)
	}
	if strings.Contains(body, "65a1b2c3d4e5f60718293a4b") {
		t.Error("raw identifier leaked into metric labels")
	}
}

func TestMetrics_PreservesHandlerResult(t *testing.T) {
	r := ginadapter.NewRouter()
	r.Use(Metrics())
	r.POST("/api/users", func(c router.Context) error {
		return c.String(http.StatusTeapot, "short and stout")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/users", nil))
	if rec.Code != http.StatusTeapot || rec.Body.String() != "short and stout" {
		t.Errorf("got %d %q", rec.Code, rec.Body.String())
	}
}
