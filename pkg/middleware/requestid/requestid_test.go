package requestid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/nimburion/blogapi/pkg/middleware"
	"github.com/nimburion/blogapi/pkg/server/router"
	ginadapter "github.com/nimburion/blogapi/pkg/server/router/gin"
)

func serve(t *testing.T, inbound string) (fromContext, fromStore, fromHeader string) {
	t.Helper()
	r := ginadapter.NewRouter()
	r.Use(RequestID())
	r.GET("/test", func(c router.Context) error {
		fromContext = middleware.RequestID(c.Request().Context())
		fromStore, _ = c.Get(string(middleware.RequestIDKey)).(string)
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if inbound != "" {
		req.Header.Set(RequestIDHeader, inbound)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return fromContext, fromStore, rec.Header().Get(RequestIDHeader)
}

func TestRequestID_GeneratesUUID(t *testing.T) {
	ctxID, storeID, headerID := serve(t, "")

	if _, err := uuid.Parse(headerID); err != nil {
		t.Fatalf("header %q is not a UUID: %v", headerID, err)
	}
	if ctxID != headerID || storeID != headerID {
		t.Errorf("ids differ: ctx=%q store=%q header=%q", ctxID, storeID, headerID)
	}
}

func TestRequestID_PreservesInbound(t *testing.T) {
	ctxID, _, headerID := serve(t, "upstream-42")
	if ctxID != "upstream-42" || headerID != "upstream-42" {
		t.Errorf("ctx=%q header=%q, want upstream-42", ctxID, headerID)
	}
}

func TestRequestID_ReplacesUnacceptableInbound(t *testing.T) {
	for _, inbound := range []string{strings.Repeat("a", maxInboundLength+1), "has space", "tab\there"} {
		_, _, headerID := serve(t, inbound)
		if headerID == inbound {
			t.Errorf("inbound %q should have been replaced", inbound)
		}
		if _, err := uuid.Parse(headerID); err != nil {
			t.Errorf("replacement %q is not a UUID", headerID)
		}
	}
}

func TestRequestID_Unique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		_, _, id := serve(t, "")
		if seen[id] {
			t.Fatalf("duplicate request id %s", id)
		}
		seen[id] = true
	}
}
