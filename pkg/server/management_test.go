package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nimburion/blogapi/pkg/config"
	"github.com/nimburion/blogapi/pkg/health"
	"github.com/nimburion/blogapi/pkg/observability/logger"
	"github.com/nimburion/blogapi/pkg/observability/metrics"
	ginrouter "github.com/nimburion/blogapi/pkg/server/router/gin"
	"github.com/nimburion/blogapi/pkg/version"
)

type stubStore struct{ err error }

func (s stubStore) HealthCheck(context.Context) error { return s.err }

func newTestManagementServer(registry *health.Registry) *ManagementServer {
	return NewManagementServer(
		config.DefaultConfig().Management,
		ginrouter.NewRouter(),
		logger.Nop(),
		registry,
		metrics.NewRegistry(),
		version.Info{Service: "blogapi", Version: "v0.1.0", Commit: "abc1234"},
	)
}

func TestManagementServer_Health(t *testing.T) {
	srv := newTestManagementServer(nil)

	rec := serve(srv.Router(), httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"status":"healthy"}` {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestManagementServer_Ready(t *testing.T) {
	tests := []struct {
		name       string
		storeErr   error
		wantStatus int
		wantBody   health.Status
	}{
		{name: "store reachable", wantStatus: http.StatusOK, wantBody: health.StatusHealthy},
		{name: "store down", storeErr: errors.New("connection refused"), wantStatus: http.StatusServiceUnavailable, wantBody: health.StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := health.NewRegistry()
			registry.Register(health.NewStoreChecker("mongodb", stubStore{err: tt.storeErr}))
			srv := newTestManagementServer(registry)

			rec := serve(srv.Router(), httptest.NewRequest(http.MethodGet, "/ready", nil))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var result health.AggregatedResult
			if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if result.Status != tt.wantBody {
				t.Errorf("status field = %s, want %s", result.Status, tt.wantBody)
			}
			if len(result.Checks) != 1 || result.Checks[0].Name != "mongodb" {
				t.Errorf("checks = %+v", result.Checks)
			}
		})
	}
}

func TestManagementServer_Metrics(t *testing.T) {
	srv := newTestManagementServer(nil)

	rec := serve(srv.Router(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Error("runtime collectors missing from exposition")
	}
}

func TestManagementServer_Version(t *testing.T) {
	srv := newTestManagementServer(nil)

	rec := serve(srv.Router(), httptest.NewRequest(http.MethodGet, "/version", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var info version.Info
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info.Service != "blogapi" || info.Version != "v0.1.0" {
		t.Errorf("info = %+v", info)
	}
}
