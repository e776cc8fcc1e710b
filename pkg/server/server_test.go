package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/nimburion/blogapi/pkg/observability/logger"
	"github.com/nimburion/blogapi/pkg/server/router"
	ginrouter "github.com/nimburion/blogapi/pkg/server/router/gin"
)

// startServer runs srv in the background and waits for its listener.
func startServer(t *testing.T, srv *Server) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(ctx)
	}()

	select {
	case <-srv.Ready():
	case err := <-errChan:
		cancel()
		t.Fatalf("server failed to start: %v", err)
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("server did not start")
	}
	return cancel, errChan
}

func TestServerStartAndShutdown(t *testing.T) {
	r := ginrouter.NewRouter()
	r.GET("/health", func(c router.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	srv := NewServer("public", Config{
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  10 * time.Second,
	}, r, logger.Nop())

	cancel, errChan := startServer(t, srv)

	resp, err := http.Get(fmt.Sprintf("http://%s/health", srv.Addr()))
	if err != nil {
		t.Fatalf("failed to make request: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
	if string(body) != `{"status":"ok"}` {
		t.Errorf("unexpected body %s", body)
	}

	cancel()
	select {
	case err := <-errChan:
		if err != nil {
			t.Errorf("server shutdown failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Error("server shutdown timed out")
	}
}

func TestServerStart_PortInUse(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	srv := NewServer("public", Config{Port: port}, http.NotFoundHandler(), nil)
	err = srv.Start(context.Background())
	if err == nil {
		t.Fatal("expected error when port is taken")
	}
}

func TestServerShutdown_BeforeStart(t *testing.T) {
	srv := NewServer("management", Config{}, http.NotFoundHandler(), nil)
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() before Start = %v", err)
	}
	if srv.Addr() != "" {
		t.Errorf("Addr() before Start = %q", srv.Addr())
	}
}

func TestServerShutdown_WaitsForInFlightRequest(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	r := ginrouter.NewRouter()
	r.GET("/slow", func(c router.Context) error {
		close(entered)
		<-release
		return c.String(http.StatusOK, "done")
	})

	srv := NewServer("public", Config{}, r, logger.Nop())
	cancel, errChan := startServer(t, srv)

	respChan := make(chan *http.Response, 1)
	go func() {
		resp, err := http.Get(fmt.Sprintf("http://%s/slow", srv.Addr()))
		if err != nil {
			respChan <- nil
			return
		}
		respChan <- resp
	}()

	<-entered
	cancel()
	time.Sleep(50 * time.Millisecond)
	close(release)

	resp := <-respChan
	if resp == nil {
		t.Fatal("in-flight request was dropped")
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if err := <-errChan; err != nil {
		t.Errorf("Start() = %v", err)
	}
}
