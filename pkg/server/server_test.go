package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"
)

func startServer(t *testing.T, opts ...Option) (string, Server, func() error) {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	srv := New(append(opts, WithListener(l), WithShutdownTimeout(time.Second))...)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	base := "http://" + l.Addr().String()
	deadline := time.Now().Add(2 * time.Second)
	for !srv.IsRunning() {
		if time.Now().After(deadline) {
			cancel()
			t.Fatal("server did not start")
		}
		time.Sleep(10 * time.Millisecond)
	}

	stop := func() error {
		cancel()
		select {
		case err := <-done:
			return err
		case <-time.After(3 * time.Second):
			t.Fatal("server did not stop")
			return nil
		}
	}
	return base, srv, stop
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestServeHealthMetricsAndHandlers(t *testing.T) {
	base, srv, stop := startServer(t,
		WithSimpleHealth(),
		WithPrometheusMetrics(),
		WithHandler("/hello", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "hi")
		})),
	)

	if code, body := get(t, base+HealthPath); code != http.StatusOK || body != "ok" {
		t.Fatalf("health = %d %q", code, body)
	}
	if code, body := get(t, base+"/hello"); code != http.StatusOK || body != "hi" {
		t.Fatalf("hello = %d %q", code, body)
	}
	if code, body := get(t, base+MetricsPath); code != http.StatusOK || !strings.Contains(body, "go_goroutines") {
		t.Fatalf("metrics = %d", code)
	}

	if err := stop(); err != nil {
		t.Fatalf("serve: %v", err)
	}
	if srv.IsRunning() {
		t.Fatal("server still running after shutdown")
	}
}

func TestTLSWithMissingCertificate(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := New(WithListener(l), WithTLS(TLSConfig{CertFile: "missing.pem", KeyFile: "missing.key"}))
	err = srv.Serve(context.Background())
	if err == nil || !strings.Contains(err.Error(), "failed to load TLS certificate") {
		t.Fatalf("expected certificate error, got %v", err)
	}
}

func TestRegistryIsPerServer(t *testing.T) {
	a, b := New(), New()
	if a.Registry() == b.Registry() {
		t.Fatal("servers should not share a registry")
	}
}
