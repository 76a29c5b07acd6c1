package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/goliatone/go-docsite/internal/redirects"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

var legacyRedirects = map[string]string{
	"/treemux/json-rest-api.html":          "https://blog.uptrace.dev/posts/go-json-rest-api.html",
	"/postgres/zfs-aws-ebs.html":           "/postgres/tuning-zfs-aws-ebs.html",
	"/postgres/installing-zfs-ubuntu.html": "https://blog.uptrace.dev/posts/ubuntu-install-zfs.html",
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []string
}

func (r *recordingLogger) record(level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, level+":"+msg)
}

func (r *recordingLogger) Trace(msg string, _ ...any) { r.record("trace", msg) }
func (r *recordingLogger) Debug(msg string, _ ...any) { r.record("debug", msg) }
func (r *recordingLogger) Info(msg string, _ ...any)  { r.record("info", msg) }
func (r *recordingLogger) Warn(msg string, _ ...any)  { r.record("warn", msg) }
func (r *recordingLogger) Error(msg string, _ ...any) { r.record("error", msg) }
func (r *recordingLogger) Fatal(msg string, _ ...any) { r.record("fatal", msg) }

func (r *recordingLogger) WithFields(map[string]any) interfaces.Logger { return r }
func (r *recordingLogger) WithContext(context.Context) interfaces.Logger {
	return r
}

func (r *recordingLogger) has(entry string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e == entry {
			return true
		}
	}
	return false
}

func newTestServer(t *testing.T, cfg Config, entries map[string]string, logger interfaces.Logger) *Server {
	t.Helper()
	if cfg.Root == "" {
		cfg.Root = "testdata/site"
	}
	var resolver *redirects.Resolver
	if entries != nil {
		resolver = redirects.NewResolver(redirects.MustTable(entries, redirects.PolicyExact))
	}
	srv, err := New(cfg, resolver, logger)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv
}

func serve(srv http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestServerRedirectsLegacyPaths(t *testing.T) {
	srv := newTestServer(t, Config{}, legacyRedirects, nil)

	cases := []struct {
		path     string
		location string
	}{
		{"/treemux/json-rest-api.html", "https://blog.uptrace.dev/posts/go-json-rest-api.html"},
		{"/postgres/zfs-aws-ebs.html", "/postgres/tuning-zfs-aws-ebs.html"},
		{"/postgres/installing-zfs-ubuntu.html", "https://blog.uptrace.dev/posts/ubuntu-install-zfs.html"},
	}
	for _, tc := range cases {
		rec := serve(srv, tc.path)
		if rec.Code != http.StatusFound {
			t.Fatalf("%s: expected 302, got %d", tc.path, rec.Code)
		}
		if got := rec.Header().Get("Location"); got != tc.location {
			t.Fatalf("%s: expected Location %q, got %q", tc.path, tc.location, got)
		}
	}
}

func TestServerServesGeneratedPages(t *testing.T) {
	srv := newTestServer(t, Config{}, legacyRedirects, nil)

	cases := []struct {
		path string
		code int
		body string
	}{
		{"/", http.StatusOK, "<h1>Bun</h1>"},
		{"/guide/", http.StatusOK, "<h1>Introduction</h1>"},
		{"/guide/models.html", http.StatusOK, "<h1>Defining models</h1>"},
		{"/guide/models", http.StatusOK, "<h1>Defining models</h1>"},
		{"/postgres/tuning-zfs-aws-ebs.html", http.StatusOK, "<h1>Tuning ZFS</h1>"},
		{"/guide/missing.html", http.StatusNotFound, "<h1>Not found</h1>"},
	}
	for _, tc := range cases {
		rec := serve(srv, tc.path)
		if rec.Code != tc.code {
			t.Fatalf("%s: expected %d, got %d", tc.path, tc.code, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), tc.body) {
			t.Fatalf("%s: expected body %q, got %q", tc.path, tc.body, rec.Body.String())
		}
	}
}

func TestServerRedirectStatusAndChains(t *testing.T) {
	srv := newTestServer(t, Config{RedirectStatus: http.StatusMovedPermanently}, map[string]string{
		"/a.html": "/b.html",
		"/b.html": "/c.html",
	}, nil)

	rec := serve(srv, "/a.html")
	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("expected 301, got %d", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/b.html" {
		t.Fatalf("expected a single hop to /b.html, got %q", got)
	}
}

func TestServerWithoutResolverServesFiles(t *testing.T) {
	srv := newTestServer(t, Config{}, nil, nil)
	if rec := serve(srv, "/postgres/zfs-aws-ebs.html"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without redirects, got %d", rec.Code)
	}
}

func TestServerReloadSwapsRedirects(t *testing.T) {
	srv := newTestServer(t, Config{}, legacyRedirects, nil)
	if rec := serve(srv, "/guide/models.html"); rec.Code != http.StatusOK {
		t.Fatalf("expected page before reload, got %d", rec.Code)
	}

	srv.Reload(redirects.NewResolver(redirects.MustTable(map[string]string{
		"/guide/models.html": "/guide/",
	}, redirects.PolicyExact)))

	rec := serve(srv, "/guide/models.html")
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/guide/" {
		t.Fatalf("expected redirect after reload, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if rec := serve(srv, "/treemux/json-rest-api.html"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected old entries dropped after reload, got %d", rec.Code)
	}
}

func TestServerLogsRequests(t *testing.T) {
	logger := &recordingLogger{}
	srv := newTestServer(t, Config{}, legacyRedirects, logger)

	serve(srv, "/guide/")
	serve(srv, "/postgres/zfs-aws-ebs.html")

	if !logger.has("info:server.request") {
		t.Fatalf("expected request log entry, got %v", logger.entries)
	}
	if !logger.has("info:redirects.http.redirect") {
		t.Fatalf("expected redirect log entry, got %v", logger.entries)
	}
}

func TestNewRequiresRoot(t *testing.T) {
	if _, err := New(Config{}, nil, nil); !errors.Is(err, ErrRootRequired) {
		t.Fatalf("expected ErrRootRequired, got %v", err)
	}
	srv := newTestServer(t, Config{}, nil, nil)
	if err := srv.Run(context.Background()); !errors.Is(err, ErrAddrRequired) {
		t.Fatalf("expected ErrAddrRequired, got %v", err)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := newTestServer(t, Config{ShutdownTimeout: time.Second}, legacyRedirects, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	transport := &http.Transport{DisableKeepAlives: true}
	client := &http.Client{
		Transport: transport,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.Get("http://" + ln.Addr().String() + "/guide/models.html")
	if err != nil {
		cancel()
		t.Fatalf("GET: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	transport.CloseIdleConnections()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "Defining models") {
		cancel()
		t.Fatalf("unexpected response %d %q", resp.StatusCode, body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
