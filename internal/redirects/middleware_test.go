package redirects

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMiddlewareRedirectsKnownPaths(t *testing.T) {
	resolver := NewResolver(MustTable(map[string]string{
		"/old.html":                  "https://example.com/new",
		"/postgres/zfs-aws-ebs.html": "/postgres/tuning-zfs-aws-ebs.html",
	}, PolicyExact))

	nextCalls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalls++
		w.WriteHeader(http.StatusTeapot)
	})
	handler := Middleware(resolver, MiddlewareOptions{})(next)

	cases := []struct {
		path     string
		status   int
		location string
	}{
		{path: "/old.html", status: http.StatusFound, location: "https://example.com/new"},
		{path: "/postgres/zfs-aws-ebs.html", status: http.StatusFound, location: "/postgres/tuning-zfs-aws-ebs.html"},
		{path: "/other.html", status: http.StatusTeapot},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))

		if rec.Code != tc.status {
			t.Fatalf("%s: expected status %d, got %d", tc.path, tc.status, rec.Code)
		}
		if got := rec.Header().Get("Location"); got != tc.location {
			t.Fatalf("%s: expected Location %q, got %q", tc.path, tc.location, got)
		}
	}
	if nextCalls != 1 {
		t.Fatalf("expected next handler once, got %d", nextCalls)
	}
}

func TestMiddlewareHonoursStatusAndPolicy(t *testing.T) {
	resolver := NewResolver(MustTable(map[string]string{"/guide/": "/guide/README.html"}, PolicyTrailingSlash))
	handler := Middleware(resolver, MiddlewareOptions{StatusCode: http.StatusMovedPermanently})(http.NotFoundHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/guide", nil))

	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("expected 301, got %d", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/guide/README.html" {
		t.Fatalf("unexpected Location %q", got)
	}
}
