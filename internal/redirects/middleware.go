package redirects

import (
	"net/http"

	"github.com/goliatone/go-docsite/internal/logging"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// MiddlewareOptions tunes the HTTP rendition of the navigation hook.
type MiddlewareOptions struct {
	// StatusCode is the redirect status. Defaults to http.StatusFound.
	StatusCode int
	Logger     interfaces.Logger
}

// Middleware runs the resolver before every request. Matched paths receive
// a redirect whose Location is the configured target, unmodified; all other
// requests reach next.
func Middleware(resolver *Resolver, opts MiddlewareOptions) func(http.Handler) http.Handler {
	status := opts.StatusCode
	if status == 0 {
		status = http.StatusFound
	}
	logger := logging.OrNoOp(opts.Logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			resolver.BeforeResolve(&httpNavigation{
				w:      w,
				r:      r,
				next:   next,
				status: status,
				logger: logger,
			})
		})
	}
}

type httpNavigation struct {
	w      http.ResponseWriter
	r      *http.Request
	next   http.Handler
	status int
	logger interfaces.Logger
}

func (n *httpNavigation) Path() string {
	return n.r.URL.Path
}

func (n *httpNavigation) Next() {
	n.next.ServeHTTP(n.w, n.r)
}

// Replace writes the Location header directly; http.Redirect would clean
// and re-root relative targets.
func (n *httpNavigation) Replace(target string) {
	n.logger.Info("redirects.http.redirect", "path", n.r.URL.Path, "target", target, "status", n.status)
	n.w.Header().Set("Location", target)
	n.w.WriteHeader(n.status)
}
