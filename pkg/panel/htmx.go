package panel

import (
	"net/http"
	"strings"

	"github.com/mchmarny/patientnav/pkg/router"
)

// HTMXRequestHeader is set by HTMX on every request it issues.
const HTMXRequestHeader = "HX-Request"

// IsHTMXRequest reports whether the request was initiated by HTMX.
func IsHTMXRequest(r *http.Request) bool {
	if r == nil {
		return false
	}
	return strings.EqualFold(r.Header.Get(HTMXRequestHeader), "true")
}

// redirectTrailingSlash sends GET and HEAD requests for non-canonical paths
// to their canonical form.
func redirectTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}
		canonical := router.Canonical(r.URL.Path)
		if canonical == r.URL.Path {
			next.ServeHTTP(w, r)
			return
		}
		target := canonical
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusMovedPermanently)
	})
}
