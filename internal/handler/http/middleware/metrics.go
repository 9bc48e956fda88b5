package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/geraldfingburke/verinews/internal/handler/http/pathutil"
	"github.com/geraldfingburke/verinews/internal/handler/http/responsewriter"
	"github.com/geraldfingburke/verinews/internal/observability/metrics"
)

// Metrics records HTTP request duration, size, and status code into the
// shared Prometheus registry, normalizing the path first so that IDs in
// routes like /events/123 don't blow up label cardinality.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.ActiveConnections.Inc()
		defer metrics.ActiveConnections.Dec()

		normalizedPath := pathutil.NormalizePath(r.URL.Path)
		rw := responsewriter.Wrap(w)

		start := time.Now()
		next.ServeHTTP(rw, r)
		duration := time.Since(start)

		status := strconv.Itoa(rw.StatusCode())
		metrics.RecordHTTPRequest(r.Method, normalizedPath, status, duration, int(r.ContentLength), rw.BytesWritten())
	})
}
