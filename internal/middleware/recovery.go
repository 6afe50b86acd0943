package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/2beens/hoosfit/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
)

// PanicRecovery turns a handler panic into a 500 response carrying the
// request id.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				requestID := RequestIDFromContext(r.Context())
				log.WithFields(log.Fields{
					"request_id": requestID,
					"method":     r.Method,
					"path":       r.URL.Path,
				}).Errorf("panic serving request: %v\n%s", recovered, debug.Stack())

				if metricsManager != nil {
					metricsManager.CounterHandleRequestPanic.Inc()
				}

				msg := "internal server error"
				if requestID != "" {
					msg += " [" + requestID + "]"
				}
				http.Error(w, msg, http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
