package testutil

import (
	"net/http"
	"time"

	"rolodex/pkg/requestcontext"
)

// WithRequestTime pins the request-scoped clock, simulating what the request
// time middleware does. Tests use it to make lifecycle timestamps
// deterministic.
func WithRequestTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}

// WithRequestID attaches a request ID, simulating the request ID middleware.
func WithRequestID(req *http.Request, id string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), id))
}
