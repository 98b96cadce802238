package gateway

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/tessera-labs/admission/pkg/limiter"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

const tooManyRequestsMessage = "rate limit exceeded. try again later."

// requestID tags every request with an ID, honoring one supplied by an
// upstream proxy, and echoes it back to the client.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)

		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		reqID, _ := r.Context().Value(requestIDKey).(string)
		s.logger.Printf("[http] %s %s -> %d (%dB) in %s id=%s",
			r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(), time.Since(start), reqID)
	})
}

// admit bills the request to its identity before the handler runs. Denied
// requests get 429 with Retry-After; argument errors map to 400; anything
// else fails closed with 500.
func (s *Server) admit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := s.resolver.Resolve(r)

		dec, err := s.limiter.Allow(id, s.now())
		if err != nil {
			switch {
			case errors.Is(err, limiter.ErrEmptyIdentity), errors.Is(err, limiter.ErrTimeBeforeEpoch):
				writeError(w, http.StatusBadRequest, err.Error())
			default:
				s.logger.Printf("[admission] limiter error for %s:%s: %v", id.Namespace, id.Key, err)
				writeError(w, http.StatusInternalServerError, "the server encountered a problem")
			}
			return
		}

		setRateLimitHeaders(w, s.cfg.MaxRequests, dec)

		if !dec.Allow {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(dec.RetryAfter)))
			writeError(w, http.StatusTooManyRequests, tooManyRequestsMessage)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func setRateLimitHeaders(w http.ResponseWriter, limit int64, dec limiter.Decision) {
	w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(limit, 10))
	w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(dec.Remaining, 10))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(dec.ResetTime.Unix(), 10))
}

// retryAfterSeconds rounds up so clients never retry before the window
// turns over.
func retryAfterSeconds(d time.Duration) int {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}
