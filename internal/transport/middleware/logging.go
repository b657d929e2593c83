package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/crm-management/pkg/logger"
	"github.com/go-chi/chi/middleware"
)

const (
	maxLoggedBody = 4096
	redacted      = "[FILTERED]"
)

// redactedKeys are matched case-insensitively against JSON keys and header names.
var redactedKeys = map[string]struct{}{
	"password":              {},
	"password_confirmation": {},
	"password_hash":         {},
	"token":                 {},
	"authorization":         {},
	"cookie":                {},
	"set-cookie":            {},
	"x-api-key":             {},
}

func isRedacted(key string) bool {
	_, ok := redactedKeys[strings.ToLower(key)]
	return ok
}

// LoggingMiddleware logs every request and response. Credentials, bearer
// tokens and uploaded files never reach the log. A nil base logs through the
// request-scoped logger so trace and user ids are kept.
func LoggingMiddleware(base *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lg := base
			if lg == nil {
				lg = logger.From(r.Context())
			}
			reqID := middleware.GetReqID(r.Context())

			lg.Info("incoming request",
				"request_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
				"headers", redactHeaders(r.Header),
				"body", requestBody(r),
			)

			rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			level := slog.LevelInfo
			switch {
			case rec.status >= http.StatusInternalServerError:
				level = slog.LevelError
			case rec.status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}

			lg.Log(r.Context(), level, "response",
				"request_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"status_code", rec.status,
				"duration_ms", time.Since(start).Milliseconds(),
				"response_size", rec.size,
				"body", redactBody(rec.body.Bytes()),
			)
		})
	}
}

type responseRecorder struct {
	http.ResponseWriter
	status int
	size   int
	body   bytes.Buffer
}

func (rw *responseRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseRecorder) Write(b []byte) (int, error) {
	if room := maxLoggedBody - rw.body.Len(); room > 0 {
		if len(b) > room {
			rw.body.Write(b[:room])
		} else {
			rw.body.Write(b)
		}
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

// requestBody reads and restores a JSON body. Forms and uploads are summarised.
func requestBody(r *http.Request) string {
	if r.Body == nil || r.Body == http.NoBody {
		return ""
	}

	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		if contentType == "" {
			return ""
		}
		return fmt.Sprintf("[%s, %d bytes]", strings.SplitN(contentType, ";", 2)[0], r.ContentLength)
	}

	raw, err := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return "[unreadable body]"
	}
	if len(raw) > maxLoggedBody {
		raw = raw[:maxLoggedBody]
	}
	return redactBody(raw)
}

func redactHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		if isRedacted(name) {
			out[name] = redacted
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

// redactBody masks sensitive keys of a JSON document. Anything that is not
// JSON is logged only by size.
func redactBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Sprintf("[non-json body, %d bytes]", len(body))
	}

	out, err := json.Marshal(redactJSON(doc))
	if err != nil {
		return "[unencodable body]"
	}
	return string(out)
}

func redactJSON(v interface{}) interface{} {
	switch node := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(node))
		for key, value := range node {
			if isRedacted(key) {
				out[key] = redacted
				continue
			}
			out[key] = redactJSON(value)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(node))
		for i, item := range node {
			out[i] = redactJSON(item)
		}
		return out
	default:
		return node
	}
}
