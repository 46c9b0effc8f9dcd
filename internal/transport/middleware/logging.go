package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/company-api/pkg/logger"
)

// maxLoggedBody caps how much of a request body is read for debug logging.
const maxLoggedBody = 4 << 10

// sensitiveFields are header and JSON key fragments that are masked in logs
var sensitiveFields = []string{
	"password",
	"token",
	"authorization",
	"secret",
	"cookie",
	"api_key",
	"credential",
}

// LoggingMiddleware logs one line per request and one per response, using the request
// scoped logger so request ids are attached. Bodies are logged at debug level only.
func LoggingMiddleware(base *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lg := requestLogger(r.Context(), base)

			logRequest(lg, r)

			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			logResponse(r.Context(), lg, rec, time.Since(start))
		})
	}
}

func requestLogger(ctx context.Context, base *slog.Logger) *slog.Logger {
	if lg := logger.From(ctx); lg != nil && lg != logger.LoggerWrapper() {
		return lg
	}
	return base
}

func logRequest(lg *slog.Logger, r *http.Request) {
	attrs := []any{
		"method", r.Method,
		"path", r.URL.Path,
		"query", r.URL.RawQuery,
		"remote_addr", r.RemoteAddr,
		"user_agent", r.UserAgent(),
		"headers", filterSensitiveHeaders(r.Header),
	}

	if lg.Enabled(r.Context(), slog.LevelDebug) && r.Body != nil {
		body, _ := io.ReadAll(io.LimitReader(r.Body, maxLoggedBody))
		r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), r.Body))
		attrs = append(attrs, "body", filterSensitiveBody(body))
		lg.Debug("incoming request", attrs...)
		return
	}

	lg.Info("incoming request", attrs...)
}

func logResponse(ctx context.Context, lg *slog.Logger, rec *statusRecorder, duration time.Duration) {
	level := slog.LevelInfo
	switch {
	case rec.code >= 500:
		level = slog.LevelError
	case rec.code >= 400:
		level = slog.LevelWarn
	}

	lg.Log(ctx, level, "response",
		"status_code", rec.code,
		"duration_ms", duration.Milliseconds(),
		"response_size", rec.bytes,
	)
}

func isSensitive(name string) bool {
	lower := strings.ToLower(name)
	for _, field := range sensitiveFields {
		if strings.Contains(lower, field) {
			return true
		}
	}
	return false
}

// filterSensitiveHeaders masks sensitive headers
func filterSensitiveHeaders(headers http.Header) map[string]string {
	filtered := make(map[string]string, len(headers))
	for name, values := range headers {
		if isSensitive(name) {
			filtered[name] = "[FILTERED]"
			continue
		}
		filtered[name] = strings.Join(values, ", ")
	}
	return filtered
}

// filterSensitiveBody masks sensitive keys of a JSON body. Non-JSON bodies are summarized.
func filterSensitiveBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return "[non-JSON body]"
	}

	out, err := json.Marshal(filterSensitiveJSON(data))
	if err != nil {
		return "[unprintable body]"
	}
	return string(out)
}

func filterSensitiveJSON(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		filtered := make(map[string]interface{}, len(v))
		for key, value := range v {
			if isSensitive(key) {
				filtered[key] = "[FILTERED]"
				continue
			}
			filtered[key] = filterSensitiveJSON(value)
		}
		return filtered
	case []interface{}:
		filtered := make([]interface{}, len(v))
		for i, item := range v {
			filtered[i] = filterSensitiveJSON(item)
		}
		return filtered
	default:
		return v
	}
}
