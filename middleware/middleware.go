// Package middleware validates HTTP request bodies with okskema schemas.
//
// Validate wraps a net/http handler; framework adapters live in the nested
// echo and gin modules and share DecodeRequest and the error payloads.
package middleware

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	json "github.com/goccy/go-json"
	okskema "github.com/reoring/okskema"
	"github.com/reoring/okskema/source"
)

// DefaultMaxBodyBytes caps request bodies when Options.MaxBodyBytes is 0.
const DefaultMaxBodyBytes int64 = 1 << 20

// ctxKeyValue is a typed context key for the validated value.
// Using a generic struct type ensures uniqueness per T.
type ctxKeyValue[T any] struct{}

// ContextWithValue attaches a validated value to the context.
func ContextWithValue[T any](ctx context.Context, v T) context.Context {
	return context.WithValue(ctx, ctxKeyValue[T]{}, v)
}

// ValueFromContext retrieves the validated value stored by Validate.
func ValueFromContext[T any](ctx context.Context) (T, bool) {
	v, ok := ctx.Value(ctxKeyValue[T]{}).(T)
	return v, ok
}

// Options configures request decoding and error responses.
type Options struct {
	// MaxBodyBytes limits the request body; 0 selects DefaultMaxBodyBytes.
	MaxBodyBytes int64
	// Status is used for validation failures; 0 selects 422.
	Status int
	// AllowYAML accepts application/yaml bodies in addition to JSON.
	AllowYAML bool
	// Source tunes the decoder.
	Source source.Options
	// Logger receives one record per rejected request; nil disables logging.
	Logger *slog.Logger
}

// DefaultOptions returns the recommended defaults for HTTP JSON boundaries:
// duplicate keys are rejected and nesting is capped.
func DefaultOptions() Options {
	return Options{
		MaxBodyBytes: DefaultMaxBodyBytes,
		Status:       http.StatusUnprocessableEntity,
		Source:       source.Options{RejectDuplicateKeys: true, MaxDepth: 64},
	}
}

func (o Options) withDefaults() Options {
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if o.Status == 0 {
		o.Status = http.StatusUnprocessableEntity
	}
	return o
}

// RequestError reports a body that could not be read or decoded. Status is
// the HTTP status a handler should answer with.
type RequestError struct {
	Status int
	Err    error
}

func (e *RequestError) Error() string { return e.Err.Error() }
func (e *RequestError) Unwrap() error { return e.Err }

// DecodeRequest reads, decodes and validates the request body. It returns a
// *RequestError when the body is unreadable and okskema.Failures when the
// decoded value is invalid.
func DecodeRequest[T any](r *http.Request, s okskema.Schema[T], opt Options) (T, error) {
	var zero T
	opt = opt.withDefaults()

	format := source.FormatJSON
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return zero, &RequestError{Status: http.StatusUnsupportedMediaType, Err: fmt.Errorf("invalid content type: %w", err)}
		}
		switch mt {
		case "application/json":
		case "application/yaml", "application/x-yaml", "text/yaml":
			if !opt.AllowYAML {
				return zero, &RequestError{Status: http.StatusUnsupportedMediaType, Err: fmt.Errorf("unsupported content type %q", mt)}
			}
			format = source.FormatYAML
		default:
			return zero, &RequestError{Status: http.StatusUnsupportedMediaType, Err: fmt.Errorf("unsupported content type %q", mt)}
		}
	}

	body := http.MaxBytesReader(nil, r.Body, opt.MaxBodyBytes)
	defer body.Close()
	raw, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return zero, &RequestError{Status: http.StatusRequestEntityTooLarge, Err: err}
		}
		return zero, &RequestError{Status: http.StatusBadRequest, Err: err}
	}
	v, err := source.Decode(bytes.NewReader(raw), format, opt.Source)
	if err != nil {
		return zero, &RequestError{Status: http.StatusBadRequest, Err: err}
	}
	return okskema.Parse(s, v)
}

// FailurePayload shapes failures for JSON responses.
func FailurePayload(fs okskema.Failures) map[string]any {
	return map[string]any{"failures": fs}
}

// ErrorPayload shapes a decoding error for JSON responses.
func ErrorPayload(err error) map[string]any {
	return map[string]any{"error": err.Error()}
}

// StatusAndPayload maps an error from DecodeRequest to a response.
func StatusAndPayload(err error, opt Options) (int, map[string]any) {
	opt = opt.withDefaults()
	if fs, ok := okskema.AsFailures(err); ok {
		return opt.Status, FailurePayload(fs)
	}
	var re *RequestError
	if errors.As(err, &re) {
		return re.Status, ErrorPayload(re.Err)
	}
	return http.StatusBadRequest, ErrorPayload(err)
}

// WriteJSON writes v as a JSON response.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// Validate returns middleware that validates the request body with s and
// stores the value in the request context for ValueFromContext[T]. Invalid
// requests are answered directly and never reach next.
func Validate[T any](s okskema.Schema[T], opt Options) func(http.Handler) http.Handler {
	opt = opt.withDefaults()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v, err := DecodeRequest(r, s, opt)
			if err != nil {
				status, payload := StatusAndPayload(err, opt)
				logReject(r, opt.Logger, status, err)
				_ = WriteJSON(w, status, payload)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithValue(r.Context(), v)))
		})
	}
}

func logReject(r *http.Request, logger *slog.Logger, status int, err error) {
	if logger == nil {
		return
	}
	attrs := []any{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
	}
	if fs, ok := okskema.AsFailures(err); ok {
		attrs = append(attrs, slog.Int("failures", len(fs)), slog.Any("codes", fs.Codes()))
		logger.InfoContext(r.Context(), "request rejected", attrs...)
		return
	}
	attrs = append(attrs, slog.String("error", err.Error()))
	logger.WarnContext(r.Context(), "request body unreadable", attrs...)
}
