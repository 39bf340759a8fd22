package middleware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	j "github.com/goccy/go-json"

	"github.com/reoring/schemaform/internal/dupkey"
	"github.com/reoring/schemaform/rules"
)

// MaxBodyBytes caps the request body read by Decode.
const MaxBodyBytes = 1 << 20

// ErrBodyTooLarge is returned by Decode when the body exceeds MaxBodyBytes.
var ErrBodyTooLarge = errors.New("request body too large")

// ctxKeyValue is the context key for the decoded request body.
type ctxKeyValue struct{}

// body boxes the value so a JSON null body is still found.
type body struct{ v any }

// ContextWithValue attaches a validated request body to the context.
func ContextWithValue(ctx context.Context, v any) context.Context {
	return context.WithValue(ctx, ctxKeyValue{}, body{v})
}

// ValueFromContext retrieves the validated request body from context.
func ValueFromContext(ctx context.Context) (any, bool) {
	b, ok := ctx.Value(ctxKeyValue{}).(body)
	return b.v, ok
}

// Decode reads a JSON document from r. Duplicate object keys are errors.
func Decode(r io.Reader) (any, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxBodyBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxBodyBytes {
		return nil, ErrBodyTooLarge
	}
	if err := dupkey.Check(data); err != nil {
		return nil, err
	}
	var v any
	if err := j.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	return v, nil
}

// Check decodes r and validates it against tree. A decode failure is
// returned as err; validation failures are returned as issues.
func Check(tree rules.Node, r io.Reader) (v any, issues rules.Issues, err error) {
	v, err = Decode(r)
	if err != nil {
		return nil, nil, err
	}
	return v, rules.Explain(tree, v), nil
}

// ErrorPayload shapes Issues for JSON responses.
func ErrorPayload(issues rules.Issues) map[string]any {
	out := make([]map[string]any, len(issues))
	for i, it := range issues {
		item := map[string]any{"path": it.Path, "code": it.Code, "message": it.Message}
		if len(it.Params) > 0 {
			item["params"] = it.Params
		}
		out[i] = item
	}
	return map[string]any{"issues": out}
}

// ValidateJSON validates the request body against tree before calling next.
// Invalid bodies get 400 with the ErrorPayload; valid ones are stored in the
// request context for ValueFromContext.
func ValidateJSON(tree rules.Node, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, issues, err := Check(tree, r.Body)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
			return
		}
		if len(issues) > 0 {
			writeJSON(w, http.StatusBadRequest, ErrorPayload(issues))
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithValue(r.Context(), v)))
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = j.NewEncoder(w).Encode(body)
}
