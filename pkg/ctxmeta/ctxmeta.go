// Пакет ctxmeta — прокидывание метаданных запроса (request_id, trace/span id)
// через context.Context. HTTP-слой и логгер зависят от него, но не друг от друга.
package ctxmeta

import "context"

type ctxKey string

const keyRequestID ctxKey = "request_id"

// WithRequestID кладёт request_id в контекст; пустое значение игнорируется.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, keyRequestID, requestID)
}

// RequestIDFromContext достаёт request_id из контекста.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Value(keyRequestID).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
