package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// NewRequestID 生成请求 ID。
func NewRequestID() string {
	return uuid.New().String()
}

// WithRequest 把请求 ID 写入 context，并挂上带 request_id 字段的 logger。
// id 为空时生成新的 ID。
func WithRequest(ctx context.Context, logger zerolog.Logger, id string) context.Context {
	if id == "" {
		id = NewRequestID()
	}
	ctx = context.WithValue(ctx, requestIDKey, id)
	l := logger.With().Str("request_id", id).Logger()
	return l.WithContext(ctx)
}

// RequestID 取出 context 中的请求 ID，不存在时返回空串。
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// Ctx 返回 context 上的 logger；没有挂载时返回禁用的 logger。
func Ctx(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}
