package audit

import (
	"context"
	"strings"
)

type actorKey struct{}

// WithActor 在上下文中记录当前操作者邮箱
func WithActor(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, actorKey{}, strings.TrimSpace(email))
}

// ActorFrom 读取当前操作者邮箱，未设置时返回空串
func ActorFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if email, ok := ctx.Value(actorKey{}).(string); ok {
		return email
	}
	return ""
}
