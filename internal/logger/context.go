package logger

import (
	"context"

	"github.com/rs/zerolog"
)

// FromContext 从上下文中取出日志记录器；上下文没有携带时回退到全局实例，
// 调用方永远拿到一个可用的logger。
func FromContext(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		return &Logger
	}
	return l
}

// WithSubmissionUUID 把投递UUID注入日志上下文，后续同一次处理流程中的
// 所有日志都会自动带上submission_uuid字段。
func WithSubmissionUUID(ctx context.Context, submissionUUID string) context.Context {
	l := FromContext(ctx).With().Str("submission_uuid", submissionUUID).Logger()
	return l.WithContext(ctx)
}
