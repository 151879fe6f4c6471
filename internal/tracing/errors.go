package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrorType 错误分类，作为error.type属性写入Span，用于追踪后端按类过滤。
type ErrorType string

const (
	// ErrorTypeDB 数据库错误
	ErrorTypeDB ErrorType = "db"
	// ErrorTypeRedis Redis错误
	ErrorTypeRedis ErrorType = "redis"
	// ErrorTypeRabbitMQ 消息队列错误
	ErrorTypeRabbitMQ ErrorType = "rabbitmq"
	// ErrorTypeLLM 大模型调用错误
	ErrorTypeLLM ErrorType = "llm"
	// ErrorTypeInternal 内部错误（解析、评分等本进程逻辑）
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeExternal 外部系统错误（对象存储下载等）
	ErrorTypeExternal ErrorType = "external_system"
)

// RecordError 在Span上记录错误：错误事件、分类属性、错误状态一次写齐。
// span或err为nil时是无操作，调用方不需要做判空。
func RecordError(span trace.Span, err error, errorType ErrorType, attributes ...attribute.KeyValue) {
	if span == nil || err == nil {
		return
	}

	span.RecordError(err)
	span.SetAttributes(
		attribute.String("error.type", string(errorType)),
		attribute.String("error.message", err.Error()),
	)
	if len(attributes) > 0 {
		span.SetAttributes(attributes...)
	}
	span.SetStatus(codes.Error, err.Error())
}

// RecordPublishFailure 记录消息发布失败，带上消息标识便于和Outbox行对账。
func RecordPublishFailure(span trace.Span, messageID string, reason string) {
	if span == nil {
		return
	}

	errMsg := reason
	if errMsg == "" {
		errMsg = "message not acknowledged by broker"
	}

	span.SetAttributes(
		attribute.String("error.type", string(ErrorTypeRabbitMQ)),
		attribute.String("error.message", errMsg),
		attribute.String("messaging.message_id", messageID),
	)
	span.SetStatus(codes.Error, errMsg)
}
