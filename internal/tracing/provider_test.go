package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// TestInitTracerProviderNoEndpoint 未配置端点时退化为no-op, 不应安装导出器
func TestInitTracerProviderNoEndpoint(t *testing.T) {
	shutdown, err := InitTracerProvider(context.Background(), "resume-iq-test", "")
	require.NoError(t, err)
	require.NotNil(t, shutdown, "即使不导出也应返回可调用的shutdown")
	assert.NoError(t, shutdown(context.Background()), "no-op shutdown不应报错")
}

// TestSDKSpanSatisfiesTraceAPI 确认SDK的span实现与otel API接口版本对齐
func TestSDKSpanSatisfiesTraceAPI(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() {
		assert.NoError(t, tp.Shutdown(context.Background()))
	}()

	_, span := tp.Tracer("test").Start(context.Background(), "span")
	defer span.End()

	var _ trace.Span = span
	span.AddLink(trace.Link{})
}
