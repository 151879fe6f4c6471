package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTokenBucketAllow 验证令牌消耗与容量上限
func TestTokenBucketAllow(t *testing.T) {
	// 60 QPM = 每秒1个令牌, 容量3
	tb := NewTokenBucket(60, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, tb.Allow(), "初始容量内的第%d个请求应被允许", i+1)
	}
	assert.False(t, tb.Allow(), "令牌耗尽后应拒绝请求")
}

// TestTokenBucketDefaultCapacity 验证容量缺省时取QPM的一半
func TestTokenBucketDefaultCapacity(t *testing.T) {
	tb := NewTokenBucket(10, 0)
	for i := 0; i < 5; i++ {
		assert.True(t, tb.Allow(), "默认容量应为QPM的一半(5)")
	}
	assert.False(t, tb.Allow(), "超过默认容量应被拒绝")

	// QPM为1时容量至少为1
	tiny := NewTokenBucket(1, 0)
	assert.True(t, tiny.Allow(), "最小容量应为1")
}

// TestTokenBucketRefill 验证令牌随时间补充
func TestTokenBucketRefill(t *testing.T) {
	// 600 QPM = 每秒10个令牌
	tb := NewTokenBucket(600, 1)
	require.True(t, tb.Allow())
	require.False(t, tb.Allow(), "容量1的桶应立即耗尽")

	time.Sleep(150 * time.Millisecond)
	assert.True(t, tb.Allow(), "等待补充周期后应重新放行")
}

// TestTokenBucketWaitCancel 验证上下文取消能中断等待
func TestTokenBucketWaitCancel(t *testing.T) {
	// 极低速率, 正常补充需要1分钟
	tb := NewTokenBucket(1, 1)
	require.True(t, tb.Allow(), "先耗尽唯一令牌")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := tb.Wait(ctx)
	require.Error(t, err, "无令牌且上下文超时应返回错误")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// TestRetryWithBackoff 验证可重试错误的指数退避
func TestRetryWithBackoff(t *testing.T) {
	tb := NewTokenBucket(6000, 10).WithRetryPolicy(10*time.Millisecond, 3)

	calls := 0
	err := tb.RetryWithBackoff(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("connection reset by peer")
		}
		return nil
	})
	require.NoError(t, err, "瞬时故障重试后应成功")
	assert.Equal(t, 3, calls, "应在第3次调用成功")

	// 不可重试错误立即返回
	calls = 0
	permanentErr := errors.New("invalid request payload")
	err = tb.RetryWithBackoff(context.Background(), func() error {
		calls++
		return permanentErr
	})
	require.Error(t, err)
	assert.Equal(t, permanentErr, err, "不可重试错误应原样返回")
	assert.Equal(t, 1, calls, "不可重试错误不应触发重试")
}

// TestRetryWithBackoffExhausted 验证重试次数耗尽后返回最后的错误
func TestRetryWithBackoffExhausted(t *testing.T) {
	tb := NewTokenBucket(6000, 10).WithRetryPolicy(5*time.Millisecond, 2)

	calls := 0
	err := tb.RetryWithBackoff(context.Background(), func() error {
		calls++
		return errors.New("deadline exceeded")
	})
	require.Error(t, err, "重试耗尽后应返回错误")
	assert.Equal(t, 3, calls, "maxRetries=2时应总共调用3次")
}

// TestIsRetryableError 验证错误分类
func TestIsRetryableError(t *testing.T) {
	retryable := []string{
		"request timeout",
		"context deadline exceeded",
		"connection reset by peer",
		"unexpected EOF",
		"connection refused",
		"429 Too Many Requests",
		"服务器繁忙，请稍后再试",
	}
	for _, msg := range retryable {
		assert.True(t, isRetryableError(errors.New(msg)), "%q应判定为可重试", msg)
	}

	assert.False(t, isRetryableError(errors.New("invalid api key")), "认证错误不应重试")
	assert.False(t, isRetryableError(nil), "nil错误不可重试")
}

// TestWrapWithQPMLimit 验证按模型名查限额并打九折
func TestWrapWithQPMLimit(t *testing.T) {
	limits := map[string]int{"qwen-plus": 100}

	wrapped := WrapWithQPMLimit(nil, "qwen-plus", limits, 0)
	rl, ok := wrapped.(*RateLimitedChatModel)
	require.True(t, ok, "包装结果应为RateLimitedChatModel")
	// 100 QPM打九折 = 90, 速率1.5/秒
	assert.InDelta(t, 1.5, rl.rateLimiter.rate, 0.001, "限速速率应为配置QPM的90%")

	// 查不到限额且defaultQPM无效时兜底30
	fallback := WrapWithQPMLimit(nil, "unknown-model", limits, 0).(*RateLimitedChatModel)
	assert.InDelta(t, 0.5, fallback.rateLimiter.rate, 0.001, "兜底QPM应为30")
}
