package processor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestResumeProcessErrorIs 验证自定义错误支持errors.Is比较
func TestResumeProcessErrorIs(t *testing.T) {
	err := NewDownloadError("uuid-123", "MinIO不可达")

	assert.True(t, errors.Is(err, ErrResumeDownloadFailed), "应能匹配基础错误类型")
	assert.False(t, errors.Is(err, ErrExtractTextFailed), "不应匹配其他基础错误")

	var processErr *ResumeProcessError
	require.True(t, errors.As(err, &processErr), "应能解包为ResumeProcessError")
	assert.Equal(t, "uuid-123", processErr.SubmissionUUID)
	assert.Equal(t, "download", processErr.Op)
}

// TestResumeProcessErrorMessage 验证错误文本包含定位信息
func TestResumeProcessErrorMessage(t *testing.T) {
	withDetail := NewAnalysisError("uuid-456", "LLM超时")
	assert.Contains(t, withDetail.Error(), "uuid-456", "错误文本应包含UUID")
	assert.Contains(t, withDetail.Error(), "LLM超时", "错误文本应包含详情")

	noDetail := &ResumeProcessError{
		SubmissionUUID: "uuid-789",
		Op:             "update",
		BaseErr:        ErrUpdateStatusFailed,
	}
	assert.Contains(t, noDetail.Error(), "uuid-789")
	assert.NotContains(t, noDetail.Error(), ": ", "无详情时不应有详情分隔符")
}

// TestResumeProcessErrorUnwrap 验证错误链解包
func TestResumeProcessErrorUnwrap(t *testing.T) {
	err := NewPublishError("uuid-1", "")
	assert.Equal(t, ErrPublishMessageFailed, errors.Unwrap(err), "Unwrap应返回基础错误")
}
