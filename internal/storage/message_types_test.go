package storage

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestResumeAnalysisMessageTimestamp 验证处理时间戳按Unix秒数传递,
// 生产侧写入和消费侧读出是同一个int64值
func TestResumeAnalysisMessageTimestamp(t *testing.T) {
	now := time.Now().Unix()
	msg := ResumeAnalysisMessage{
		SubmissionUUID:   "test-uuid",
		ProcessingStatus: "text_extracted",
		ProcessingTime:   now,
	}

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	// 线上格式里processing_time必须是JSON数字而不是字符串
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.NotEqual(t, byte('"'), raw["processing_time"][0], "processing_time不应序列化为字符串")

	var decoded ResumeAnalysisMessage
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, now, decoded.ProcessingTime, "时间戳往返后应保持不变")
}
