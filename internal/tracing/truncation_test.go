package tracing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMaskPII 验证个人敏感信息掩码
func TestMaskPII(t *testing.T) {
	assert.Equal(t, "", MaskPII(""))
	assert.Equal(t, "*", MaskPII("a"), "单字符应完全掩码")
	assert.Equal(t, "张*", MaskPII("张三"), "两字符保留首字符")
	assert.Equal(t, "王*明", MaskPII("王小明"), "三字符保留首尾")
	assert.Equal(t, "13*******78", MaskPII("13812345678"), "长字符串保留前后各两位")
}

// TestSafeAttributeValue 验证敏感关键字触发掩码, 普通值只做截断
func TestSafeAttributeValue(t *testing.T) {
	masked := SafeAttributeValue("user.email", "someone@example.com", 200)
	assert.Equal(t, "so***************om", masked, "email属性应被掩码")

	plain := SafeAttributeValue("queue.name", "resume_analysis_queue", 200)
	assert.Equal(t, "resume_analysis_queue", plain, "非敏感属性不应被掩码")
}

// TestSafeAttributeValuePIIMatching 关键字按段精确比较, 只有人名类完整写法触发掩码
func TestSafeAttributeValuePIIMatching(t *testing.T) {
	cases := []struct {
		attrName string
		masked   bool
	}{
		{"name", true},
		{"candidate.name", true},
		{"user.name", true},
		{"full_name", true},
		{"user.phone", true},
		{"id_card", true},
		{"姓名", true},
		{"queue.name", false},
		{"filename", false},
		{"exchange.name", false},
		{"storage.bucket", false},
		{"message.age", true},
	}
	for _, tc := range cases {
		got := SafeAttributeValue(tc.attrName, "13812345678", 200)
		if tc.masked {
			assert.Equal(t, "13*******78", got, "属性%s应被掩码", tc.attrName)
		} else {
			assert.Equal(t, "13812345678", got, "属性%s不应被掩码", tc.attrName)
		}
	}
}

// TestTruncateString 验证超长字符串的中间截断
func TestTruncateString(t *testing.T) {
	short := "short value"
	assert.Equal(t, short, TruncateString(short, 50), "未超长的字符串应原样返回")

	long := strings.Repeat("x", 100)
	truncated := TruncateString(long, 21)
	assert.Contains(t, truncated, "...", "截断结果应包含省略号")
	assert.LessOrEqual(t, len(truncated), 21, "截断结果不应超过最大长度")
}
