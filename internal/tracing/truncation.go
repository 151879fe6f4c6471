package tracing

import (
	"strings"
)

const (
	// DefaultMaxLength 属性值的默认长度上限
	DefaultMaxLength = 200

	// MaxResumeLength 简历文本预览的长度上限。
	// Span里只放预览，完整文本永远不进追踪后端。
	MaxResumeLength = 150
)

// piiSegmentKeywords 属性名按`.`/`_`/`-`切段后，任一段命中即掩码。
// 按段精确比较而不是子串匹配，避免queue.name、filename这类属性被误伤。
var piiSegmentKeywords = []string{
	"email", "phone", "password", "secret", "token",
	"address", "age",
	"姓名", "地址", "年龄", "身份证",
}

// piiExactNames 整个属性名精确命中才掩码的条目。
// "name"单独成段太常见，只有这些完整写法才视为人名。
var piiExactNames = []string{
	"name", "candidate.name", "user.name", "full_name", "id_card",
}

// SafeAttributeValue 把属性值处理成可以安全写入Span的形式：
// 敏感属性掩码，普通属性超长截断。
func SafeAttributeValue(name string, value string, maxLength int) string {
	if isPIIAttribute(name) {
		return MaskPII(value)
	}
	return TruncateString(value, maxLength)
}

func isPIIAttribute(name string) bool {
	lowerName := strings.ToLower(name)
	for _, exact := range piiExactNames {
		if lowerName == exact {
			return true
		}
	}
	segments := strings.FieldsFunc(lowerName, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	for _, segment := range segments {
		for _, keyword := range piiSegmentKeywords {
			if segment == keyword {
				return true
			}
		}
	}
	return false
}

// MaskPII 掩码个人敏感信息。短值（中文姓名）保留首尾字符，
// 长值（邮箱、手机号）保留前后各两位。
func MaskPII(value string) string {
	runes := []rune(value)
	switch length := len(runes); {
	case length == 0:
		return ""
	case length == 1:
		return "*"
	case length == 2:
		return string(runes[:1]) + "*"
	case length <= 4:
		return string(runes[:1]) + strings.Repeat("*", length-2) + string(runes[length-1:])
	default:
		return string(runes[:2]) + strings.Repeat("*", length-4) + string(runes[length-2:])
	}
}

// TruncateString 超长时保留首尾、中间用省略号连接，结果不超过maxLength。
func TruncateString(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return string(runes[:maxLength])
	}

	half := (maxLength - 3) / 2
	if half < 1 {
		half = 1
	}
	return string(runes[:half]) + "..." + string(runes[len(runes)-half:])
}

// SafeResumeContent 生成简历文本的安全预览。
func SafeResumeContent(content string) string {
	return TruncateString(content, MaxResumeLength)
}
