package parser

import (
	"regexp"
	"strings"

	"resume-iq-go/internal/types"
)

// 姓名行的三种形态：标准Title Case、全大写、简单的"名 姓"。
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3}$`),
	regexp.MustCompile(`^[A-Z\s]{5,30}$`),
	regexp.MustCompile(`^[A-Z][a-z]+\s+[A-Z][a-z]+$`),
}

// 姓名识别时要跳过的标题性词汇。
var nameSkipWords = []string{"resume", "cv", "curriculum vitae", "contact", "objective"}

var (
	emailLocalCleanup = regexp.MustCompile(`[._0-9]`)
	capitalizedPlace  = regexp.MustCompile(`[A-Z][a-z]+(?:\s*,\s*[A-Z][a-z]+)*`)
)

// 地址行常见提示词。
var locationIndicators = []string{
	"city", "state", "country", "pin", "zip", "address",
	"based in", "located in", "residing in",
}

// ContactExtractor 从全文与联系方式章节中提取个人信息。
type ContactExtractor struct{}

// NewContactExtractor 构造联系方式提取器。
func NewContactExtractor() *ContactExtractor {
	return &ContactExtractor{}
}

// Extract 提取联系方式。邮箱、电话、URL在全文范围搜索，
// 姓名优先看文档前几行，地址只在联系方式章节内找。
func (e *ContactExtractor) Extract(lines []string, contactLines []string) types.ContactInfo {
	text := strings.Join(lines, "\n")
	info := types.ContactInfo{Phone: []string{}}

	if m := emailPattern.FindString(text); m != "" {
		info.Email = m
	}

	for _, p := range phonePattern.FindAllString(text, -1) {
		info.Phone = append(info.Phone, CleanPhoneNumber(p))
	}

	for _, u := range urlPattern.FindAllString(text, -1) {
		lower := strings.ToLower(u)
		switch {
		case strings.Contains(lower, "linkedin.com"):
			if info.LinkedIn == "" {
				info.LinkedIn = u
			}
		case strings.Contains(lower, "github.com"),
			strings.Contains(lower, "portfolio"),
			strings.Contains(lower, "behance.net"):
			if info.Portfolio == "" {
				info.Portfolio = u
			}
		}
	}

	info.Name = extractName(lines, text)
	info.Location = extractLocation(contactLines)

	return info
}

// extractName 按两级策略取姓名：先在前10行里找形似姓名的行，
// 再退化到邮箱用户名还原。
func extractName(lines []string, text string) string {
	limit := len(lines)
	if limit > 10 {
		limit = 10
	}

	for _, line := range lines[:limit] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if containsAnyFold(line, nameSkipWords) {
			continue
		}
		for _, pattern := range namePatterns {
			if !pattern.MatchString(line) {
				continue
			}
			words := strings.Fields(line)
			if len(words) < 2 || anyWordNumeric(words) {
				continue
			}
			if line == strings.ToUpper(line) {
				return titleCase(strings.ToLower(line))
			}
			return line
		}
	}

	// 退化策略：用邮箱用户名拼出姓名。
	if email := emailPattern.FindString(text); email != "" {
		local := strings.SplitN(email, "@", 2)[0]
		cleaned := emailLocalCleanup.ReplaceAllString(local, " ")
		words := strings.Fields(titleCase(cleaned))
		if len(words) >= 2 && len(words) <= 4 {
			return strings.Join(words, " ")
		}
	}

	return ""
}

// CleanPhoneNumber 规整电话号码：裸10位按印度区号补+91，
// 12位且以91开头补+，已带+的原样保留，其余返回原始文本。
func CleanPhoneNumber(phone string) string {
	var b strings.Builder
	for i, r := range phone {
		if r >= '0' && r <= '9' || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	switch {
	case len(cleaned) == 10:
		return "+91" + cleaned
	case len(cleaned) == 12 && strings.HasPrefix(cleaned, "91"):
		return "+" + cleaned
	case strings.HasPrefix(cleaned, "+"):
		return cleaned
	}
	return phone
}

// extractLocation 先找带地址提示词的行，再找形似"City, State"的行。
func extractLocation(contactLines []string) string {
	for _, line := range contactLines {
		if containsAnyFold(line, locationIndicators) {
			return line
		}
	}

	for _, line := range contactLines {
		if !capitalizedPlace.MatchString(line) {
			continue
		}
		if strings.Contains(line, "@") || phonePattern.MatchString(line) {
			continue
		}
		return line
	}
	return ""
}

func containsAnyFold(line string, words []string) bool {
	lower := strings.ToLower(line)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func anyWordNumeric(words []string) bool {
	for _, w := range words {
		numeric := len(w) > 0
		for _, r := range w {
			if r < '0' || r > '9' {
				numeric = false
				break
			}
		}
		if numeric {
			return true
		}
	}
	return false
}

// titleCase 把每个词首字母大写，其余小写。
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
