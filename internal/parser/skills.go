package parser

import (
	"regexp"
	"strings"
)

var (
	skillDelimiters = regexp.MustCompile(`[,;•·|/&]|\band\b`)
	parenContent    = regexp.MustCompile(`\([^)]*\)`)
	multiSpace      = regexp.MustCompile(`\s+`)
)

// ExtractSkills 把技能章节合成一段文本后按分隔符拆分，
// 长度校验在去括号之前做，保持与历史行为一致。
func ExtractSkills(skillLines []string) []string {
	skills := []string{}
	seen := make(map[string]struct{})

	text := strings.Join(skillLines, " ")
	for _, item := range skillDelimiters.Split(text, -1) {
		item = strings.TrimSpace(item)
		if len(item) < 2 || len(item) > 50 {
			continue
		}
		item = parenContent.ReplaceAllString(item, "")
		item = strings.TrimSpace(multiSpace.ReplaceAllString(item, " "))
		if item == "" {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		skills = append(skills, item)
	}

	return skills
}
