package parser

import (
	"regexp"
	"strings"

	"resume-iq-go/internal/types"
)

var langParenPattern = regexp.MustCompile(`([^(]+)\(([^)]+)\)`)

// 未标注熟练度时的默认值。
const defaultProficiency = "Proficient"

// ExtractLanguages 解析语言章节，支持"语言: 熟练度"与"语言(熟练度)"两种格式。
func ExtractLanguages(langLines []string) []types.LanguageEntry {
	var languages []types.LanguageEntry

	for _, line := range langLines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		entry := types.LanguageEntry{Language: line, Proficiency: defaultProficiency}
		switch {
		case strings.Contains(line, ":"):
			parts := strings.SplitN(line, ":", 2)
			entry.Language = strings.TrimSpace(parts[0])
			entry.Proficiency = strings.TrimSpace(parts[1])
		case strings.Contains(line, "(") && strings.Contains(line, ")"):
			if m := langParenPattern.FindStringSubmatch(line); m != nil {
				entry.Language = strings.TrimSpace(m[1])
				entry.Proficiency = strings.TrimSpace(m[2])
			}
		}
		languages = append(languages, entry)
	}

	return languages
}

// ExtractSummary 把简介章节的行拼接为一段文本。
func ExtractSummary(summaryLines []string) string {
	return strings.Join(summaryLines, " ")
}

// ExtractLineItems 原样收集非空行，用于证书、获奖、兴趣等纯列表章节。
func ExtractLineItems(lines []string) []string {
	items := []string{}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			items = append(items, line)
		}
	}
	return items
}
