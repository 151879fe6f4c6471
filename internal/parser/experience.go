package parser

import (
	"regexp"
	"strings"

	"resume-iq-go/internal/types"
)

// 新经历条目的触发特征：时间区间、在职标记、
// "名词短语+标点"的抬头、或带公司后缀的组织名。
var (
	presentTrigger   = regexp.MustCompile(`(?i)\b(?:Present|Current)\b`)
	headingTrigger   = regexp.MustCompile(`^[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\s*[,:-]`)
	orgSuffixTrigger = regexp.MustCompile(`^[A-Z][A-Za-z\s&]+(?:\.com|Inc|Ltd|Corp|LLC)$`)
)

// ExperienceExtractor 把工作经历章节按缓冲-冲刷方式切成条目。
type ExperienceExtractor struct{}

// NewExperienceExtractor 构造工作经历提取器。
func NewExperienceExtractor() *ExperienceExtractor {
	return &ExperienceExtractor{}
}

// Extract 逐行累积到缓冲区，遇到新条目特征时把已有缓冲整体
// 解析为一条经历，最后冲刷残余缓冲。
func (e *ExperienceExtractor) Extract(expLines []string) []types.ExperienceEntry {
	var experience []types.ExperienceEntry
	var buffer []string

	flush := func() {
		if len(buffer) == 0 {
			return
		}
		experience = append(experience, processExperienceEntry(buffer))
		buffer = nil
	}

	for _, line := range expLines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		isNewEntry := yearRangePattern.MatchString(line) ||
			presentTrigger.MatchString(line) ||
			headingTrigger.MatchString(line) ||
			orgSuffixTrigger.MatchString(line)

		if isNewEntry {
			flush()
		}
		buffer = append(buffer, line)
	}
	flush()

	return experience
}

// processExperienceEntry 把一组连续行解析为单条经历。
// 首行按 " at " / " - " / ", " 的顺序拆出职位与公司，
// 其余行去掉时间区间后作为描述。
func processExperienceEntry(lines []string) types.ExperienceEntry {
	entry := types.ExperienceEntry{Description: []string{}}

	limit := len(lines)
	if limit > 3 {
		limit = 3
	}
	for _, line := range lines[:limit] {
		if m := yearRangePattern.FindString(line); m != "" {
			entry.Duration = m
			break
		}
	}

	first := lines[0]
	switch {
	case strings.Contains(first, " at "):
		parts := strings.SplitN(first, " at ", 2)
		entry.Position = strings.TrimSpace(parts[0])
		entry.Company = strings.TrimSpace(parts[1])
	case strings.Contains(first, " - "):
		parts := strings.SplitN(first, " - ", 2)
		entry.Company = strings.TrimSpace(parts[0])
		entry.Position = strings.TrimSpace(parts[1])
	case strings.Contains(first, ", "):
		parts := strings.SplitN(first, ", ", 2)
		entry.Position = strings.TrimSpace(parts[0])
		entry.Company = strings.TrimSpace(parts[1])
	default:
		entry.Position = first
	}

	for _, line := range lines[1:] {
		if yearRangePattern.MatchString(line) {
			continue
		}
		entry.Description = append(entry.Description, line)
	}

	return entry
}
