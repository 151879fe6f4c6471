package parser

import (
	"regexp"
	"strings"

	"resume-iq-go/internal/types"
)

// 新教育条目的触发特征：学位词、院校词或年份。
var (
	eduDegreeTrigger      = regexp.MustCompile(`(?i)\b(?:B\.?[AS]|M\.?[AS]|PhD|Bachelor|Master|Diploma|Certificate)\b`)
	eduInstitutionTrigger = regexp.MustCompile(`(?i)\b(?:University|College|Institute|School|Academy)\b`)
)

// 学位提取按确定性降序排列，先本科后硕士再博士、文凭。
var degreePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:Bachelor\s+(?:of\s+)?\w+|B\.?[AS]\b\.?(?:\s+[A-Z]+)?)`),
	regexp.MustCompile(`(?i)(?:Master\s+(?:of\s+)?\w+|M\.?[AS]\b\.?(?:\s+[A-Z]+)?)`),
	regexp.MustCompile(`(?i)PhD|Doctorate|Doctor of Philosophy`),
	regexp.MustCompile(`(?i)Diploma|Certificate|Associate`),
}

// 院校提取模式区分大小写，靠专有名词的大写特征定位。
var institutionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:University|College|Institute|School|Academy)\b.*`),
	regexp.MustCompile(`^[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*(?:\s+(?:University|College|Institute))?`),
}

// 院校候选若实际是学位文本则拒绝。
var institutionReject = regexp.MustCompile(`(?i)\b(?:B\.?|M\.?|Bachelor|Master)\b`)

// EducationExtractor 把教育章节的行折叠为条目列表。
type EducationExtractor struct{}

// NewEducationExtractor 构造教育信息提取器。
func NewEducationExtractor() *EducationExtractor {
	return &EducationExtractor{}
}

// Extract 逐行扫描：遇到新条目特征且当前条目非空时先落盘，
// 每一行都会尝试往当前条目补字段，字段首次写入后不再覆盖。
func (e *EducationExtractor) Extract(eduLines []string) []types.EducationEntry {
	var education []types.EducationEntry
	var current types.EducationEntry
	hasCurrent := false

	for _, line := range eduLines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		isNewEntry := eduDegreeTrigger.MatchString(line) ||
			eduInstitutionTrigger.MatchString(line) ||
			yearRangePattern.MatchString(line) ||
			yearPattern.MatchString(line)

		if isNewEntry && hasCurrent {
			education = append(education, current)
			current = types.EducationEntry{}
			hasCurrent = false
		}

		if fillEducationEntry(line, &current) {
			hasCurrent = true
		}
	}

	if hasCurrent {
		education = append(education, current)
	}

	return education
}

// fillEducationEntry 从单行中补齐条目字段，返回是否写入了任何字段。
func fillEducationEntry(line string, entry *types.EducationEntry) bool {
	wrote := false

	if entry.Degree == "" {
		for _, pattern := range degreePatterns {
			if m := pattern.FindString(line); m != "" {
				entry.Degree = m
				wrote = true
				break
			}
		}
	}

	if entry.Institution == "" {
		for _, pattern := range institutionPatterns {
			m := pattern.FindString(line)
			if m == "" {
				continue
			}
			if institutionReject.MatchString(m) {
				continue
			}
			entry.Institution = m
			wrote = true
			break
		}
	}

	if m := yearRangePattern.FindString(line); m != "" {
		if entry.Years == "" {
			entry.Years = m
			wrote = true
		}
	} else if m := yearPattern.FindString(line); m != "" {
		if entry.Year == "" {
			entry.Year = m
			wrote = true
		}
	}

	if m := gpaPattern.FindString(line); m != "" && entry.GPA.Raw == "" {
		entry.GPA = types.GPAValue{Raw: m}
		wrote = true
	}

	if m := percentagePattern.FindString(line); m != "" && entry.Percentage == "" {
		entry.Percentage = m
		wrote = true
	}

	return wrote
}
