package parser

import (
	"sort"
	"strings"

	"resume-iq-go/internal/types"
)

// SectionRule 单个章节的标题识别规则：Tag加一组标题关键短语。
// 规则列表的顺序就是判定优先级：一行文本可能同时匹配多个章节的短语，
// 固定的优先序是唯一的裁决依据，保证输出可复现。
type SectionRule struct {
	Tag     types.SectionTag
	Phrases []string
}

// DefaultSectionCatalog 返回内置的章节目录(含优先级顺序)。
func DefaultSectionCatalog() []SectionRule {
	return []SectionRule{
		{types.SectionContact, []string{
			"contact", "contact information", "contact details",
			"personal information", "personal details", "address",
			"phone", "email", "mobile", "telephone",
		}},
		{types.SectionEducation, []string{
			"education", "academic", "qualifications", "academic background",
			"educational background", "degrees", "academic qualifications",
			"university", "college", "schooling",
		}},
		{types.SectionExperience, []string{
			"experience", "work experience", "employment", "employment history",
			"work history", "professional experience", "career history",
			"employment record", "professional background",
		}},
		{types.SectionSkills, []string{
			"skills", "technical skills", "core competencies", "competencies",
			"expertise", "areas of expertise", "technical expertise",
			"capabilities", "abilities", "proficiencies",
		}},
		{types.SectionProjects, []string{
			"projects", "project experience", "portfolio", "project work",
			"selected projects", "key projects", "project portfolio",
		}},
		{types.SectionSummary, []string{
			"summary", "profile", "objective", "career objective",
			"professional summary", "executive summary", "profile summary",
			"about me", "personal profile", "career profile",
		}},
		{types.SectionLanguages, []string{
			"languages", "language skills", "language proficiency",
			"linguistic skills",
		}},
		{types.SectionCertifications, []string{
			"certifications", "certificates", "licenses", "licenses and certifications",
			"professional certifications", "awards and certifications",
		}},
		{types.SectionAchievements, []string{
			"achievements", "awards", "honors", "accomplishments",
			"recognition", "honors and awards",
		}},
		{types.SectionInterests, []string{
			"interests", "hobbies", "extracurricular", "activities",
			"personal interests",
		}},
	}
}

// Segmenter 章节切分器：把行序列映射为一组章节边界。
type Segmenter struct {
	catalog []SectionRule
}

// NewSegmenter 基于给定章节目录构造切分器。
func NewSegmenter(catalog []SectionRule) *Segmenter {
	return &Segmenter{catalog: catalog}
}

// NewDefaultSegmenter 使用内置章节目录构造切分器。
func NewDefaultSegmenter() *Segmenter {
	return NewSegmenter(DefaultSectionCatalog())
}

// phraseMatches 判断一行是否命中标题短语：
// 行以短语开头，或短语作为被空白包围的子串出现，
// 或去掉全部空白后短语被行包含(兼容"S K I L L S"这类隔空标题)。
func phraseMatches(lineLower, phrase string) bool {
	if strings.HasPrefix(lineLower, phrase) {
		return true
	}
	if strings.Contains(" "+lineLower+" ", " "+phrase+" ") {
		return true
	}
	lineCompressed := strings.ReplaceAll(lineLower, " ", "")
	phraseCompressed := strings.ReplaceAll(phrase, " ", "")
	return strings.Contains(lineCompressed, phraseCompressed)
}

// headerTag 返回该行命中的第一个章节Tag(按目录优先级)，未命中返回false。
func (s *Segmenter) headerTag(line string) (types.SectionTag, bool) {
	lineLower := strings.ToLower(strings.TrimSpace(line))
	if lineLower == "" {
		return "", false
	}
	for _, rule := range s.catalog {
		for _, phrase := range rule.Phrases {
			if phraseMatches(lineLower, phrase) {
				return rule.Tag, true
			}
		}
	}
	return "", false
}

// Segment 扫描整个行序列并产出章节边界。
// 每个Tag只记录首次出现的标题行，之后的重复标题被忽略；
// 区间为半开 [标题行+1, 下一个标题行)，最后一个章节到文档末尾。
// 未检出标题的章节不出现在结果里。
func (s *Segmenter) Segment(lines []string) []types.SectionBoundary {
	type header struct {
		tag  types.SectionTag
		line int
	}
	var headers []header
	seen := make(map[types.SectionTag]struct{})

	for i, line := range lines {
		tag, ok := s.headerTag(line)
		if !ok {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		headers = append(headers, header{tag: tag, line: i})
	}

	sort.Slice(headers, func(i, j int) bool {
		return headers[i].line < headers[j].line
	})

	boundaries := make([]types.SectionBoundary, 0, len(headers))
	for i, h := range headers {
		end := len(lines)
		if i+1 < len(headers) {
			end = headers[i+1].line
		}
		boundaries = append(boundaries, types.SectionBoundary{
			Tag:       h.tag,
			StartLine: h.line + 1,
			EndLine:   end,
		})
	}
	return boundaries
}

// SectionLines 按Tag取出章节内容行(不含标题行)。章节缺失时返回空切片。
func SectionLines(lines []string, boundaries []types.SectionBoundary, tag types.SectionTag) []string {
	for _, b := range boundaries {
		if b.Tag != tag {
			continue
		}
		start, end := b.StartLine, b.EndLine
		if start < 0 {
			start = 0
		}
		if end > len(lines) {
			end = len(lines)
		}
		if start >= end {
			return nil
		}
		return lines[start:end]
	}
	return nil
}
