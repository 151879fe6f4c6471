package parser

import (
	"log"
	"os"

	"resume-iq-go/internal/types"
)

// RuleBasedResumeParser 规则版简历解析器：章节切分加逐章节字段提取，
// 不依赖任何外部模型，作为LLM解析失败时的兜底路径。
type RuleBasedResumeParser struct {
	segmenter  *Segmenter
	contact    *ContactExtractor
	education  *EducationExtractor
	experience *ExperienceExtractor
	projects   *ProjectExtractor
	logger     *log.Logger
}

// RuleParserOption 规则解析器的配置选项
type RuleParserOption func(*RuleBasedResumeParser)

// WithRuleParserLogger 配置自定义日志记录器
func WithRuleParserLogger(logger *log.Logger) RuleParserOption {
	return func(p *RuleBasedResumeParser) {
		p.logger = logger
	}
}

// NewRuleBasedResumeParser 构造规则版简历解析器。
func NewRuleBasedResumeParser(options ...RuleParserOption) *RuleBasedResumeParser {
	p := &RuleBasedResumeParser{
		segmenter:  NewDefaultSegmenter(),
		contact:    NewContactExtractor(),
		education:  NewEducationExtractor(),
		experience: NewExperienceExtractor(),
		projects:   NewProjectExtractor(),
		logger:     log.New(os.Stderr, "[规则解析器] ", log.LstdFlags),
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// Parse 把原始简历文本解析为结构化简历。
// 流程：预处理 -> 章节切分 -> 逐章节提取。未检出的章节保持零值，
// 同样的输入永远得到同样的输出。
func (p *RuleBasedResumeParser) Parse(rawText string) types.StructuredResume {
	lines := Preprocess(rawText)
	boundaries := p.segmenter.Segment(lines)
	p.logger.Printf("章节切分完成: 共 %d 行, 检出 %d 个章节", len(lines), len(boundaries))

	resume := types.StructuredResume{
		Education:      []types.EducationEntry{},
		Experience:     []types.ExperienceEntry{},
		Skills:         []string{},
		Projects:       []types.ProjectEntry{},
		Languages:      []types.LanguageEntry{},
		Certifications: []string{},
		Achievements:   []string{},
		Interests:      []string{},
	}

	contactLines := SectionLines(lines, boundaries, types.SectionContact)
	resume.PersonalInfo = p.contact.Extract(lines, contactLines)

	if sec := SectionLines(lines, boundaries, types.SectionEducation); len(sec) > 0 {
		resume.Education = p.education.Extract(sec)
	}
	if sec := SectionLines(lines, boundaries, types.SectionExperience); len(sec) > 0 {
		resume.Experience = p.experience.Extract(sec)
	}
	if sec := SectionLines(lines, boundaries, types.SectionSkills); len(sec) > 0 {
		resume.Skills = ExtractSkills(sec)
	}
	if sec := SectionLines(lines, boundaries, types.SectionProjects); len(sec) > 0 {
		resume.Projects = p.projects.Extract(sec)
	}
	if sec := SectionLines(lines, boundaries, types.SectionLanguages); len(sec) > 0 {
		resume.Languages = ExtractLanguages(sec)
	}
	if sec := SectionLines(lines, boundaries, types.SectionCertifications); len(sec) > 0 {
		resume.Certifications = ExtractLineItems(sec)
	}
	if sec := SectionLines(lines, boundaries, types.SectionAchievements); len(sec) > 0 {
		resume.Achievements = ExtractLineItems(sec)
	}
	if sec := SectionLines(lines, boundaries, types.SectionInterests); len(sec) > 0 {
		resume.Interests = ExtractLineItems(sec)
	}
	if sec := SectionLines(lines, boundaries, types.SectionSummary); len(sec) > 0 {
		resume.Summary = ExtractSummary(sec)
	}

	return resume
}
