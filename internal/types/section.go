package types

// SectionTag 表示简历章节类型
type SectionTag string

const (
	// SectionContact 联系方式章节
	SectionContact SectionTag = "contact"
	// SectionEducation 教育经历章节
	SectionEducation SectionTag = "education"
	// SectionExperience 工作经历章节
	SectionExperience SectionTag = "experience"
	// SectionSkills 技能章节
	SectionSkills SectionTag = "skills"
	// SectionProjects 项目经历章节
	SectionProjects SectionTag = "projects"
	// SectionSummary 个人简介章节
	SectionSummary SectionTag = "summary"
	// SectionLanguages 语言能力章节
	SectionLanguages SectionTag = "languages"
	// SectionCertifications 证书章节
	SectionCertifications SectionTag = "certifications"
	// SectionAchievements 获奖经历章节
	SectionAchievements SectionTag = "achievements"
	// SectionInterests 兴趣爱好章节
	SectionInterests SectionTag = "interests"
)

// SectionBoundary 单个章节的半开行区间 [StartLine, EndLine)。
// 行号指向预处理后的行序列(空行已剔除)，不包含章节标题行本身。
// 同一文档内各区间互不重叠、按StartLine升序，且每个Tag至多出现一次。
type SectionBoundary struct {
	Tag       SectionTag
	StartLine int
	EndLine   int
}
