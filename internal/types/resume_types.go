package types

import (
	"encoding/json"
	"strconv"
)

// GPAValue 表示简历中的绩点原始值。
// 上游来源可能是字符串("8.73"、"GPA: 3.8/4.0")、数字(8.73)或缺失(null)，
// 解析失败时不报错，只做标记，由评分层决定如何降级处理。
type GPAValue struct {
	Raw     string // 原始文本形式，缺失时为空字符串
	Invalid bool   // 字段存在但不是可转为文本的标量(如对象/数组)
}

// UnmarshalJSON 宽容地接受字符串、数字和null，其余类型标记为Invalid。
func (g *GPAValue) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		g.Invalid = true
		return nil
	}
	switch val := v.(type) {
	case nil:
		g.Raw = ""
	case string:
		g.Raw = val
	case float64:
		g.Raw = strconv.FormatFloat(val, 'f', -1, 64)
	default:
		g.Invalid = true
	}
	return nil
}

// MarshalJSON 序列化为原始文本，缺失时为null。
func (g GPAValue) MarshalJSON() ([]byte, error) {
	if g.Raw == "" {
		return []byte("null"), nil
	}
	return json.Marshal(g.Raw)
}

// IsZero 判断字段是否缺失。
func (g GPAValue) IsZero() bool {
	return g.Raw == "" && !g.Invalid
}

// ContactInfo 简历联系信息。所有字段都可能为空。
type ContactInfo struct {
	Name      string   `json:"name,omitempty"`
	Email     string   `json:"email,omitempty"`
	Phone     []string `json:"phone,omitempty"`
	Location  string   `json:"location,omitempty"`
	LinkedIn  string   `json:"linkedin,omitempty"`
	Portfolio string   `json:"portfolio,omitempty"`
}

// EducationEntry 教育经历条目。
type EducationEntry struct {
	Degree      string   `json:"degree,omitempty"`
	Institution string   `json:"institution,omitempty"`
	Years       string   `json:"years,omitempty"` // 年份区间，如 "2022 - 2025"
	Year        string   `json:"year,omitempty"`  // 单一年份
	GPA         GPAValue `json:"gpa,omitempty"`
	Percentage  string   `json:"percentage,omitempty"`
}

// ExperienceEntry 工作经历条目。
type ExperienceEntry struct {
	Position    string   `json:"position,omitempty"`
	Company     string   `json:"company,omitempty"`
	Duration    string   `json:"duration,omitempty"`
	Location    string   `json:"location,omitempty"`
	Description []string `json:"description,omitempty"`
}

// ProjectEntry 项目经历条目。Title是唯一的标识字段。
type ProjectEntry struct {
	Title        string   `json:"title"`
	Role         string   `json:"role,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	Description  []string `json:"description,omitempty"`
	Duration     string   `json:"duration,omitempty"`
}

// LanguageEntry 语言能力条目。
type LanguageEntry struct {
	Language    string `json:"language"`
	Proficiency string `json:"proficiency"`
}

// StructuredResume 结构化简历，一次解析调用的聚合产物。
// 构造完成后不再修改；规则引擎和LLM解析器都输出这一结构，
// 评分层对两种来源一视同仁。
type StructuredResume struct {
	PersonalInfo   ContactInfo       `json:"personal_info"`
	Summary        string            `json:"summary,omitempty"`
	Education      []EducationEntry  `json:"education"`
	Experience     []ExperienceEntry `json:"experience"`
	Skills         []string          `json:"skills"`
	Projects       []ProjectEntry    `json:"projects"`
	Languages      []LanguageEntry   `json:"languages"`
	Certifications []string          `json:"certifications"`
	Achievements   []string          `json:"achievements"`
	Interests      []string          `json:"interests"`
}

// JobRequirement 岗位要求画像。字段缺失按空处理，不报错。
type JobRequirement struct {
	RequiredSkills []string `json:"required_skills"`
	OptionalSkills []string `json:"optional_skills"`
	PreferredRoles []string `json:"preferred_roles"`
	MinimumGPA     float64  `json:"minimum_gpa"` // 4.0制
}

// SkillCategoryScore 技能类目得分明细。
type SkillCategoryScore struct {
	Matched []string `json:"matched"`
	Missing []string `json:"missing,omitempty"`
	Score   float64  `json:"score"`
}

// EducationScore 教育类目得分明细。
type EducationScore struct {
	GPA   string  `json:"gpa,omitempty"`
	Score float64 `json:"score"`
}

// RoleMatchScore 角色匹配类目得分明细。
type RoleMatchScore struct {
	Matched bool    `json:"matched"`
	Score   float64 `json:"score"`
}

// BonusScore 经验加分明细。
type BonusScore struct {
	Score float64 `json:"score"`
}

// ScoreBreakdown 各类目逐项得分。无论类目是否得分，字段都会填充。
type ScoreBreakdown struct {
	RequiredSkills  SkillCategoryScore `json:"required_skills"`
	OptionalSkills  SkillCategoryScore `json:"optional_skills"`
	Education       EducationScore     `json:"education"`
	RoleMatch       RoleMatchScore     `json:"role_match"`
	ExperienceBonus BonusScore         `json:"experience_bonus"`
}

// ScoreReport ATS评分结果。
// 各类目满分之和为105(50+20+15+15+5)，最终分封顶100。
type ScoreReport struct {
	FinalScore float64        `json:"final_score"`
	OutOf      int            `json:"out_of"`
	Breakdown  ScoreBreakdown `json:"breakdown"`
}

// SkillSuggestion 针对单个技能的改进建议。
type SkillSuggestion struct {
	Skill      string `json:"skill"`
	Importance string `json:"importance"`
	Action     string `json:"action"`
}

// ProjectSuggestion 项目层面的差距提示。
type ProjectSuggestion struct {
	Issue      string `json:"issue"`
	Suggestion string `json:"suggestion"`
}

// Improvements 差距分析产物。
type Improvements struct {
	CriticalMissingSkills     []SkillSuggestion   `json:"critical_missing_skills"`
	RecommendedSkillAdditions []SkillSuggestion   `json:"recommended_skill_additions"`
	ProjectImprovements       []ProjectSuggestion `json:"project_improvements"`
	SummaryImprovements       []string            `json:"summary_improvements"`
	EstimatedScoreAfterFix    float64             `json:"estimated_score_after_fix"`
}

// Confidence 角色推荐置信度档位。
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// RoleSuggestion 单条角色推荐。Signals记录信号来源(experience/projects/summary/skills)。
type RoleSuggestion struct {
	Role       string     `json:"role"`
	Confidence Confidence `json:"confidence"`
	Score      int        `json:"score"`
	Signals    []string   `json:"signals"`
}

// RoleSuggestions 角色推荐结果集。
type RoleSuggestions struct {
	TopRoles       []RoleSuggestion `json:"top_roles"`
	RoadmapAllowed bool             `json:"roadmap_allowed"`
}

// 粗粒度资历分级标签，由规则级联按序判定。
const (
	LevelExperienced    = "Experienced Professional"
	LevelStrongProjects = "Entry-Level Developer (Strong Projects)"
	LevelBeginner       = "Beginner"
	LevelEntry          = "Entry-Level"
)

// AnalysisArtifacts 一次完整分析的全部产物，直接JSON序列化返回给调用方。
type AnalysisArtifacts struct {
	Resume       *StructuredResume `json:"resume"`
	Job          *JobRequirement   `json:"job"`
	Score        *ScoreReport      `json:"ats_score"`
	Improvements *Improvements     `json:"improvements"`
	Roles        *RoleSuggestions  `json:"role_suggestions"`
	CurrentLevel string            `json:"current_level"`
}
