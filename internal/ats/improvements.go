package ats

import (
	"fmt"
	"strings"

	"resume-iq-go/internal/types"
)

// 改进建议的分数预估参数：每补齐一个必备技能预估+4分，总增益封顶25分。
const (
	gainPerMissingSkill = 4.0
	maxEstimatedGain    = 25.0
)

// ImprovementGenerator 基于评分明细生成差距分析和改进建议。
type ImprovementGenerator struct {
	canon *Canonicalizer
}

// NewImprovementGenerator 构造改进建议生成器。
func NewImprovementGenerator(canon *Canonicalizer) *ImprovementGenerator {
	return &ImprovementGenerator{canon: canon}
}

// Generate 从评分明细推导改进建议。
// 纯函数，不修改任何输入。
func (g *ImprovementGenerator) Generate(resume *types.StructuredResume, job *types.JobRequirement, report *types.ScoreReport) *types.Improvements {
	improvements := &types.Improvements{
		CriticalMissingSkills:     []types.SkillSuggestion{},
		RecommendedSkillAdditions: []types.SkillSuggestion{},
		ProjectImprovements:       []types.ProjectSuggestion{},
		SummaryImprovements:       []string{},
	}

	missingRequired := report.Breakdown.RequiredSkills.Missing

	// 1. 缺失的必备技能(高优先级)
	for _, skill := range missingRequired {
		improvements.CriticalMissingSkills = append(improvements.CriticalMissingSkills, types.SkillSuggestion{
			Skill:      skill,
			Importance: "High",
			Action:     fmt.Sprintf("Add explicit mention of '%s' in skills section or project descriptions", skill),
		})
	}

	// 2. 未覆盖的加分技能(中优先级)。与matched比较在规范化形式上进行。
	matchedOptional := make(map[string]struct{}, len(report.Breakdown.OptionalSkills.Matched))
	for _, skill := range report.Breakdown.OptionalSkills.Matched {
		matchedOptional[skill] = struct{}{}
	}
	for _, skill := range job.OptionalSkills {
		if _, ok := matchedOptional[g.canon.Canonicalize(skill)]; ok {
			continue
		}
		improvements.RecommendedSkillAdditions = append(improvements.RecommendedSkillAdditions, types.SkillSuggestion{
			Skill:      skill,
			Importance: "Medium",
			Action:     fmt.Sprintf("Add if you have hands-on exposure or coursework related to '%s'", skill),
		})
	}

	// 3. 项目层面的差距：缺失技能的首词没有出现在任何项目描述中
	var sb strings.Builder
	for _, p := range resume.Projects {
		sb.WriteString(strings.ToLower(strings.Join(p.Description, " ")))
		sb.WriteByte(' ')
	}
	projectText := sb.String()

	for _, skill := range missingRequired {
		core := firstToken(skill)
		if core == "" || strings.Contains(projectText, core) {
			continue
		}
		improvements.ProjectImprovements = append(improvements.ProjectImprovements, types.ProjectSuggestion{
			Issue:      fmt.Sprintf("'%s' not demonstrated in projects", skill),
			Suggestion: fmt.Sprintf("Update at least one project to show usage of %s", skill),
		})
	}

	// 4. 摘要层面的差距：只看前3个缺失技能，避免建议过载
	summary := strings.ToLower(resume.Summary)
	for i, skill := range missingRequired {
		if i >= 3 {
			break
		}
		keyword := firstToken(skill)
		if keyword == "" || strings.Contains(summary, keyword) {
			continue
		}
		improvements.SummaryImprovements = append(improvements.SummaryImprovements,
			fmt.Sprintf("Explicitly mention '%s' in your professional summary", skill))
	}

	// 5. 修复后的预估分数
	gain := gainPerMissingSkill * float64(len(missingRequired))
	if gain > maxEstimatedGain {
		gain = maxEstimatedGain
	}
	estimated := report.FinalScore + gain
	if estimated > MaxScore {
		estimated = MaxScore
	}
	improvements.EstimatedScoreAfterFix = round2(estimated)

	return improvements
}

// firstToken 取技能文本(小写)的首个空白分隔词。
func firstToken(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
