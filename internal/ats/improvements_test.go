package ats

import (
	"testing"

	"resume-iq-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGenerateImprovements 验证从评分明细推导改进建议
func TestGenerateImprovements(t *testing.T) {
	canon := NewDefaultCanonicalizer()
	gen := NewImprovementGenerator(canon)

	resume := &types.StructuredResume{
		Summary: "flutter developer",
		Projects: []types.ProjectEntry{
			{Title: "Shop App", Description: []string{"built a flutter shopping app"}},
		},
	}
	job := &types.JobRequirement{
		RequiredSkills: []string{"Flutter", "Firebase", "SQL"},
		OptionalSkills: []string{"Dart", "CI/CD"},
	}
	report := &types.ScoreReport{
		FinalScore: 50,
		Breakdown: types.ScoreBreakdown{
			RequiredSkills: types.SkillCategoryScore{
				Matched: []string{"flutter"},
				Missing: []string{"firebase", "sql"},
			},
			OptionalSkills: types.SkillCategoryScore{
				Matched: []string{"dart"},
			},
		},
	}

	improvements := gen.Generate(resume, job, report)
	require.NotNil(t, improvements)

	// 缺失的必备技能 -> 高优先级建议
	require.Len(t, improvements.CriticalMissingSkills, 2, "每个缺失必备技能应生成一条高优先级建议")
	assert.Equal(t, "firebase", improvements.CriticalMissingSkills[0].Skill)
	assert.Equal(t, "High", improvements.CriticalMissingSkills[0].Importance)

	// 已命中的加分技能不再建议, 未覆盖的才建议
	require.Len(t, improvements.RecommendedSkillAdditions, 1, "已命中的加分技能不应重复建议")
	assert.Equal(t, "CI/CD", improvements.RecommendedSkillAdditions[0].Skill)
	assert.Equal(t, "Medium", improvements.RecommendedSkillAdditions[0].Importance)

	// firebase和sql都没有出现在项目描述中 -> 两条项目层建议
	assert.Len(t, improvements.ProjectImprovements, 2, "未在项目中体现的缺失技能应生成项目层建议")

	// 摘要层建议: firebase和sql都不在摘要中
	assert.Len(t, improvements.SummaryImprovements, 2, "摘要未提及的缺失技能应生成摘要层建议")

	// 预估分数: 50 + 2*4 = 58
	assert.Equal(t, 58.0, improvements.EstimatedScoreAfterFix, "修复后的预估分数不符")
}

// TestGenerateImprovementsGainCap 验证预估增益封顶与总分封顶
func TestGenerateImprovementsGainCap(t *testing.T) {
	gen := NewImprovementGenerator(NewDefaultCanonicalizer())

	manyMissing := []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8"}
	report := &types.ScoreReport{
		FinalScore: 90,
		Breakdown: types.ScoreBreakdown{
			RequiredSkills: types.SkillCategoryScore{Missing: manyMissing},
		},
	}

	improvements := gen.Generate(&types.StructuredResume{}, &types.JobRequirement{}, report)

	// 8*4=32 超过增益上限25 -> 90+25=115 再被总分上限压到100
	assert.Equal(t, 100.0, improvements.EstimatedScoreAfterFix, "预估分数应先封顶增益再封顶总分")

	// 摘要层建议只看前3个缺失技能
	assert.Len(t, improvements.SummaryImprovements, 3, "摘要层建议应限制为前3个缺失技能")
}

// TestGenerateImprovementsNoGaps 验证无缺口时输出空建议而非nil
func TestGenerateImprovementsNoGaps(t *testing.T) {
	gen := NewImprovementGenerator(NewDefaultCanonicalizer())

	report := &types.ScoreReport{
		FinalScore: 95,
		Breakdown: types.ScoreBreakdown{
			RequiredSkills: types.SkillCategoryScore{Matched: []string{"flutter"}},
			OptionalSkills: types.SkillCategoryScore{Matched: []string{"dart"}},
		},
	}
	job := &types.JobRequirement{
		RequiredSkills: []string{"Flutter"},
		OptionalSkills: []string{"Dart"},
	}

	improvements := gen.Generate(&types.StructuredResume{}, job, report)
	require.NotNil(t, improvements)

	assert.Empty(t, improvements.CriticalMissingSkills, "无缺失必备技能时不应有高优先级建议")
	assert.Empty(t, improvements.RecommendedSkillAdditions, "加分技能全命中时不应有建议")
	assert.Empty(t, improvements.ProjectImprovements)
	assert.Empty(t, improvements.SummaryImprovements)
	assert.Equal(t, 95.0, improvements.EstimatedScoreAfterFix, "无缺口时预估分数应等于当前分数")
}
