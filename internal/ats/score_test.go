package ats

import (
	"testing"

	"resume-iq-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScoreEndToEnd 验证一个完整的评分场景，覆盖五个类目的组合计算
func TestScoreEndToEnd(t *testing.T) {
	scorer := NewScorer(NewDefaultCanonicalizer())

	resume := &types.StructuredResume{
		Summary: "Flutter developer",
		Skills:  []string{"Flutter", "Git"},
		Projects: []types.ProjectEntry{
			{
				Title:        "X",
				Technologies: []string{"Dart"},
				Description:  []string{"built app"},
			},
		},
		Education: []types.EducationEntry{
			{GPA: types.GPAValue{Raw: "8.73"}},
		},
	}
	job := &types.JobRequirement{
		RequiredSkills: []string{"Flutter", "Firebase"},
		OptionalSkills: []string{"Dart"},
		PreferredRoles: []string{"Flutter Developer"},
		MinimumGPA:     3.0,
	}

	report := scorer.Score(resume, job)
	require.NotNil(t, report, "评分报告不应为nil")

	// 必备技能: flutter命中, firebase缺失 -> 1/2 * 50 = 25
	assert.Equal(t, []string{"flutter"}, report.Breakdown.RequiredSkills.Matched, "必备技能命中列表不符")
	assert.Equal(t, []string{"firebase"}, report.Breakdown.RequiredSkills.Missing, "必备技能缺失列表不符")
	assert.Equal(t, 25.0, report.Breakdown.RequiredSkills.Score, "必备技能得分不符")

	// 加分技能: dart来自项目技术栈 -> 1/1 * 20 = 20
	assert.Equal(t, []string{"dart"}, report.Breakdown.OptionalSkills.Matched, "加分技能命中列表不符")
	assert.Equal(t, 20.0, report.Breakdown.OptionalSkills.Score, "加分技能得分不符")

	// 教育: 8.73(10分制) -> 3.492 >= 3.0 -> 满分15
	assert.Equal(t, 15.0, report.Breakdown.Education.Score, "教育得分不符")

	// 角色匹配: "flutter developer"在摘要中原样出现 -> 4/10 * 15 = 6
	assert.True(t, report.Breakdown.RoleMatch.Matched, "角色匹配标记应为true")
	assert.Equal(t, 6.0, report.Breakdown.RoleMatch.Score, "角色匹配得分不符")

	// 经验加分: 相关项目0个, 摘要非空 -> 1
	assert.Equal(t, 1.0, report.Breakdown.ExperienceBonus.Score, "经验加分不符")

	assert.Equal(t, 67.0, report.FinalScore, "最终得分不符")
	assert.Equal(t, 100, report.OutOf, "满分应为100")
}

// TestScoreEmptyInputs 验证空简历对空岗位要求的边界行为
func TestScoreEmptyInputs(t *testing.T) {
	scorer := NewScorer(NewDefaultCanonicalizer())

	report := scorer.Score(&types.StructuredResume{}, &types.JobRequirement{})
	require.NotNil(t, report)

	// 所有类目为空时各项都是0分，不应出现除零或panic
	assert.Equal(t, 0.0, report.FinalScore, "空输入的最终得分应为0")
	assert.Empty(t, report.Breakdown.RequiredSkills.Matched, "空岗位要求不应有命中技能")
	assert.Empty(t, report.Breakdown.RequiredSkills.Missing, "空岗位要求不应有缺失技能")
	assert.False(t, report.Breakdown.RoleMatch.Matched, "无期望角色时不应匹配")
}

// TestScoreUpperBound 验证总分封顶100
func TestScoreUpperBound(t *testing.T) {
	scorer := NewScorer(NewDefaultCanonicalizer())

	// 构造一份各类目都拿满分的简历: 50+20+15+15+5 = 105 -> 封顶100
	resume := &types.StructuredResume{
		Summary: "experienced flutter developer with strong mobile background",
		Skills:  []string{"Flutter", "Dart", "Git", "Firebase"},
		Projects: []types.ProjectEntry{
			{Title: "App A", Role: "Flutter Developer", Technologies: []string{"Flutter"}, Description: []string{"flutter developer work"}},
			{Title: "App B", Technologies: []string{"Dart"}, Description: []string{"dart tooling"}},
			{Title: "App C", Technologies: []string{"Git"}, Description: []string{"automation"}},
			{Title: "App D", Technologies: []string{"Firebase"}, Description: []string{"push notifications"}},
		},
		Education: []types.EducationEntry{
			{GPA: types.GPAValue{Raw: "3.9"}},
		},
	}
	job := &types.JobRequirement{
		RequiredSkills: []string{"Flutter", "Dart", "Git", "Firebase"},
		OptionalSkills: []string{"Flutter"},
		PreferredRoles: []string{"Flutter Developer"},
		MinimumGPA:     3.0,
	}

	report := scorer.Score(resume, job)
	require.NotNil(t, report)

	assert.Equal(t, 50.0, report.Breakdown.RequiredSkills.Score, "必备技能应拿满分")
	assert.Equal(t, 20.0, report.Breakdown.OptionalSkills.Score, "加分技能应拿满分")
	assert.Equal(t, 15.0, report.Breakdown.Education.Score, "教育应拿满分")
	assert.LessOrEqual(t, report.FinalScore, 100.0, "最终得分不应超过100")
	assert.Equal(t, 100.0, report.FinalScore, "各类目满分时最终得分应封顶在100")
}

// TestScoreEducationPartialCredit 验证绩点字段损坏时走固定部分学分路径
func TestScoreEducationPartialCredit(t *testing.T) {
	scorer := NewScorer(NewDefaultCanonicalizer(), WithEducationPartialCredit(10))

	resume := &types.StructuredResume{
		Education: []types.EducationEntry{
			{GPA: types.GPAValue{Invalid: true}},
		},
	}
	job := &types.JobRequirement{MinimumGPA: 3.0}

	report := scorer.Score(resume, job)
	assert.Equal(t, 10.0, report.Breakdown.Education.Score, "绩点损坏时应授予固定部分学分")

	// 绩点缺失按0.0参与阈值比较 -> 0分
	resume.Education[0].GPA = types.GPAValue{}
	report = scorer.Score(resume, job)
	assert.Equal(t, 0.0, report.Breakdown.Education.Score, "绩点缺失时教育得分应为0")
}

// TestScoreDeterministic 验证相同输入产生完全相同的输出
func TestScoreDeterministic(t *testing.T) {
	scorer := NewScorer(NewDefaultCanonicalizer())

	resume := &types.StructuredResume{
		Summary: "backend engineer",
		Skills:  []string{"Python programming", "REST API", "Git version control"},
		Projects: []types.ProjectEntry{
			{Title: "Billing", Technologies: []string{"Python"}, Description: []string{"rest api backend"}},
		},
	}
	job := &types.JobRequirement{
		RequiredSkills: []string{"Python", "Django"},
		OptionalSkills: []string{"REST API"},
		PreferredRoles: []string{"Backend Engineer"},
	}

	first := scorer.Score(resume, job)
	for i := 0; i < 5; i++ {
		again := scorer.Score(resume, job)
		assert.Equal(t, first, again, "相同输入的第%d次评分结果应完全一致", i+1)
	}
}

// TestSkillMatcherLevels 验证技能匹配的三级回退
func TestSkillMatcherLevels(t *testing.T) {
	canon := NewDefaultCanonicalizer()
	matcher := NewSkillMatcher(canon)

	keywords := map[string]struct{}{
		"python":          {},
		"version control": {},
	}
	descs := []string{"built a docker based deployment pipeline"}

	// 级别1: 关键词精确命中
	assert.True(t, matcher.IsSkillMatch("Python programming", keywords, descs), "python应通过关键词命中")

	// 级别2: 项目描述子串命中
	assert.True(t, matcher.IsSkillMatch("Docker", keywords, descs), "docker应通过项目描述命中")

	// 级别3: 同义词表命中(岗位要求git, 简历只写了version control)
	assert.True(t, matcher.IsSkillMatch("Git", keywords, descs), "git应通过同义词version control命中")

	// 三级都未命中
	assert.False(t, matcher.IsSkillMatch("Kubernetes", keywords, descs), "kubernetes不应命中")

	// 通用填充词被剔除后不应误命中
	assert.False(t, matcher.IsSkillMatch("Rust development", keywords, descs), "development填充词不应导致误命中")
}
