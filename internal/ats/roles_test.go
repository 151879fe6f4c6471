package ats

import (
	"testing"

	"resume-iq-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSuggestFallback 验证完全无信号时返回兜底建议
func TestSuggestFallback(t *testing.T) {
	inferencer := NewRoleInferencer()

	// 无经历、无项目、摘要无角色指示词、技能无领域关键词
	resume := &types.StructuredResume{
		Summary: "hardworking and motivated",
		Skills:  []string{"typing"},
	}

	result := inferencer.Suggest(resume, &types.ScoreReport{FinalScore: 40})
	require.NotNil(t, result)
	require.Len(t, result.TopRoles, 1, "无信号时应返回唯一一条兜底建议")

	fallback := result.TopRoles[0]
	assert.Equal(t, "General Professional", fallback.Role, "兜底角色名不符")
	assert.Equal(t, types.ConfidenceLow, fallback.Confidence, "兜底置信度应为Low")
	assert.Equal(t, 0, fallback.Score, "兜底得分应为0")
	assert.Empty(t, fallback.Signals, "兜底建议不应带信号")
	assert.False(t, result.RoadmapAllowed, "40分不应允许生成路线图")
}

// TestSuggestSignalWeights 验证多来源信号的累积与排序
func TestSuggestSignalWeights(t *testing.T) {
	inferencer := NewRoleInferencer()

	resume := &types.StructuredResume{
		Summary: "aspiring flutter developer",
		Experience: []types.ExperienceEntry{
			{Position: "Software Engineer", Company: "Acme"},
		},
		Projects: []types.ProjectEntry{
			{Title: "Shop App", Role: "Flutter Developer"},
		},
		Skills: []string{"marketing campaign management"},
	}

	result := inferencer.Suggest(resume, &types.ScoreReport{FinalScore: 80})
	require.NotNil(t, result)
	require.NotEmpty(t, result.TopRoles)

	// Flutter Developer: 项目职位+5, 摘要角色短语+3 = 8分, 且80分 -> High
	top := result.TopRoles[0]
	assert.Equal(t, "Flutter Developer", top.Role, "得分最高的角色不符")
	assert.Equal(t, 8, top.Score, "多来源信号应累积")
	assert.Equal(t, types.ConfidenceHigh, top.Confidence, "8分信号且高ATS分应为High置信度")
	assert.Equal(t, []string{"projects", "summary"}, top.Signals, "信号来源应按固定顺序输出")

	// Software Engineer: 经历职位+5 -> Medium
	require.GreaterOrEqual(t, len(result.TopRoles), 2)
	second := result.TopRoles[1]
	assert.Equal(t, "Software Engineer", second.Role)
	assert.Equal(t, 5, second.Score)
	assert.Equal(t, types.ConfidenceMedium, second.Confidence, "5分信号应为Medium置信度")

	assert.True(t, result.RoadmapAllowed, "80分应允许生成路线图")
}

// TestSuggestTopN 验证返回条数受topN限制且同分保持出现顺序
func TestSuggestTopN(t *testing.T) {
	inferencer := NewRoleInferencer(WithTopN(2))

	resume := &types.StructuredResume{
		Experience: []types.ExperienceEntry{
			{Position: "Data Analyst"},
			{Position: "Sales Manager"},
			{Position: "Project Coordinator"},
		},
	}

	result := inferencer.Suggest(resume, nil)
	require.NotNil(t, result)
	require.Len(t, result.TopRoles, 2, "返回条数应受topN限制")

	// 三个角色同为5分, 稳定排序下保持首次出现顺序
	assert.Equal(t, "Data Analyst", result.TopRoles[0].Role, "同分时应保持首次出现顺序")
	assert.Equal(t, "Sales Manager", result.TopRoles[1].Role, "同分时应保持首次出现顺序")
}

// TestNormalizeRole 验证角色标签归一
func TestNormalizeRole(t *testing.T) {
	assert.Equal(t, "Flutter Developer", NormalizeRole("flutter developer"))
	assert.Equal(t, "Senior Engineer", NormalizeRole("SENIOR   ENGINEER!"))
	assert.Equal(t, "", NormalizeRole("123"), "纯数字应归一为空")
}
