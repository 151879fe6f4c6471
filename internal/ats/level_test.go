package ats

import (
	"testing"

	"resume-iq-go/internal/types"

	"github.com/stretchr/testify/assert"
)

// TestDetectCurrentLevel 验证资历分级的规则级联
func TestDetectCurrentLevel(t *testing.T) {
	highScore := &types.ScoreReport{FinalScore: 80}
	lowScore := &types.ScoreReport{FinalScore: 30}

	projects := func(n int) []types.ProjectEntry {
		out := make([]types.ProjectEntry, n)
		for i := range out {
			out[i] = types.ProjectEntry{Title: "P"}
		}
		return out
	}

	// 经历检查优先于项目数量: 有1条经历、0个项目仍是Experienced
	withExp := &types.StructuredResume{
		Experience: []types.ExperienceEntry{{Position: "Engineer"}},
	}
	assert.Equal(t, types.LevelExperienced, DetectCurrentLevel(withExp, lowScore), "有工作经历时应判定为Experienced，且优先于项目规则")

	// 项目>=3且分数>=50 -> Strong Projects
	strong := &types.StructuredResume{Projects: projects(3)}
	assert.Equal(t, types.LevelStrongProjects, DetectCurrentLevel(strong, highScore), "3个项目且高分应判定为Strong Projects")

	// 项目>=3但分数不足 -> Entry-Level
	assert.Equal(t, types.LevelEntry, DetectCurrentLevel(strong, lowScore), "3个项目但低分应判定为Entry-Level")

	// 项目<=1 -> Beginner
	assert.Equal(t, types.LevelBeginner, DetectCurrentLevel(&types.StructuredResume{Projects: projects(1)}, highScore), "1个项目应判定为Beginner")
	assert.Equal(t, types.LevelBeginner, DetectCurrentLevel(&types.StructuredResume{}, nil), "空简历应判定为Beginner")

	// 2个项目 -> Entry-Level
	assert.Equal(t, types.LevelEntry, DetectCurrentLevel(&types.StructuredResume{Projects: projects(2)}, highScore), "2个项目应判定为Entry-Level")
}
