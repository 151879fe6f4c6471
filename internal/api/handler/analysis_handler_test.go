package handler

import (
	"context"
	"errors"
	"testing"

	"resume-iq-go/internal/config"
	"resume-iq-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubJobParser 测试用的岗位解析器，返回预置的技能画像
type stubJobParser struct {
	job types.JobRequirement
	err error
}

func (s *stubJobParser) Parse(ctx context.Context, jobRole string) (types.JobRequirement, error) {
	if s.err != nil {
		return types.JobRequirement{}, s.err
	}
	return s.job, nil
}

func newAnalyzeTestHandler() *ResumeHandler {
	// 同步分析链路不碰存储和队列，storage/service传nil即可
	return NewResumeHandler(&config.Config{}, nil, nil)
}

func sampleResume() types.StructuredResume {
	return types.StructuredResume{
		Summary: "Flutter developer",
		Skills:  []string{"Flutter", "Git"},
		Projects: []types.ProjectEntry{
			{Title: "X", Technologies: []string{"Dart"}, Description: []string{"built app"}},
		},
		Education: []types.EducationEntry{
			{GPA: types.GPAValue{Raw: "8.73"}},
		},
	}
}

func sampleJob() *types.JobRequirement {
	return &types.JobRequirement{
		RequiredSkills: []string{"Flutter", "Firebase"},
		OptionalSkills: []string{"Dart"},
		PreferredRoles: []string{"Flutter Developer"},
		MinimumGPA:     3.0,
	}
}

// TestHandleAnalyzeDocumentsInlineJob 验证直接提交岗位要求的同步分析全链路
func TestHandleAnalyzeDocumentsInlineJob(t *testing.T) {
	h := newAnalyzeTestHandler()

	artifacts, err := h.HandleAnalyzeDocuments(context.Background(), &AnalyzeDocumentsRequest{
		Resume: sampleResume(),
		Job:    sampleJob(),
	})
	require.NoError(t, err, "同步分析不应失败")
	require.NotNil(t, artifacts)

	require.NotNil(t, artifacts.Score, "产物应包含评分报告")
	assert.Equal(t, 67.0, artifacts.Score.FinalScore, "最终得分不符")
	assert.Equal(t, []string{"firebase"}, artifacts.Score.Breakdown.RequiredSkills.Missing, "缺失技能不符")

	assert.NotNil(t, artifacts.Roles, "产物应包含角色建议")
	assert.NotNil(t, artifacts.Improvements, "产物应包含改进建议")
	assert.NotEmpty(t, artifacts.CurrentLevel, "产物应包含当前级别")
	require.NotNil(t, artifacts.Job)
	assert.Equal(t, sampleJob().RequiredSkills, artifacts.Job.RequiredSkills, "回显的岗位要求不符")
}

// TestHandleAnalyzeDocumentsDeterministic 同样的输入必须得到同样的产物
func TestHandleAnalyzeDocumentsDeterministic(t *testing.T) {
	h := newAnalyzeTestHandler()
	req := &AnalyzeDocumentsRequest{Resume: sampleResume(), Job: sampleJob()}

	first, err := h.HandleAnalyzeDocuments(context.Background(), req)
	require.NoError(t, err)
	second, err := h.HandleAnalyzeDocuments(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.Score, second.Score, "两次评分报告应完全一致")
	assert.Equal(t, first.Roles, second.Roles, "两次角色建议应完全一致")
	assert.Equal(t, first.Improvements, second.Improvements, "两次改进建议应完全一致")
	assert.Equal(t, first.CurrentLevel, second.CurrentLevel, "两次级别判定应完全一致")
}

// TestHandleAnalyzeDocumentsJobRole 只传岗位名称时走解析器扩展
func TestHandleAnalyzeDocumentsJobRole(t *testing.T) {
	h := newAnalyzeTestHandler()
	h.SetJobParser(&stubJobParser{job: *sampleJob()})

	artifacts, err := h.HandleAnalyzeDocuments(context.Background(), &AnalyzeDocumentsRequest{
		Resume:  sampleResume(),
		JobRole: "Flutter Developer",
	})
	require.NoError(t, err)
	assert.Equal(t, 67.0, artifacts.Score.FinalScore, "经解析器扩展后的得分不符")
}

// TestHandleAnalyzeDocumentsJobRoleParserFailure 解析器出错时向上透传
func TestHandleAnalyzeDocumentsJobRoleParserFailure(t *testing.T) {
	h := newAnalyzeTestHandler()
	h.SetJobParser(&stubJobParser{err: errors.New("上游超时")})

	_, err := h.HandleAnalyzeDocuments(context.Background(), &AnalyzeDocumentsRequest{
		Resume:  sampleResume(),
		JobRole: "Flutter Developer",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "解析岗位要求失败", "错误信息应注明解析失败")
}

// TestHandleAnalyzeDocumentsNoParser 没注入解析器时只传岗位名称应报不可用
func TestHandleAnalyzeDocumentsNoParser(t *testing.T) {
	h := newAnalyzeTestHandler()

	_, err := h.HandleAnalyzeDocuments(context.Background(), &AnalyzeDocumentsRequest{
		Resume:  sampleResume(),
		JobRole: "Flutter Developer",
	})
	assert.ErrorIs(t, err, ErrJobParserUnavailable)
}

// TestHandleAnalyzeDocumentsMissingJob 既没有岗位要求也没有岗位名称
func TestHandleAnalyzeDocumentsMissingJob(t *testing.T) {
	h := newAnalyzeTestHandler()

	_, err := h.HandleAnalyzeDocuments(context.Background(), &AnalyzeDocumentsRequest{
		Resume: sampleResume(),
	})
	assert.ErrorIs(t, err, ErrMissingJobRequirement)
}
