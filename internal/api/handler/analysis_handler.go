package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"resume-iq-go/internal/ats"
	"resume-iq-go/internal/constants"
	"resume-iq-go/internal/logger"
	"resume-iq-go/internal/processor"
	storage2 "resume-iq-go/internal/storage"
	"resume-iq-go/internal/types"
)

// 查询类接口的业务错误，由路由层映射为HTTP状态码
var (
	ErrSubmissionNotFound    = errors.New("简历提交记录不存在")
	ErrAnalysisNotReady      = errors.New("分析结果尚未生成")
	ErrScoreBelowThreshold   = errors.New("分数未达到路线图生成门槛")
	ErrRoadmapUnavailable    = errors.New("路线图生成器未配置")
	ErrJobParserUnavailable  = errors.New("岗位解析器未配置，无法从岗位名称扩展技能画像")
	ErrMissingJobRequirement = errors.New("缺少岗位要求：需要提供job或job_role")
)

// SubmissionStatusResponse 提交状态查询响应
type SubmissionStatusResponse struct {
	SubmissionUUID   string `json:"submission_uuid"`
	ProcessingStatus string `json:"processing_status"`
	TargetJobRole    string `json:"target_job_role,omitempty"`
	OriginalFilename string `json:"original_filename,omitempty"`
	ParserVersion    string `json:"parser_version,omitempty"`
	ErrorMessage     string `json:"error_message,omitempty"`
}

// AnalysisResponse 分析结果查询响应
type AnalysisResponse struct {
	SubmissionUUID string                   `json:"submission_uuid"`
	Analysis       *types.AnalysisArtifacts `json:"analysis"`
}

// RoadmapResponse 路线图查询/生成响应
type RoadmapResponse struct {
	SubmissionUUID string         `json:"submission_uuid"`
	RequestID      string         `json:"request_id,omitempty"`
	Roadmap        *types.Roadmap `json:"roadmap"`
}

// SetRoadmapGenerator 注入路线图生成器，供按需重新生成路线图的接口使用。
// 未注入时该接口只能回放已有的路线图。
func (h *ResumeHandler) SetRoadmapGenerator(g processor.RoadmapGenerator) {
	h.roadmapGen = g
}

// SetJobParser 注入岗位解析器，同步分析接口只收到岗位名称时用它扩展技能画像。
func (h *ResumeHandler) SetJobParser(p processor.JobParser) {
	h.jobParser = p
}

// AnalyzeDocumentsRequest 同步分析请求：结构化简历加岗位要求。
// 岗位要求二选一：直接给job，或只给job_role由LLM扩展。
type AnalyzeDocumentsRequest struct {
	Resume  types.StructuredResume `json:"resume"`
	Job     *types.JobRequirement  `json:"job,omitempty"`
	JobRole string                 `json:"job_role,omitempty"`
}

// HandleAnalyzeDocuments 同步执行分析流水线，不落库也不走消息队列。
// 给定简历和岗位要求时整条链路是确定性的，同样的输入永远得到同样的结果。
func (h *ResumeHandler) HandleAnalyzeDocuments(ctx context.Context, req *AnalyzeDocumentsRequest) (*types.AnalysisArtifacts, error) {
	var job types.JobRequirement
	switch {
	case req.Job != nil:
		job = *req.Job
	case req.JobRole != "":
		if h.jobParser == nil {
			return nil, ErrJobParserUnavailable
		}
		parsed, err := h.jobParser.Parse(ctx, req.JobRole)
		if err != nil {
			return nil, fmt.Errorf("解析岗位要求失败: %w", err)
		}
		job = parsed
	default:
		return nil, ErrMissingJobRequirement
	}

	resume := req.Resume
	score := h.scorer.Score(&resume, &job)
	roles := h.roles.Suggest(&resume, score)
	improvements := h.improvements.Generate(&resume, &job, score)
	level := ats.DetectCurrentLevel(&resume, score)

	return &types.AnalysisArtifacts{
		Resume:       &resume,
		Job:          &job,
		Score:        score,
		Roles:        roles,
		Improvements: improvements,
		CurrentLevel: level,
	}, nil
}

// HandleGetSubmissionStatus 查询单个提交的处理状态
func (h *ResumeHandler) HandleGetSubmissionStatus(ctx context.Context, submissionUUID string) (*SubmissionStatusResponse, error) {
	submission, err := h.storage.MySQL.GetSubmissionByUUID(ctx, submissionUUID)
	if err != nil {
		return nil, fmt.Errorf("查询提交记录失败: %w", err)
	}
	if submission == nil {
		return nil, ErrSubmissionNotFound
	}
	return &SubmissionStatusResponse{
		SubmissionUUID:   submission.SubmissionUUID,
		ProcessingStatus: submission.ProcessingStatus,
		TargetJobRole:    submission.TargetJobRole,
		OriginalFilename: submission.OriginalFilename,
		ParserVersion:    submission.ParserVersion,
		ErrorMessage:     submission.ErrorMessage,
	}, nil
}

// HandleGetAnalysis 查询分析结果，优先命中Redis缓存，未命中时回源MySQL并回填缓存
func (h *ResumeHandler) HandleGetAnalysis(ctx context.Context, submissionUUID string) (*AnalysisResponse, error) {
	var cached types.AnalysisArtifacts
	err := h.storage.Redis.GetCachedAnalysisResult(ctx, submissionUUID, &cached)
	if err == nil {
		return &AnalysisResponse{
			SubmissionUUID: submissionUUID,
			Analysis:       &cached,
		}, nil
	}
	if !errors.Is(err, storage2.ErrNotFound) {
		logger.Warn().Err(err).Str("submission_uuid", submissionUUID).Msg("查询分析结果缓存失败，回源数据库")
	}

	result, err := h.storage.MySQL.GetAnalysisResultBySubmission(ctx, submissionUUID)
	if err != nil {
		return nil, fmt.Errorf("查询分析结果失败: %w", err)
	}
	if result == nil {
		// 区分"提交不存在"和"分析未完成"
		submission, subErr := h.storage.MySQL.GetSubmissionByUUID(ctx, submissionUUID)
		if subErr != nil {
			return nil, fmt.Errorf("查询提交记录失败: %w", subErr)
		}
		if submission == nil {
			return nil, ErrSubmissionNotFound
		}
		return nil, ErrAnalysisNotReady
	}

	artifacts, err := buildArtifactsFromRecord(result.StructuredResumeJSON, result.JobRequirementJSON,
		result.ScoreReportJSON, result.ImprovementsJSON, result.RoleSuggestionsJSON, result.CurrentLevel)
	if err != nil {
		return nil, err
	}

	// 回填缓存，失败只记录
	if cacheErr := h.storage.Redis.CacheAnalysisResult(ctx, submissionUUID, artifacts); cacheErr != nil {
		logger.Warn().Err(cacheErr).Str("submission_uuid", submissionUUID).Msg("回填分析结果缓存失败")
	}

	return &AnalysisResponse{
		SubmissionUUID: submissionUUID,
		Analysis:       artifacts,
	}, nil
}

// HandleGenerateRoadmap 查询或按需生成学习路线图。
// 已有路线图时直接回放；没有且分数达标时调用LLM生成并落库。
func (h *ResumeHandler) HandleGenerateRoadmap(ctx context.Context, submissionUUID string) (*RoadmapResponse, error) {
	result, err := h.storage.MySQL.GetAnalysisResultBySubmission(ctx, submissionUUID)
	if err != nil {
		return nil, fmt.Errorf("查询分析结果失败: %w", err)
	}
	if result == nil {
		return nil, ErrAnalysisNotReady
	}

	// 幂等：已有路线图直接返回
	if len(result.RoadmapJSON) > 0 {
		var roadmap types.Roadmap
		if err := json.Unmarshal(result.RoadmapJSON, &roadmap); err != nil {
			return nil, fmt.Errorf("反序列化路线图失败: %w", err)
		}
		return &RoadmapResponse{SubmissionUUID: submissionUUID, Roadmap: &roadmap}, nil
	}

	minScore := h.cfg.Scoring.RoadmapMinScore
	if minScore <= 0 {
		minScore = constants.RoadmapMinScore
	}
	if result.FinalScore == nil || *result.FinalScore < minScore {
		return nil, ErrScoreBelowThreshold
	}
	if h.roadmapGen == nil {
		return nil, ErrRoadmapUnavailable
	}

	var score types.ScoreReport
	if err := json.Unmarshal(result.ScoreReportJSON, &score); err != nil {
		return nil, fmt.Errorf("反序列化评分报告失败: %w", err)
	}

	// 每次按需生成分配独立的请求ID，便于和LLM调用日志对账
	requestID := uuid.NewString()
	logger.Info().Str("submission_uuid", submissionUUID).
		Str("request_id", requestID).Msg("按需生成学习路线图")

	roadmap, err := h.roadmapGen.Generate(ctx, result.TargetJobRole, *result.FinalScore,
		score.Breakdown.RequiredSkills.Missing, result.CurrentLevel)
	if err != nil {
		return nil, fmt.Errorf("生成学习路线图失败: %w", err)
	}

	roadmapJSON, err := json.Marshal(roadmap)
	if err != nil {
		return nil, fmt.Errorf("序列化路线图失败: %w", err)
	}
	if err := h.storage.MySQL.UpdateAnalysisRoadmap(ctx, submissionUUID, roadmapJSON); err != nil {
		return nil, fmt.Errorf("保存路线图失败: %w", err)
	}

	return &RoadmapResponse{SubmissionUUID: submissionUUID, RequestID: requestID, Roadmap: &roadmap}, nil
}

// buildArtifactsFromRecord 把数据库中的JSON列还原为分析产物
func buildArtifactsFromRecord(resumeJSON, jobJSON, scoreJSON, improvementsJSON, rolesJSON []byte, currentLevel string) (*types.AnalysisArtifacts, error) {
	artifacts := &types.AnalysisArtifacts{CurrentLevel: currentLevel}

	if len(resumeJSON) > 0 {
		var resume types.StructuredResume
		if err := json.Unmarshal(resumeJSON, &resume); err != nil {
			return nil, fmt.Errorf("反序列化结构化简历失败: %w", err)
		}
		artifacts.Resume = &resume
	}
	if len(jobJSON) > 0 {
		var job types.JobRequirement
		if err := json.Unmarshal(jobJSON, &job); err != nil {
			return nil, fmt.Errorf("反序列化岗位要求失败: %w", err)
		}
		artifacts.Job = &job
	}
	if len(scoreJSON) > 0 {
		var score types.ScoreReport
		if err := json.Unmarshal(scoreJSON, &score); err != nil {
			return nil, fmt.Errorf("反序列化评分报告失败: %w", err)
		}
		artifacts.Score = &score
	}
	if len(improvementsJSON) > 0 {
		var improvements types.Improvements
		if err := json.Unmarshal(improvementsJSON, &improvements); err != nil {
			return nil, fmt.Errorf("反序列化改进建议失败: %w", err)
		}
		artifacts.Improvements = &improvements
	}
	if len(rolesJSON) > 0 {
		var roles types.RoleSuggestions
		if err := json.Unmarshal(rolesJSON, &roles); err != nil {
			return nil, fmt.Errorf("反序列化角色推荐失败: %w", err)
		}
		artifacts.Roles = &roles
	}
	return artifacts, nil
}
