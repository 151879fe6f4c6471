package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"resume-iq-go/internal/ats"
	"resume-iq-go/internal/config"
	"resume-iq-go/internal/constants"
	"resume-iq-go/internal/logger"
	"resume-iq-go/internal/processor"
	storage2 "resume-iq-go/internal/storage"
	"resume-iq-go/internal/storage/models"
	"resume-iq-go/pkg/utils"

	"github.com/gofrs/uuid/v5"
)

// ResumeHandler 简历处理器，负责协调简历的处理流程
type ResumeHandler struct {
	cfg        *config.Config
	storage    *storage2.Storage       // 聚合的storage实例
	service    processor.ResumeService // 提取与分析流水线
	roadmapGen processor.RoadmapGenerator
	jobParser  processor.JobParser // 同步分析接口用，只传岗位名时扩展为技能画像

	// 同步分析接口直接调用的确定性引擎
	scorer       *ats.Scorer
	roles        *ats.RoleInferencer
	improvements *ats.ImprovementGenerator
}

// NewResumeHandler 创建一个新的简历处理器
func NewResumeHandler(
	cfg *config.Config,
	storage *storage2.Storage,
	service processor.ResumeService,
) *ResumeHandler {
	canon := ats.NewDefaultCanonicalizer()
	var scorerOpts []ats.ScorerOption
	if cfg.Scoring.EducationPartialCredit > 0 {
		scorerOpts = append(scorerOpts, ats.WithEducationPartialCredit(cfg.Scoring.EducationPartialCredit))
	}
	var roleOpts []ats.RoleInferencerOption
	if cfg.Scoring.TopRoles > 0 {
		roleOpts = append(roleOpts, ats.WithTopN(cfg.Scoring.TopRoles))
	}

	return &ResumeHandler{
		cfg:          cfg,
		storage:      storage,
		service:      service,
		scorer:       ats.NewScorer(canon, scorerOpts...),
		roles:        ats.NewRoleInferencer(roleOpts...),
		improvements: ats.NewImprovementGenerator(canon),
	}
}

// ResumeUploadResponse 简历上传响应
type ResumeUploadResponse struct {
	SubmissionUUID string `json:"submission_uuid"`
	Status         string `json:"status"`
}

// HandleResumeUpload 处理简历上传请求
func (h *ResumeHandler) HandleResumeUpload(ctx context.Context, reader io.Reader, fileSize int64,
	filename string, targetJobRole string, sourceChannel string) (*ResumeUploadResponse, error) {

	// 0. 读取文件内容并计算文件本身的MD5 (需要在上传MinIO前，且reader只能读一次)
	fileBytes, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("读取上传文件内容失败: %w", err)
	}
	fileMD5Hex := utils.CalculateMD5(fileBytes)

	// 1. 生成UUIDv7，保证提交ID按时间有序
	uuidV7, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("生成UUIDv7失败: %w", err)
	}
	submissionUUID := uuidV7.String()

	// 2. 原子地检查并登记文件MD5。命中时直接返回首次提交的UUID，
	// 调用方可以用它查询已有的分析结果。
	exists, firstUUID, err := h.storage.Redis.CheckAndSetFileMD5(ctx, fileMD5Hex, submissionUUID)
	if err != nil {
		logger.Error().
			Err(err).
			Str("md5", fileMD5Hex).
			Msg("查询Redis文件MD5 Set失败")
		return nil, fmt.Errorf("检查文件MD5重复性时Redis查询失败: %w", err)
	}
	if exists {
		logger.Info().
			Str("md5", fileMD5Hex).
			Str("filename", filename).
			Str("first_submission", firstUUID).
			Msg("检测到重复的文件MD5，跳过处理")
		return &ResumeUploadResponse{
			SubmissionUUID: firstUUID,
			Status:         constants.StatusDuplicateSkipped,
		}, nil
	}

	// 3. 获取文件扩展名
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".pdf" // 默认为PDF
	}

	// 4. 上传原始文件到MinIO
	originalObjectKey, err := h.storage.MinIO.UploadResumeFile(ctx, submissionUUID, ext, bytes.NewReader(fileBytes), int64(len(fileBytes)))
	if err != nil {
		// 回滚MD5登记，否则该文件将永远无法重新提交
		if rbErr := h.storage.Redis.RemoveRawFileMD5(ctx, fileMD5Hex); rbErr != nil {
			logger.Warn().Err(rbErr).Str("md5", fileMD5Hex).Msg("回滚文件MD5登记失败")
		}
		return nil, fmt.Errorf("上传简历到MinIO失败: %w", err)
	}

	// 5. 构建消息并发送到RabbitMQ
	message := storage2.ResumeUploadMessage{
		SubmissionUUID:      submissionUUID,
		SubmissionTimestamp: time.Now(),
		SourceChannel:       sourceChannel,
		TargetJobRole:       targetJobRole,
		OriginalFilename:    filename,
		OriginalFilePathOSS: originalObjectKey,
		RawFileMD5:          fileMD5Hex,
	}

	err = h.storage.RabbitMQ.PublishJSON(
		ctx,
		h.cfg.RabbitMQ.ResumeEventsExchange,
		h.cfg.RabbitMQ.UploadedRoutingKey,
		message,
		true, // 持久化
	)
	if err != nil {
		if rbErr := h.storage.Redis.RemoveRawFileMD5(ctx, fileMD5Hex); rbErr != nil {
			logger.Warn().Err(rbErr).Str("md5", fileMD5Hex).Msg("回滚文件MD5登记失败")
		}
		return nil, fmt.Errorf("发布消息到RabbitMQ失败: %w", err)
	}

	// 6. 返回响应
	return &ResumeUploadResponse{
		SubmissionUUID: submissionUUID,
		Status:         "SUBMITTED_FOR_PROCESSING",
	}, nil
}

// StartResumeUploadConsumer 启动简历上传消费者，消费上传事件并执行文本提取
func (h *ResumeHandler) StartResumeUploadConsumer(ctx context.Context, prefetchCount int) error {
	logger.Info().
		Str("exchange", h.cfg.RabbitMQ.ResumeEventsExchange).
		Str("routing_key", h.cfg.RabbitMQ.UploadedRoutingKey).
		Msg("初始化RabbitMQ配置")

	// 1. 确保交换机和队列存在
	if err := h.storage.RabbitMQ.EnsureExchange(h.cfg.RabbitMQ.ResumeEventsExchange, "direct", true); err != nil {
		return fmt.Errorf("确保交换机存在失败: %w", err)
	}
	if err := h.storage.RabbitMQ.EnsureQueue(h.cfg.RabbitMQ.RawResumeQueue, true); err != nil {
		return fmt.Errorf("确保队列存在失败: %w", err)
	}
	if err := h.storage.RabbitMQ.BindQueue(
		h.cfg.RabbitMQ.RawResumeQueue,
		h.cfg.RabbitMQ.ResumeEventsExchange,
		h.cfg.RabbitMQ.UploadedRoutingKey,
	); err != nil {
		return fmt.Errorf("绑定队列失败: %w", err)
	}

	logger.Info().
		Str("queue", h.cfg.RabbitMQ.RawResumeQueue).
		Int("prefetch_count", prefetchCount).
		Msg("简历上传消费者就绪")

	_, err := h.storage.RabbitMQ.StartConsumer(h.cfg.RabbitMQ.RawResumeQueue, prefetchCount, func(data []byte) bool {
		var message storage2.ResumeUploadMessage
		if err := json.Unmarshal(data, &message); err != nil {
			logger.Error().Err(err).Msg("解析消息失败")
			return false
		}

		// 先落库，建立提交记录
		submissions := []models.ResumeSubmission{
			{
				SubmissionUUID:      message.SubmissionUUID,
				SubmissionTimestamp: message.SubmissionTimestamp,
				SourceChannel:       message.SourceChannel,
				TargetJobRole:       message.TargetJobRole,
				OriginalFilename:    message.OriginalFilename,
				OriginalFilePathOSS: message.OriginalFilePathOSS,
				FileMD5:             message.RawFileMD5,
				ProcessingStatus:    constants.StatusPendingExtraction,
			},
		}
		if err := h.storage.MySQL.BatchInsertResumeSubmissions(ctx, submissions); err != nil {
			logger.Error().Err(err).Msg("插入简历提交记录失败")
			return false
		}

		if err := h.service.ProcessUploadedResume(ctx, message); err != nil {
			// 失败状态已在服务内部落库，这里只决定消息去向
			logger.Error().
				Err(err).
				Str("submission_uuid", message.SubmissionUUID).
				Msg("处理上传简历失败")
			return false
		}
		return true
	})
	if err != nil {
		return fmt.Errorf("启动消费者失败: %w", err)
	}
	return nil
}

// StartAnalysisConsumer 启动分析消费者，消费提取完成事件并执行评分分析
func (h *ResumeHandler) StartAnalysisConsumer(ctx context.Context, prefetchCount int) error {
	if err := h.storage.RabbitMQ.EnsureExchange(h.cfg.RabbitMQ.ProcessingEventsExchange, "direct", true); err != nil {
		return fmt.Errorf("确保交换机存在失败: %w", err)
	}
	if err := h.storage.RabbitMQ.EnsureQueue(h.cfg.RabbitMQ.AnalysisQueue, true); err != nil {
		return fmt.Errorf("确保队列存在失败: %w", err)
	}
	if err := h.storage.RabbitMQ.BindQueue(
		h.cfg.RabbitMQ.AnalysisQueue,
		h.cfg.RabbitMQ.ProcessingEventsExchange,
		h.cfg.RabbitMQ.ExtractedRoutingKey,
	); err != nil {
		return fmt.Errorf("绑定队列失败: %w", err)
	}

	logger.Info().
		Str("queue", h.cfg.RabbitMQ.AnalysisQueue).
		Int("prefetch_count", prefetchCount).
		Msg("简历分析消费者就绪")

	_, err := h.storage.RabbitMQ.StartConsumer(h.cfg.RabbitMQ.AnalysisQueue, prefetchCount, func(data []byte) bool {
		var message storage2.ResumeAnalysisMessage
		if err := json.Unmarshal(data, &message); err != nil {
			logger.Error().Err(err).Msg("解析消息失败")
			return false
		}

		if err := h.service.ProcessAnalysisTasks(ctx, message); err != nil {
			logger.Error().
				Err(err).
				Str("submission_uuid", message.SubmissionUUID).
				Msg("处理分析任务失败")
			return false
		}
		return true
	})
	if err != nil {
		return fmt.Errorf("启动消费者失败: %w", err)
	}
	return nil
}
