package processor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"resume-iq-go/internal/ats"
	"resume-iq-go/internal/config"
	"resume-iq-go/internal/constants"
	"resume-iq-go/internal/llm"
	"resume-iq-go/internal/logger"
	"resume-iq-go/internal/parser"
	"resume-iq-go/internal/storage"
	"resume-iq-go/internal/storage/models"
	"resume-iq-go/internal/tracing"
	"resume-iq-go/internal/types"
	"resume-iq-go/pkg/ratelimit"
	"resume-iq-go/pkg/utils"

	"github.com/cloudwego/eino/components/model"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 定义公共错误类型，用于整个服务
var (
	ErrStorageNotInit    = errors.New("storage is not initialized")       // 存储未初始化错误
	ErrExtractorNotInit  = errors.New("extractor is not initialized")     // 提取器未初始化错误
	ErrRuleParserNotInit = errors.New("rule parser is not initialized")   // 规则解析器未初始化错误
	ErrJobParserNotInit  = errors.New("job parser is not initialized")    // 岗位解析器未初始化错误
	ErrDuplicateContent  = errors.New("duplicate content detected")     // 内容重复
	ErrScannedContent    = errors.New("scanned or image-based pdf")     // 扫描件
)

// 定义tracer
var tracer = otel.Tracer("processor")

// 分析锁的持有时长，覆盖最坏情况下的两次LLM调用
const analysisLockTTL = 5 * time.Minute

// ResumeService 定义简历处理服务的接口
// 提供统一的服务层接口，隐藏内部实现细节
type ResumeService interface {
	// ProcessUploadedResume 处理上传的简历，包括文本提取和去重
	ProcessUploadedResume(ctx context.Context, message storage.ResumeUploadMessage) error

	// ProcessAnalysisTasks 处理分析任务，包括结构化解析、评分和持久化
	ProcessAnalysisTasks(ctx context.Context, message storage.ResumeAnalysisMessage) error
}

// resumeServiceImpl 是ResumeService的实现
// 采用Facade模式，内部持有所有需要的组件，但不暴露给外部
type resumeServiceImpl struct {
	components Components
	config     *config.Config
	logger     *zerolog.Logger

	// 评分引擎是纯计算组件，直接持有具体类型
	scorer       *ats.Scorer
	roles        *ats.RoleInferencer
	improvements *ats.ImprovementGenerator
}

// NewResumeService 创建新的简历服务实例
func NewResumeService(ctx context.Context, cfg *config.Config, storageManager *storage.Storage, zlogger *zerolog.Logger, compOpts ...ComponentOpt) (ResumeService, error) {
	if zlogger == nil {
		defaultLogger := zerolog.Nop()
		zlogger = &defaultLogger
	}

	components, err := createComponents(ctx, cfg, storageManager)
	if err != nil {
		return nil, fmt.Errorf("创建组件失败: %w", err)
	}
	// 允许调用方(主要是测试)覆盖默认组件
	for _, opt := range compOpts {
		opt(&components)
	}

	canon := ats.NewDefaultCanonicalizer()
	var scorerOpts []ats.ScorerOption
	if cfg.Scoring.EducationPartialCredit > 0 {
		scorerOpts = append(scorerOpts, ats.WithEducationPartialCredit(cfg.Scoring.EducationPartialCredit))
	}
	var roleOpts []ats.RoleInferencerOption
	if cfg.Scoring.TopRoles > 0 {
		roleOpts = append(roleOpts, ats.WithTopN(cfg.Scoring.TopRoles))
	}

	return &resumeServiceImpl{
		components:   components,
		config:       cfg,
		logger:       zlogger,
		scorer:       ats.NewScorer(canon, scorerOpts...),
		roles:        ats.NewRoleInferencer(roleOpts...),
		improvements: ats.NewImprovementGenerator(canon),
	}, nil
}

// createComponents 创建所有必要的组件
func createComponents(ctx context.Context, cfg *config.Config, storageManager *storage.Storage) (Components, error) {
	components := Components{
		Storage: storageManager,
	}

	loggerProvider := func(prefix string) *log.Logger {
		return log.New(os.Stdout, prefix, log.LstdFlags)
	}

	pdfExtractor, err := BuildPDFExtractor(ctx, cfg, loggerProvider)
	if err != nil {
		return components, fmt.Errorf("初始化PDF解析器失败: %w", err)
	}
	components.PDFExtractor = pdfExtractor

	// 规则解析器没有外部依赖，始终可用
	components.RuleParser = parser.NewRuleBasedResumeParser(
		parser.WithRuleParserLogger(loggerProvider("[RuleParser] ")),
	)

	// LLM相关组件只在配置了API密钥时创建
	if cfg.LLM.APIKey != "" {
		resumeModel, err := buildChatModel(cfg, "resume_parse")
		if err == nil {
			components.LLMParser = parser.NewLLMResumeParser(resumeModel,
				parser.WithLLMResumeParserLogger(loggerProvider("[LLMResumeParser] ")))
		}

		jobModel, err := buildChatModel(cfg, "job_parse")
		if err == nil {
			components.JobParser = parser.NewLLMJobParser(jobModel,
				parser.WithLLMJobParserLogger(loggerProvider("[LLMJobParser] ")))
		}

		roadmapModel, err := buildChatModel(cfg, "roadmap")
		if err == nil {
			components.RoadmapGen = parser.NewRoadmapGenerator(roadmapModel,
				parser.WithRoadmapLogger(loggerProvider("[RoadmapGen] ")))
		}
	}

	return components, nil
}

// buildChatModel 为指定任务创建聊天模型，并按配置的QPM限额包装限流代理
func buildChatModel(cfg *config.Config, task string) (model.ToolCallingChatModel, error) {
	modelName := cfg.GetModelForTask(task)
	chatModel, err := llm.NewChatModel(cfg.LLM.APIKey, modelName, cfg.LLM.APIURL)
	if err != nil {
		return nil, err
	}
	return ratelimit.WrapWithQPMLimit(chatModel, chatModel.ModelName(), cfg.ModelQPMLimits, 0), nil
}

// BuildJobParser 根据配置创建独立的岗位解析器，未配置LLM时返回nil
func BuildJobParser(cfg *config.Config) JobParser {
	if cfg.LLM.APIKey == "" {
		return nil
	}
	jobModel, err := buildChatModel(cfg, "job_parse")
	if err != nil {
		return nil
	}
	return parser.NewLLMJobParser(jobModel,
		parser.WithLLMJobParserLogger(log.New(os.Stdout, "[LLMJobParser] ", log.LstdFlags)))
}

// BuildRoadmapGenerator 根据配置创建独立的路线图生成器，未配置LLM时返回nil
func BuildRoadmapGenerator(cfg *config.Config) RoadmapGenerator {
	if cfg.LLM.APIKey == "" {
		return nil
	}
	roadmapModel, err := buildChatModel(cfg, "roadmap")
	if err != nil {
		return nil
	}
	return parser.NewRoadmapGenerator(roadmapModel,
		parser.WithRoadmapLogger(log.New(os.Stdout, "[RoadmapGen] ", log.LstdFlags)))
}

// ProcessUploadedResume 处理上传的简历
// 实现ResumeService接口
func (rs *resumeServiceImpl) ProcessUploadedResume(ctx context.Context, message storage.ResumeUploadMessage) error {
	ctx, span := tracer.Start(ctx, "ProcessUploadedResume",
		trace.WithSpanKind(trace.SpanKindConsumer))
	defer span.End()

	span.SetAttributes(
		attribute.String("submission_uuid", message.SubmissionUUID),
		attribute.String("source_channel", message.SourceChannel),
	)

	// 使用带trace信息的logger
	ctx = logger.WithSubmissionUUID(ctx, message.SubmissionUUID)
	log := logger.FromContext(ctx)

	log.Debug().Msg("开始处理上传的简历")

	if rs.components.Storage == nil {
		span.RecordError(ErrStorageNotInit)
		span.SetStatus(codes.Error, "存储未初始化")
		return ErrStorageNotInit
	}
	if rs.components.PDFExtractor == nil {
		span.RecordError(ErrExtractorNotInit)
		span.SetStatus(codes.Error, "提取器未初始化")
		return ErrExtractorNotInit
	}

	// 使用数据库事务确保状态更新、outbox写入的原子性
	err := rs.components.Storage.MySQL.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 提取文本并做内容级去重
		ctx, extractSpan := tracer.Start(ctx, "ExtractAndDeduplicate")
		text, textMD5Hex, err := rs.extractAndDeduplicate(ctx, tx, message)
		extractSpan.End()

		if err != nil {
			if errors.Is(err, ErrDuplicateContent) || errors.Is(err, ErrScannedContent) {
				// 终态已在内部写入，提交事务并确认消息
				return nil
			}
			return err
		}

		// 2. 上传解析后的文本到MinIO
		span.AddEvent("uploading_to_minio")
		textObjectKey, err := rs.components.Storage.MinIO.UploadParsedText(ctx, message.SubmissionUUID, text)
		if err != nil {
			log.Error().Err(err).Msg("上传解析后的文本到MinIO失败")
			return NewStoreError(message.SubmissionUUID, err.Error())
		}
		log.Debug().Str("object_key", textObjectKey).Msg("解析文本已上传到MinIO")

		// 3. [Outbox] 将分析任务写入Outbox表，由中继发布到RabbitMQ
		ctx, outboxSpan := tracer.Start(ctx, "WriteToOutbox")
		analysisMessage := storage.ResumeAnalysisMessage{
			SubmissionUUID:    message.SubmissionUUID,
			TargetJobRole:     message.TargetJobRole,
			ParsedTextPathOSS: textObjectKey,
			ProcessingStatus:  constants.StatusTextExtracted,
			ProcessingTime:    time.Now().Unix(),
		}
		if err := storage.WriteOutboxMessage(tx, message.SubmissionUUID, "resume.text_extracted",
			analysisMessage, rs.config.RabbitMQ.ProcessingEventsExchange, rs.config.RabbitMQ.ExtractedRoutingKey); err != nil {
			log.Error().Err(err).Msg("插入outbox记录失败")
			outboxSpan.RecordError(err)
			outboxSpan.SetStatus(codes.Error, "插入失败")
			outboxSpan.End()
			return NewPublishError(message.SubmissionUUID, err.Error())
		}
		outboxSpan.End()
		log.Debug().Msg("成功创建outbox记录")

		// 4. 更新数据库记录
		if err := tx.Model(&models.ResumeSubmission{}).
			Where("submission_uuid = ?", message.SubmissionUUID).
			Updates(map[string]interface{}{
				"parsed_text_path_oss": textObjectKey,
				"raw_text_md5":         textMD5Hex,
				"processing_status":    constants.StatusAnalysisQueued,
			}).Error; err != nil {
			log.Error().Err(err).Msg("更新数据库记录失败")
			return NewUpdateError(message.SubmissionUUID, err.Error())
		}

		span.SetStatus(codes.Ok, "处理成功")
		return nil
	})

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		updateErr := rs.components.Storage.MySQL.UpdateResumeProcessingError(
			ctx, message.SubmissionUUID, constants.StatusExtractionFailed, err.Error())
		if updateErr != nil {
			log.Error().Err(updateErr).Msg("更新状态为失败时出错")
		}
		return err
	}

	log.Info().Msg("上传任务处理成功完成")
	return nil
}

// extractAndDeduplicate 内部辅助方法：下载原始文件、提取文本、拦截扫描件并做文本级去重。
// 扫描件和重复内容都是正常终态，内部写入状态后分别返回 ErrScannedContent / ErrDuplicateContent。
func (rs *resumeServiceImpl) extractAndDeduplicate(ctx context.Context, tx *gorm.DB, message storage.ResumeUploadMessage) (string, string, error) {
	log := logger.FromContext(ctx)
	span := trace.SpanFromContext(ctx)

	// 从MinIO获取原始简历文件
	originalFileBytes, err := rs.components.Storage.MinIO.GetResumeFile(ctx, message.OriginalFilePathOSS)
	if err != nil {
		log.Error().Err(err).Msg("从MinIO下载简历失败")
		tracing.RecordError(span, err, tracing.ErrorTypeExternal)
		return "", "", NewDownloadError(message.SubmissionUUID, err.Error())
	}
	log.Debug().Int("size_bytes", len(originalFileBytes)).Msg("从MinIO下载简历成功")
	span.SetAttributes(attribute.Int("file_size_bytes", len(originalFileBytes)))

	// 提取文本
	text, _, err := rs.components.PDFExtractor.ExtractTextFromReader(ctx, bytes.NewReader(originalFileBytes), message.OriginalFilePathOSS, nil)
	if err != nil {
		log.Error().Err(err).Msg("提取简历文本失败")
		tracing.RecordError(span, err, tracing.ErrorTypeInternal)
		return "", "", NewExtractError(message.SubmissionUUID, err.Error())
	}
	log.Debug().Int("text_length", len(text)).Msg("成功提取文本")
	span.SetAttributes(
		attribute.Int("text_length", len(text)),
		attribute.String("text_preview", tracing.SafeResumeContent(text)),
	)
	span.AddEvent("text_extraction_completed")

	// 扫描件/图片型PDF直接拒绝，不进入分析队列
	if err := parser.CheckExtractedText(text); err != nil {
		log.Info().Err(err).Msg("检测到扫描件或空文本，拒绝处理")
		if updErr := tx.Model(&models.ResumeSubmission{}).
			Where("submission_uuid = ?", message.SubmissionUUID).
			Updates(map[string]interface{}{
				"processing_status": constants.StatusScannedRejected,
				"error_message":     err.Error(),
			}).Error; updErr != nil {
			return "", "", fmt.Errorf("更新扫描件拒绝状态失败: %w", updErr)
		}
		span.SetAttributes(attribute.Bool("scanned_pdf", true))
		return "", "", ErrScannedContent
	}

	// 计算文本MD5用于同文异档去重
	textMD5Hex := utils.CalculateMD5([]byte(text))
	log.Debug().Str("md5", textMD5Hex).Msg("计算得到文本MD5")

	textExists, err := rs.components.Storage.Redis.CheckAndAddParsedTextMD5(ctx, textMD5Hex)
	if err != nil {
		log.Warn().Err(err).Msg("Redis检查文本MD5失败，将继续处理，但文本去重可能失效")
	} else if textExists {
		log.Info().Str("md5", textMD5Hex).Msg("检测到重复的文本MD5，标记为重复内容")
		if err := tx.Model(&models.ResumeSubmission{}).
			Where("submission_uuid = ?", message.SubmissionUUID).
			Updates(map[string]interface{}{
				"processing_status": constants.StatusDuplicateSkipped,
				"raw_text_md5":      textMD5Hex,
			}).Error; err != nil {
			return "", "", fmt.Errorf("更新重复内容状态失败: %w", err)
		}
		span.SetAttributes(
			attribute.Bool("duplicate_content", true),
			attribute.String("md5", textMD5Hex),
		)
		return "", "", ErrDuplicateContent
	}

	log.Debug().Msg("文本MD5不存在于Redis，继续处理")
	return text, textMD5Hex, nil
}

// ProcessAnalysisTasks 处理简历分析任务
// 实现ResumeService接口
func (rs *resumeServiceImpl) ProcessAnalysisTasks(ctx context.Context, message storage.ResumeAnalysisMessage) error {
	ctx, span := tracer.Start(ctx, "ProcessAnalysisTasks",
		trace.WithSpanKind(trace.SpanKindConsumer))
	defer span.End()

	span.SetAttributes(
		attribute.String("submission_uuid", message.SubmissionUUID),
		attribute.String("target_job_role", message.TargetJobRole),
	)

	ctx = logger.WithSubmissionUUID(ctx, message.SubmissionUUID)
	log := logger.FromContext(ctx).With().Str("method", "ProcessAnalysisTasks").Logger()

	log.Debug().Msg("开始处理分析任务")

	if rs.components.Storage == nil {
		span.RecordError(ErrStorageNotInit)
		span.SetStatus(codes.Error, "存储未初始化")
		return ErrStorageNotInit
	}
	if rs.components.RuleParser == nil {
		span.RecordError(ErrRuleParserNotInit)
		span.SetStatus(codes.Error, "规则解析器未初始化")
		return ErrRuleParserNotInit
	}

	// 使用事务来保证读取-更新的原子性和幂等性
	var submission models.ResumeSubmission
	var skip bool
	err := rs.components.Storage.MySQL.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ctx, txSpan := tracer.Start(ctx, "GetAndLockSubmission")
		defer txSpan.End()

		if err := tx.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("submission_uuid = ?", message.SubmissionUUID).
			First(&submission).Error; err != nil {

			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Info().Msg("ResumeSubmission记录未找到，可能已被删除")
				txSpan.SetStatus(codes.Error, "记录不存在")
				skip = true
				return nil
			}
			log.Error().Err(err).Msg("获取ResumeSubmission记录失败")
			txSpan.RecordError(err)
			txSpan.SetStatus(codes.Error, "查询失败")
			return NewDatabaseError(message.SubmissionUUID, err.Error())
		}

		// 幂等性检查：只有排队中或此前失败的提交允许进入分析
		if !constants.IsStatusAllowed(submission.ProcessingStatus, constants.AllowedStatusesForAnalysis) {
			log.Debug().Str("current_status", submission.ProcessingStatus).Msg("跳过重复/无效状态的消息")
			span.SetAttributes(
				attribute.String("skipped_reason", "invalid_status"),
				attribute.String("current_status", submission.ProcessingStatus),
			)
			skip = true
			return nil
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "事务处理失败")
		return err
	}
	if skip {
		return nil
	}

	// Redis分布式锁，防止同一提交被多个worker同时分析
	lockKey := fmt.Sprintf(constants.KeyAnalysisLock, message.SubmissionUUID)
	lockValue, err := rs.components.Storage.Redis.AcquireLock(ctx, lockKey, analysisLockTTL)
	if err != nil {
		log.Warn().Err(err).Msg("获取分析锁失败，将继续处理，但可能与其他worker并发")
	} else if lockValue == "" {
		log.Info().Msg("该提交已被其他worker锁定，跳过")
		span.SetAttributes(attribute.String("skipped_reason", "locked"))
		return nil
	} else {
		defer func() {
			if _, relErr := rs.components.Storage.Redis.ReleaseLock(context.WithoutCancel(ctx), lockKey, lockValue); relErr != nil {
				log.Warn().Err(relErr).Msg("释放分析锁失败")
			}
		}()
	}

	// --- 事务外执行IO操作 (下载文本，LLM解析，评分) ---
	jobRole := message.TargetJobRole
	if jobRole == "" {
		jobRole = submission.TargetJobRole
	}

	ctx, analyzeSpan := tracer.Start(ctx, "AnalyzeResume")
	artifacts, roadmap, parserVersion, err := rs.analyzeResume(ctx, message, &submission, jobRole)
	analyzeSpan.End()
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeLLM)
		updateErr := rs.components.Storage.MySQL.UpdateResumeProcessingError(
			ctx, message.SubmissionUUID, constants.StatusAnalysisFailed, err.Error())
		if updateErr != nil {
			log.Error().Err(updateErr).Msg("更新状态为ANALYSIS_FAILED失败")
		}
		return err
	}

	// 持久化分析结果并更新提交状态
	ctx, persistSpan := tracer.Start(ctx, "PersistAnalysisResult")
	err = rs.persistAnalysisResult(ctx, message.SubmissionUUID, jobRole, parserVersion, artifacts, roadmap)
	persistSpan.End()
	if err != nil {
		log.Error().Err(err).Msg("持久化分析结果失败")
		tracing.RecordError(span, err, tracing.ErrorTypeDB)
		updateErr := rs.components.Storage.MySQL.UpdateResumeProcessingError(
			ctx, message.SubmissionUUID, constants.StatusAnalysisFailed, err.Error())
		if updateErr != nil {
			log.Error().Err(updateErr).Msg("更新状态为ANALYSIS_FAILED失败")
		}
		return err
	}

	// 写入Redis缓存，失败只降级不影响结果
	if cacheErr := rs.components.Storage.Redis.CacheAnalysisResult(ctx, message.SubmissionUUID, artifacts); cacheErr != nil {
		log.Warn().Err(cacheErr).Msg("缓存分析结果失败")
	}

	span.SetStatus(codes.Ok, "处理成功")
	log.Info().Float64("final_score", artifacts.Score.FinalScore).Msg("分析任务处理成功完成")
	return nil
}

// analyzeResume 下载解析文本并执行完整的分析流水线：
// 结构化解析(LLM优先、规则兜底) -> 岗位画像 -> 评分 -> 角色推断 -> 改进建议 -> 路线图。
func (rs *resumeServiceImpl) analyzeResume(ctx context.Context, message storage.ResumeAnalysisMessage, submission *models.ResumeSubmission, jobRole string) (*types.AnalysisArtifacts, *types.Roadmap, string, error) {
	log := logger.FromContext(ctx)

	// 1. 获取解析文本：消息内联优先，否则从MinIO取
	parsedText := message.ParsedText
	if parsedText == "" {
		textPath := message.ParsedTextPathOSS
		if textPath == "" {
			textPath = submission.ParsedTextPathOSS
		}
		var err error
		parsedText, err = rs.components.Storage.MinIO.GetParsedText(ctx, textPath)
		if err != nil {
			log.Error().Err(err).Str("path", textPath).Msg("从MinIO下载解析文本失败")
			return nil, nil, "", fmt.Errorf("下载解析文本失败: %w", err)
		}
	}
	log.Debug().Int("text_length", len(parsedText)).Msg("获取到解析文本")

	// 2. 结构化解析。配置为LLM版本且LLM可用时优先走LLM，
	// 失败时回退到规则引擎并记录实际使用的解析器版本。
	parserVersion := constants.DefaultParserVer
	var structured types.StructuredResume
	if rs.components.LLMParser != nil && rs.config.ActiveParserVersion == constants.LLMParserVer {
		llmResume, err := rs.components.LLMParser.Parse(ctx, parsedText)
		if err != nil {
			log.Warn().Err(err).Msg("LLM解析失败，回退到规则解析器")
			structured = rs.components.RuleParser.Parse(parsedText)
		} else {
			structured = llmResume
			parserVersion = constants.LLMParserVer
		}
	} else {
		structured = rs.components.RuleParser.Parse(parsedText)
	}

	// 候选人身份信息只以掩码形式进入Span
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.String("candidate.name", tracing.SafeAttributeValue("name", structured.PersonalInfo.Name, tracing.DefaultMaxLength)),
		attribute.String("candidate.email", tracing.SafeAttributeValue("email", structured.PersonalInfo.Email, tracing.DefaultMaxLength)),
		attribute.String("parser.version", parserVersion),
	)

	// 3. 岗位画像
	if rs.components.JobParser == nil {
		return nil, nil, "", ErrJobParserNotInit
	}
	jobReq, err := rs.components.JobParser.Parse(ctx, jobRole)
	if err != nil {
		log.Error().Err(err).Str("job_role", jobRole).Msg("解析岗位要求失败")
		return nil, nil, "", NewAnalysisError(submission.SubmissionUUID, "解析岗位要求失败: "+err.Error())
	}

	// 4. 评分与派生产物
	score := rs.scorer.Score(&structured, &jobReq)
	roleSuggestions := rs.roles.Suggest(&structured, score)
	improvements := rs.improvements.Generate(&structured, &jobReq, score)
	currentLevel := ats.DetectCurrentLevel(&structured, score)

	log.Debug().
		Float64("final_score", score.FinalScore).
		Str("current_level", currentLevel).
		Msg("评分完成")

	// 5. 路线图：只为达到门槛分数的提交生成，LLM失败时静默降级
	var roadmap *types.Roadmap
	minScore := rs.config.Scoring.RoadmapMinScore
	if minScore <= 0 {
		minScore = constants.RoadmapMinScore
	}
	if rs.components.RoadmapGen != nil && score.FinalScore >= minScore {
		r, err := rs.components.RoadmapGen.Generate(ctx, jobRole, score.FinalScore,
			score.Breakdown.RequiredSkills.Missing, currentLevel)
		if err != nil {
			log.Warn().Err(err).Msg("生成学习路线图失败，分析结果不包含路线图")
		} else {
			roadmap = &r
		}
	}

	artifacts := &types.AnalysisArtifacts{
		Resume:       &structured,
		Job:          &jobReq,
		Score:        score,
		Improvements: improvements,
		Roles:        roleSuggestions,
		CurrentLevel: currentLevel,
	}
	return artifacts, roadmap, parserVersion, nil
}

// persistAnalysisResult 保存分析结果并把提交推进到终态
func (rs *resumeServiceImpl) persistAnalysisResult(ctx context.Context, submissionUUID, jobRole, parserVersion string, artifacts *types.AnalysisArtifacts, roadmap *types.Roadmap) error {
	resumeJSON, err := models.ToJSON(artifacts.Resume)
	if err != nil {
		return fmt.Errorf("序列化结构化简历失败: %w", err)
	}
	jobJSON, err := models.ToJSON(artifacts.Job)
	if err != nil {
		return fmt.Errorf("序列化岗位要求失败: %w", err)
	}
	scoreJSON, err := models.ToJSON(artifacts.Score)
	if err != nil {
		return fmt.Errorf("序列化评分报告失败: %w", err)
	}
	rolesJSON, err := models.ToJSON(artifacts.Roles)
	if err != nil {
		return fmt.Errorf("序列化角色推荐失败: %w", err)
	}
	improvementsJSON, err := models.ToJSON(artifacts.Improvements)
	if err != nil {
		return fmt.Errorf("序列化改进建议失败: %w", err)
	}

	now := time.Now()
	result := &models.AnalysisResult{
		SubmissionUUID:       submissionUUID,
		TargetJobRole:        jobRole,
		StructuredResumeJSON: resumeJSON,
		JobRequirementJSON:   jobJSON,
		ScoreReportJSON:      scoreJSON,
		RoleSuggestionsJSON:  rolesJSON,
		ImprovementsJSON:     improvementsJSON,
		CurrentLevel:         artifacts.CurrentLevel,
		FinalScore:           &artifacts.Score.FinalScore,
		ParserVersion:        parserVersion,
		AnalyzedAt:           &now,
	}
	if roadmap != nil {
		roadmapJSON, err := models.ToJSON(roadmap)
		if err != nil {
			return fmt.Errorf("序列化路线图失败: %w", err)
		}
		result.RoadmapJSON = roadmapJSON
	}

	if err := rs.components.Storage.MySQL.SaveAnalysisResult(ctx, result); err != nil {
		return err
	}

	if err := rs.components.Storage.MySQL.DB().WithContext(ctx).
		Model(&models.ResumeSubmission{}).
		Where("submission_uuid = ?", submissionUUID).
		Updates(map[string]interface{}{
			"processing_status": constants.StatusAnalysisDone,
			"parser_version":    parserVersion,
			"error_message":     "",
		}).Error; err != nil {
		return fmt.Errorf("更新提交状态失败: %w", err)
	}
	return nil
}
