package router

import (
	"context"
	"errors"

	"resume-iq-go/internal/api/handler"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// RegisterRoutes 注册 API 路由
func RegisterRoutes(h *server.Hertz, resumeHandler *handler.ResumeHandler) {
	api := h.Group("/api/v1")

	api.POST("/resume/upload", func(c context.Context, ctx *app.RequestContext) {
		// 获取上传的文件
		fileHeader, err := ctx.FormFile("file")
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "文件未找到"})
			return
		}

		// 获取目标岗位名称
		targetJobRole := ctx.PostForm("target_job_role")
		if targetJobRole == "" {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "target_job_role 不能为空"})
			return
		}
		// 获取来源渠道
		sourceChannel := ctx.PostForm("source_channel")
		if sourceChannel == "" {
			sourceChannel = "web_upload" // 默认值
		}

		// 打开文件
		file, err := fileHeader.Open()
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "打开文件失败"})
			return
		}
		defer file.Close()

		// 处理上传
		resp, err := resumeHandler.HandleResumeUpload(
			c,
			file,
			fileHeader.Size,
			fileHeader.Filename,
			targetJobRole,
			sourceChannel,
		)
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}

		ctx.JSON(consts.StatusOK, resp)
	})

	// 同步分析：直接提交结构化简历和岗位要求，立即返回完整分析产物
	api.POST("/resume/analyze", func(c context.Context, ctx *app.RequestContext) {
		var req handler.AnalyzeDocumentsRequest
		if err := ctx.BindJSON(&req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体解析失败: " + err.Error()})
			return
		}
		artifacts, err := resumeHandler.HandleAnalyzeDocuments(c, &req)
		if err != nil {
			switch {
			case errors.Is(err, handler.ErrMissingJobRequirement):
				ctx.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
			case errors.Is(err, handler.ErrJobParserUnavailable):
				ctx.JSON(consts.StatusServiceUnavailable, utils.H{"error": err.Error()})
			default:
				ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			}
			return
		}
		ctx.JSON(consts.StatusOK, artifacts)
	})

	// 查询提交处理状态
	api.GET("/resume/:uuid", func(c context.Context, ctx *app.RequestContext) {
		submissionUUID := ctx.Param("uuid")
		resp, err := resumeHandler.HandleGetSubmissionStatus(c, submissionUUID)
		if err != nil {
			if errors.Is(err, handler.ErrSubmissionNotFound) {
				ctx.JSON(consts.StatusNotFound, utils.H{"error": err.Error()})
				return
			}
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, resp)
	})

	// 查询分析结果
	api.GET("/resume/:uuid/analysis", func(c context.Context, ctx *app.RequestContext) {
		submissionUUID := ctx.Param("uuid")
		resp, err := resumeHandler.HandleGetAnalysis(c, submissionUUID)
		if err != nil {
			switch {
			case errors.Is(err, handler.ErrSubmissionNotFound):
				ctx.JSON(consts.StatusNotFound, utils.H{"error": err.Error()})
			case errors.Is(err, handler.ErrAnalysisNotReady):
				// 分析还在队列里，返回202让客户端稍后重试
				ctx.JSON(consts.StatusAccepted, utils.H{"error": err.Error()})
			default:
				ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			}
			return
		}
		ctx.JSON(consts.StatusOK, resp)
	})

	// 查询或按需生成学习路线图
	api.POST("/resume/:uuid/roadmap", func(c context.Context, ctx *app.RequestContext) {
		submissionUUID := ctx.Param("uuid")
		resp, err := resumeHandler.HandleGenerateRoadmap(c, submissionUUID)
		if err != nil {
			switch {
			case errors.Is(err, handler.ErrAnalysisNotReady):
				ctx.JSON(consts.StatusNotFound, utils.H{"error": err.Error()})
			case errors.Is(err, handler.ErrScoreBelowThreshold):
				ctx.JSON(consts.StatusForbidden, utils.H{"error": err.Error()})
			case errors.Is(err, handler.ErrRoadmapUnavailable):
				ctx.JSON(consts.StatusServiceUnavailable, utils.H{"error": err.Error()})
			default:
				ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			}
			return
		}
		ctx.JSON(consts.StatusOK, resp)
	})

	// 添加健康检查
	api.GET("/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})
}
