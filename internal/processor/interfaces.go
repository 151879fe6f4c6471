package processor

import (
	"context"
	"io"
	"log"
	"time"

	"resume-iq-go/internal/storage"
	"resume-iq-go/internal/types"
)

// PDFExtractor PDF文本提取接口
type PDFExtractor interface {
	// ExtractFromFile 从PDF文件提取文本和元数据
	ExtractFromFile(ctx context.Context, filePath string) (string, map[string]interface{}, error)

	// ExtractTextFromReader 从io.Reader提取文本和元数据
	ExtractTextFromReader(ctx context.Context, reader io.Reader, uri string, options interface{}) (string, map[string]interface{}, error)

	// ExtractTextFromBytes 从字节内容提取文本和元数据
	ExtractTextFromBytes(ctx context.Context, data []byte, uri string, options interface{}) (string, map[string]interface{}, error)
}

// ResumeParser 结构化简历解析接口，LLM解析器实现该接口
type ResumeParser interface {
	Parse(ctx context.Context, rawText string) (types.StructuredResume, error)
}

// JobParser 岗位要求解析接口，把目标岗位名称扩展为技能画像
type JobParser interface {
	Parse(ctx context.Context, jobRole string) (types.JobRequirement, error)
}

// RoadmapGenerator 学习路线图生成接口
type RoadmapGenerator interface {
	Generate(ctx context.Context, role string, atsScore float64, missingSkills []string, currentLevel string) (types.Roadmap, error)
}

// RuleParser 规则解析接口。规则引擎是纯函数式的，不需要上下文也不会失败
type RuleParser interface {
	Parse(rawText string) types.StructuredResume
}

// Components 聚合所有功能组件依赖，便于集中管理和测试替换
type Components struct {
	// 核心组件接口
	PDFExtractor PDFExtractor     // PDF文本提取接口
	RuleParser   RuleParser       // 规则解析器，始终可用
	LLMParser    ResumeParser     // LLM解析器，未配置API密钥时为nil
	JobParser    JobParser        // 岗位解析接口
	RoadmapGen   RoadmapGenerator // 路线图生成接口

	// 存储层依赖
	Storage *storage.Storage // 聚合的存储服务
}

// Settings 纯配置项，不包含任何业务逻辑组件
type Settings struct {
	UseLLM       bool           // 是否启用LLM解析器
	Debug        bool           // 是否开启调试模式
	Logger       *log.Logger    // 日志记录器
	TimeLocation *time.Location // 时区设置
}
