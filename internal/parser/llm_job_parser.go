package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/cloudwego/eino/components/model"

	"resume-iq-go/internal/types"
)

// llmJobPrompt 职位画像推断的系统提示词：只给岗位名称，
// 让模型推断通用的招聘要求。
const llmJobPrompt = `You are an ATS system.

Given ONLY a job role, infer realistic hiring requirements.

RULES:
- Output STRICT JSON only
- No explanations
- No markdown
- No extra keys
- Skills must be industry-relevant
- Keep it general (not company-specific)

JSON FORMAT:
{
  "required_skills": [],
  "optional_skills": [],
  "preferred_roles": [],
  "minimum_gpa": 0
}`

// LLMJobParser 根据岗位名称推断职位要求画像。
type LLMJobParser struct {
	llmModel model.ToolCallingChatModel
	logger   *log.Logger
}

// LLMJobParserOption LLM职位解析器的配置选项
type LLMJobParserOption func(*LLMJobParser)

// WithLLMJobParserLogger 配置自定义日志记录器
func WithLLMJobParserLogger(logger *log.Logger) LLMJobParserOption {
	return func(p *LLMJobParser) {
		p.logger = logger
	}
}

// NewLLMJobParser 创建LLM职位解析器。
func NewLLMJobParser(llmModel model.ToolCallingChatModel, options ...LLMJobParserOption) *LLMJobParser {
	p := &LLMJobParser{
		llmModel: llmModel,
		logger:   log.New(io.Discard, "", 0),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Parse 根据岗位名称生成职位要求。结果字段保证非nil，方便下游直接使用。
func (p *LLMJobParser) Parse(ctx context.Context, jobRole string) (types.JobRequirement, error) {
	var job types.JobRequirement

	response, err := callLLM(ctx, p.llmModel, p.logger, llmJobPrompt, "JOB ROLE:\n"+jobRole)
	if err != nil {
		return job, fmt.Errorf("LLM职位画像调用失败: %w", err)
	}

	jsonStr := extractJSON(response)
	if jsonStr == "" {
		p.logger.Printf("无法从LLM响应中提取有效的JSON。原始响应: %.200s", response)
		return job, fmt.Errorf("无法从LLM响应中提取有效的JSON")
	}

	if err := json.Unmarshal([]byte(jsonStr), &job); err != nil {
		return job, fmt.Errorf("解析职位画像JSON失败: %w", err)
	}

	if job.RequiredSkills == nil {
		job.RequiredSkills = []string{}
	}
	if job.OptionalSkills == nil {
		job.OptionalSkills = []string{}
	}
	if job.PreferredRoles == nil {
		job.PreferredRoles = []string{}
	}

	p.logger.Printf("职位画像生成完成: %s -> %d 项必备技能, %d 项加分技能",
		jobRole, len(job.RequiredSkills), len(job.OptionalSkills))
	return job, nil
}
