package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"

	"resume-iq-go/internal/types"
)

// roadmapSchema 路线图JSON的结构示例，直接嵌进提示词。
const roadmapSchema = `{
  "total_duration": "X Weeks",
  "roadmap_overview": "short explanation",
  "weekly_plan": [
    {
      "week": 1,
      "focus": "Focus title",
      "learning": ["point 1", "point 2"],
      "practice": ["point 1", "point 2"],
      "deliverables": ["point 1"]
    }
  ],
  "projects_or_case_studies": [
    {
      "title": "Project Name",
      "description": "What to build or analyze",
      "skills_covered": ["skill1", "skill2"]
    }
  ],
  "interview_preparation": {
    "technical_or_domain": ["topic 1", "topic 2"],
    "behavioral": ["question 1", "question 2"]
  },
  "resume_optimization": ["improvement 1"],
  "common_mistakes_to_avoid": ["mistake 1"],
  "job_application_strategy": ["strategy 1"]
}`

// RoadmapGenerator 基于评分结果生成职业提升路线图。
type RoadmapGenerator struct {
	llmModel model.ToolCallingChatModel
	logger   *log.Logger
}

// RoadmapGeneratorOption 路线图生成器的配置选项
type RoadmapGeneratorOption func(*RoadmapGenerator)

// WithRoadmapLogger 配置自定义日志记录器
func WithRoadmapLogger(logger *log.Logger) RoadmapGeneratorOption {
	return func(g *RoadmapGenerator) {
		g.logger = logger
	}
}

// NewRoadmapGenerator 创建路线图生成器。
func NewRoadmapGenerator(llmModel model.ToolCallingChatModel, options ...RoadmapGeneratorOption) *RoadmapGenerator {
	g := &RoadmapGenerator{
		llmModel: llmModel,
		logger:   log.New(io.Discard, "", 0),
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

// Generate 根据目标岗位、当前水平、分数和缺失技能生成路线图。
func (g *RoadmapGenerator) Generate(ctx context.Context, role string, atsScore float64, missingSkills []string, currentLevel string) (types.Roadmap, error) {
	var roadmap types.Roadmap

	userPrompt := fmt.Sprintf(`You are a senior career mentor.

Create a detailed career roadmap.

Candidate Profile:
- Target Role: %s
- Current Level: %s
- ATS Score: %.1f
- Missing Skills: %s

Return ONLY valid JSON in this format:
%s`, role, currentLevel, atsScore, strings.Join(missingSkills, ", "), roadmapSchema)

	response, err := callLLM(ctx, g.llmModel, g.logger, "Return ONLY valid JSON.", userPrompt)
	if err != nil {
		return roadmap, fmt.Errorf("路线图生成调用失败: %w", err)
	}

	jsonStr := extractJSON(response)
	if jsonStr == "" {
		g.logger.Printf("无法从LLM响应中提取有效的JSON。原始响应: %.200s", response)
		return roadmap, fmt.Errorf("无法从LLM响应中提取有效的JSON")
	}

	if err := json.Unmarshal([]byte(jsonStr), &roadmap); err != nil {
		return roadmap, fmt.Errorf("解析路线图JSON失败: %w", err)
	}

	g.logger.Printf("路线图生成完成: 目标岗位 %s, 共 %d 周计划", role, len(roadmap.WeeklyPlan))
	return roadmap, nil
}
