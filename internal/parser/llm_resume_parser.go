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

// llmResumePrompt 结构化简历提取的系统提示词。
// 要求模型只输出符合固定schema的JSON，缺失字段置null或空列表。
const llmResumePrompt = `You are an ATS resume parser.

You will be given resume text.
Your task is to extract structured data and return ONLY valid JSON.

RULES (STRICT):
- Output ONLY valid JSON
- Do NOT include markdown
- Do NOT include explanations
- Do NOT hallucinate missing data
- If a field is missing, return null or empty list

JSON SCHEMA (MUST FOLLOW EXACTLY):

{
  "personal_info": {
    "name": null,
    "email": null,
    "phone": null,
    "location": null
  },
  "summary": null,
  "education": [
    {
      "institution": null,
      "degree": null,
      "duration": null,
      "gpa": null
    }
  ],
  "skills": [],
  "languages": [],
  "projects": [
    {
      "title": null,
      "role": null,
      "technologies": [],
      "description": null
    }
  ]
}`

// LLMResumeParser 使用LLM把简历文本解析为结构化简历。
// 解析失败时调用方应回退到规则解析器。
type LLMResumeParser struct {
	llmModel model.ToolCallingChatModel
	logger   *log.Logger
}

// LLMResumeParserOption LLM简历解析器的配置选项
type LLMResumeParserOption func(*LLMResumeParser)

// WithLLMResumeParserLogger 配置自定义日志记录器
func WithLLMResumeParserLogger(logger *log.Logger) LLMResumeParserOption {
	return func(p *LLMResumeParser) {
		p.logger = logger
	}
}

// NewLLMResumeParser 创建LLM简历解析器。
func NewLLMResumeParser(llmModel model.ToolCallingChatModel, options ...LLMResumeParserOption) *LLMResumeParser {
	p := &LLMResumeParser{
		llmModel: llmModel,
		logger:   log.New(io.Discard, "", 0),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// llmResumePayload LLM输出的中间结构，字段比内部类型更宽松。
type llmResumePayload struct {
	PersonalInfo struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Location string `json:"location"`
	} `json:"personal_info"`
	Summary   string `json:"summary"`
	Education []struct {
		Institution string          `json:"institution"`
		Degree      string          `json:"degree"`
		Duration    string          `json:"duration"`
		GPA         types.GPAValue  `json:"gpa"`
	} `json:"education"`
	Skills    []string `json:"skills"`
	Languages []string `json:"languages"`
	Projects  []struct {
		Title        string      `json:"title"`
		Role         string      `json:"role"`
		Technologies []string    `json:"technologies"`
		Description  descRaw     `json:"description"`
	} `json:"projects"`
}

// descRaw 兼容LLM把描述输出为字符串或字符串数组两种情况。
type descRaw []string

func (d *descRaw) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single != "" {
			*d = []string{single}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*d = many
		return nil
	}
	// null或其他类型当作空描述
	*d = nil
	return nil
}

// Parse 调用LLM解析简历文本。任何失败都原样返回错误，由上游决定兜底。
func (p *LLMResumeParser) Parse(ctx context.Context, rawText string) (types.StructuredResume, error) {
	var resume types.StructuredResume

	response, err := callLLM(ctx, p.llmModel, p.logger, llmResumePrompt, rawText)
	if err != nil {
		return resume, fmt.Errorf("LLM简历解析调用失败: %w", err)
	}

	jsonStr := extractJSON(response)
	if jsonStr == "" {
		p.logger.Printf("无法从LLM响应中提取有效的JSON。原始响应: %.200s", response)
		return resume, fmt.Errorf("无法从LLM响应中提取有效的JSON")
	}

	var payload llmResumePayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return resume, fmt.Errorf("解析LLM简历JSON失败: %w", err)
	}

	resume = types.StructuredResume{
		PersonalInfo: types.ContactInfo{
			Name:     payload.PersonalInfo.Name,
			Email:    payload.PersonalInfo.Email,
			Location: payload.PersonalInfo.Location,
		},
		Summary:        payload.Summary,
		Skills:         payload.Skills,
		Education:      []types.EducationEntry{},
		Experience:     []types.ExperienceEntry{},
		Projects:       []types.ProjectEntry{},
		Languages:      []types.LanguageEntry{},
		Certifications: []string{},
		Achievements:   []string{},
		Interests:      []string{},
	}
	if payload.PersonalInfo.Phone != "" {
		resume.PersonalInfo.Phone = []string{CleanPhoneNumber(payload.PersonalInfo.Phone)}
	} else {
		resume.PersonalInfo.Phone = []string{}
	}
	if resume.Skills == nil {
		resume.Skills = []string{}
	}

	for _, edu := range payload.Education {
		resume.Education = append(resume.Education, types.EducationEntry{
			Institution: edu.Institution,
			Degree:      edu.Degree,
			Years:       edu.Duration,
			GPA:         edu.GPA,
		})
	}

	for _, proj := range payload.Projects {
		techs := proj.Technologies
		if techs == nil {
			techs = []string{}
		}
		resume.Projects = append(resume.Projects, types.ProjectEntry{
			Title:        proj.Title,
			Role:         proj.Role,
			Technologies: techs,
			Description:  []string(proj.Description),
		})
	}

	for _, lang := range payload.Languages {
		resume.Languages = append(resume.Languages, types.LanguageEntry{
			Language:    lang,
			Proficiency: defaultProficiency,
		})
	}

	p.logger.Printf("LLM简历解析完成: %d 项技能, %d 段教育, %d 个项目",
		len(resume.Skills), len(resume.Education), len(resume.Projects))
	return resume, nil
}
