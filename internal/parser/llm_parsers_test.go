package parser

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExtractJSON 验证从LLM响应中抠JSON的两级策略
func TestExtractJSON(t *testing.T) {
	// 优先匹配```json代码块
	blockResponse := "Here is the result:\n```json\n{\"a\": 1}\n```\nDone."
	assert.Equal(t, `{"a": 1}`, extractJSON(blockResponse), "应优先提取json代码块")

	// 退化到花括号配平，支持嵌套
	bareResponse := `Sure! {"outer": {"inner": [1, 2]}} trailing text`
	assert.Equal(t, `{"outer": {"inner": [1, 2]}}`, extractJSON(bareResponse), "应按花括号配平截取")

	// 无JSON时返回空
	assert.Equal(t, "", extractJSON("no json here"), "无JSON的响应应返回空")
	assert.Equal(t, "", extractJSON("{unbalanced"), "花括号不配平时应返回空")
}

// TestLLMJobParserParse 验证职位画像解析
func TestLLMJobParserParse(t *testing.T) {
	mockResp := "```json\n" + `{
		"required_skills": ["Flutter", "Dart"],
		"optional_skills": ["Firebase"],
		"preferred_roles": ["Flutter Developer"],
		"minimum_gpa": 3.0
	}` + "\n```"

	mock := newMockChatClient(mockResp, nil)
	jobParser := NewLLMJobParser(mock)

	job, err := jobParser.Parse(context.Background(), "Flutter Developer")
	require.NoError(t, err, "解析职位画像不应返回错误")

	assert.Equal(t, []string{"Flutter", "Dart"}, job.RequiredSkills)
	assert.Equal(t, []string{"Firebase"}, job.OptionalSkills)
	assert.Equal(t, []string{"Flutter Developer"}, job.PreferredRoles)
	assert.Equal(t, 3.0, job.MinimumGPA)

	// 岗位名称应出现在用户消息里
	require.NotEmpty(t, mock.ReceivedMessages)
	var foundRole bool
	for _, msg := range mock.ReceivedMessages {
		if strings.Contains(msg.Content, "Flutter Developer") {
			foundRole = true
		}
	}
	assert.True(t, foundRole, "岗位名称应出现在发给LLM的消息中")
}

// TestLLMJobParserDefaults 验证缺失字段被填为空切片而非nil
func TestLLMJobParserDefaults(t *testing.T) {
	mock := newMockChatClient(`{"minimum_gpa": 2.5}`, nil)
	jobParser := NewLLMJobParser(mock)

	job, err := jobParser.Parse(context.Background(), "Analyst")
	require.NoError(t, err)

	assert.NotNil(t, job.RequiredSkills, "必备技能应为空切片而非nil")
	assert.NotNil(t, job.OptionalSkills)
	assert.NotNil(t, job.PreferredRoles)
	assert.Empty(t, job.RequiredSkills)
}

// TestLLMJobParserInvalidResponse 验证非JSON响应报错
func TestLLMJobParserInvalidResponse(t *testing.T) {
	mock := newMockChatClient("I cannot help with that.", nil)
	jobParser := NewLLMJobParser(mock)

	_, err := jobParser.Parse(context.Background(), "Analyst")
	require.Error(t, err, "无JSON的响应应返回错误")
	assert.Contains(t, err.Error(), "JSON", "错误信息应指明JSON提取失败")
}

// TestLLMResumeParserParse 验证LLM简历解析与宽松字段兼容
func TestLLMResumeParserParse(t *testing.T) {
	mockResp := `{
		"personal_info": {"name": "John Smith", "email": "john@example.com", "phone": "9876543210", "location": "Mumbai"},
		"summary": "Flutter developer",
		"education": [{"institution": "Example University", "degree": "B.Tech", "duration": "2021 - 2025", "gpa": "8.73"}],
		"skills": ["Flutter", "Dart"],
		"languages": ["English"],
		"projects": [
			{"title": "Shop App", "role": "Developer", "technologies": ["Flutter"], "description": "single line"},
			{"title": "Chat App", "technologies": null, "description": ["line one", "line two"]}
		]
	}`

	resumeParser := NewLLMResumeParser(newMockChatClient(mockResp, nil))
	resume, err := resumeParser.Parse(context.Background(), "raw resume text")
	require.NoError(t, err, "LLM简历解析不应返回错误")

	assert.Equal(t, "John Smith", resume.PersonalInfo.Name)
	assert.Equal(t, []string{"+919876543210"}, resume.PersonalInfo.Phone, "电话应被规整")
	assert.Equal(t, "Flutter developer", resume.Summary)

	require.Len(t, resume.Education, 1)
	assert.Equal(t, "Example University", resume.Education[0].Institution)
	assert.Equal(t, "2021 - 2025", resume.Education[0].Years)
	assert.Equal(t, "8.73", resume.Education[0].GPA.Raw)

	require.Len(t, resume.Projects, 2)
	assert.Equal(t, []string{"single line"}, resume.Projects[0].Description, "字符串描述应转为单元素列表")
	assert.Equal(t, []string{"line one", "line two"}, resume.Projects[1].Description, "数组描述应原样保留")
	assert.NotNil(t, resume.Projects[1].Technologies, "null技术栈应转为空切片")

	require.Len(t, resume.Languages, 1)
	assert.Equal(t, "English", resume.Languages[0].Language)
	assert.Equal(t, defaultProficiency, resume.Languages[0].Proficiency, "LLM输出的语言应使用默认熟练度")

	// 未覆盖的章节保持空切片
	assert.NotNil(t, resume.Certifications)
	assert.NotNil(t, resume.Experience)
}

// TestLLMResumeParserMalformedGPA 验证非标量gpa字段被标记为损坏而不是解析失败
func TestLLMResumeParserMalformedGPA(t *testing.T) {
	mockResp := `{
		"education": [{"institution": "U", "degree": "B.Sc", "gpa": {"value": 3.5}}]
	}`

	resumeParser := NewLLMResumeParser(newMockChatClient(mockResp, nil))
	resume, err := resumeParser.Parse(context.Background(), "raw text")
	require.NoError(t, err, "非标量gpa不应导致整体解析失败")

	require.Len(t, resume.Education, 1)
	assert.True(t, resume.Education[0].GPA.Invalid, "对象形式的gpa应被标记为损坏")
}

// TestRoadmapGeneratorGenerate 验证路线图生成与提示词内容
func TestRoadmapGeneratorGenerate(t *testing.T) {
	mockResp := `{
		"total_duration": "6 Weeks",
		"roadmap_overview": "overview",
		"weekly_plan": [{"week": 1, "focus": "Basics", "learning": ["a"], "practice": ["b"], "deliverables": ["c"]}],
		"resume_optimization": ["mention firebase"]
	}`

	mock := newMockChatClient(mockResp, nil)
	gen := NewRoadmapGenerator(mock)

	roadmap, err := gen.Generate(context.Background(), "Flutter Developer", 67.0, []string{"firebase", "sql"}, "Entry-Level")
	require.NoError(t, err, "路线图生成不应返回错误")

	assert.Equal(t, "6 Weeks", roadmap.TotalDuration)
	require.Len(t, roadmap.WeeklyPlan, 1)
	assert.Equal(t, 1, roadmap.WeeklyPlan[0].Week)
	assert.Equal(t, "Basics", roadmap.WeeklyPlan[0].Focus)

	// 候选人画像应完整出现在提示词里
	var prompt string
	for _, msg := range mock.ReceivedMessages {
		if strings.Contains(msg.Content, "Candidate Profile") {
			prompt = msg.Content
		}
	}
	require.NotEmpty(t, prompt, "应找到包含候选人画像的提示词")
	assert.Contains(t, prompt, "Flutter Developer")
	assert.Contains(t, prompt, "67.0")
	assert.Contains(t, prompt, "firebase, sql")
	assert.Contains(t, prompt, "Entry-Level")
}

// TestCallLLMNonRetryableError 验证不可重试错误立即失败
func TestCallLLMNonRetryableError(t *testing.T) {
	mock := newMockChatClient("", errors.New("invalid api key"))
	jobParser := NewLLMJobParser(mock)

	_, err := jobParser.Parse(context.Background(), "Analyst")
	require.Error(t, err)

	// 不可重试的错误只应调用一次(每次调用记录system+user两条消息)
	assert.Len(t, mock.ReceivedMessages, 2, "不可重试错误不应触发重试")
}

// TestCallLLMRetryableError 验证瞬时故障会被重试
func TestCallLLMRetryableError(t *testing.T) {
	if testing.Short() {
		t.Skip("重试退避需要等待，短测试模式下跳过")
	}

	mock := newMockChatClientSequential([]mockResponse{
		{Error: errors.New("connection reset by peer")},
		{Content: `{"required_skills": ["Go"], "optional_skills": [], "preferred_roles": [], "minimum_gpa": 0}`},
	})
	jobParser := NewLLMJobParser(mock)

	job, err := jobParser.Parse(context.Background(), "Backend Engineer")
	require.NoError(t, err, "瞬时故障重试后应成功")
	assert.Equal(t, []string{"Go"}, job.RequiredSkills)
	assert.Len(t, mock.ReceivedMessages, 4, "应恰好调用两次")
}
