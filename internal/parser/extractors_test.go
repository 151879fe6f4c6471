package parser

import (
	"testing"

	"resume-iq-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestContactExtract 验证联系方式提取
func TestContactExtract(t *testing.T) {
	lines := []string{
		"John Smith",
		"john.smith@example.com",
		"+91 9876543210",
		"https://linkedin.com/in/johnsmith",
		"https://github.com/johnsmith",
	}
	contactLines := []string{"Address: Mumbai, India"}

	info := NewContactExtractor().Extract(lines, contactLines)

	assert.Equal(t, "John Smith", info.Name, "应从前几行识别出姓名")
	assert.Equal(t, "john.smith@example.com", info.Email, "邮箱提取不符")
	require.NotEmpty(t, info.Phone, "应提取到电话号码")
	assert.Equal(t, "+919876543210", info.Phone[0], "电话号码应被规整")
	assert.Contains(t, info.LinkedIn, "linkedin.com", "LinkedIn链接不符")
	assert.Contains(t, info.Portfolio, "github.com", "作品集链接不符")
	assert.Equal(t, "Address: Mumbai, India", info.Location, "带地址提示词的行应作为地址")
}

// TestExtractNameVariants 验证姓名识别的各形态与退化策略
func TestExtractNameVariants(t *testing.T) {
	// 全大写姓名转为Title Case
	info := NewContactExtractor().Extract([]string{"JOHN SMITH"}, nil)
	assert.Equal(t, "John Smith", info.Name, "全大写姓名应转为Title Case")

	// 标题性词汇被跳过
	info = NewContactExtractor().Extract([]string{"Resume Document", "Jane Doe"}, nil)
	assert.Equal(t, "Jane Doe", info.Name, "含resume的标题行应被跳过")

	// 无姓名行时退化到邮箱用户名
	info = NewContactExtractor().Extract([]string{"contact: jane.doe@example.com"}, nil)
	assert.Equal(t, "Jane Doe", info.Name, "应从邮箱用户名还原姓名")
}

// TestCleanPhoneNumber 验证电话号码规整规则
func TestCleanPhoneNumber(t *testing.T) {
	assert.Equal(t, "+919876543210", CleanPhoneNumber("9876543210"), "裸10位应补+91")
	assert.Equal(t, "+919876543210", CleanPhoneNumber("91-9876543210"), "91开头的12位应补+")
	assert.Equal(t, "+14155551234", CleanPhoneNumber("+1 (415) 555-1234"), "已带+的应保留")
	assert.Equal(t, "12345", CleanPhoneNumber("12345"), "无法识别的格式应原样返回")
}

// TestEducationExtract 验证教育章节的折叠行为: 每个触发行开启新条目
func TestEducationExtract(t *testing.T) {
	lines := []string{
		"Bachelor of Technology",
		"2021 - 2025 GPA: 8.73 78%",
	}

	education := NewEducationExtractor().Extract(lines)
	require.Len(t, education, 2, "两个触发行应产生两个条目")

	assert.Equal(t, "Bachelor of Technology", education[0].Degree, "学位提取不符")

	assert.Equal(t, "2021 - 2025", education[1].Years, "年份区间提取不符")
	assert.Equal(t, "GPA: 8.73", education[1].GPA.Raw, "绩点提取不符")
	assert.Equal(t, "78%", education[1].Percentage, "百分比成绩提取不符")
}

// TestExperienceExtract 验证经历章节的缓冲-冲刷切分
func TestExperienceExtract(t *testing.T) {
	lines := []string{
		"Software Engineer at Google 2020 - Present",
		"Built search ranking features",
		"Data Analyst at Meta 2018 - 2020",
		"Analyzed product metrics",
	}

	experience := NewExperienceExtractor().Extract(lines)
	require.Len(t, experience, 2, "两个时间区间行应切出两条经历")

	first := experience[0]
	assert.Equal(t, "Software Engineer", first.Position, "职位提取不符")
	assert.Contains(t, first.Company, "Google", "公司提取不符")
	assert.Equal(t, "2020 - Present", first.Duration, "时间区间提取不符")
	assert.Equal(t, []string{"Built search ranking features"}, first.Description, "描述行不符")

	second := experience[1]
	assert.Equal(t, "Data Analyst", second.Position)
	assert.Equal(t, "2018 - 2020", second.Duration)
}

// TestProjectExtract 验证项目切分与技术栈行归类
func TestProjectExtract(t *testing.T) {
	lines := []string{
		"1. Shop App",
		"Technologies: Flutter, Firebase",
		"Built a mobile shopping experience",
		"2. Chat App",
		"Tech stack: Dart",
		"Realtime messaging",
	}

	projects := NewProjectExtractor().Extract(lines)
	require.Len(t, projects, 2, "两个编号行应切出两个项目")

	first := projects[0]
	assert.Equal(t, "Shop App", first.Title, "列表标记应从项目名中去掉")
	assert.Equal(t, []string{"Flutter", "Firebase"}, first.Technologies, "技术栈行应归入当前项目而不是另起项目")
	assert.Equal(t, []string{"Built a mobile shopping experience"}, first.Description)

	second := projects[1]
	assert.Equal(t, "Chat App", second.Title)
	assert.Equal(t, []string{"Dart"}, second.Technologies)
}

// TestExtractSkills 验证技能拆分、去重与长度过滤
func TestExtractSkills(t *testing.T) {
	skills := ExtractSkills([]string{"Flutter, Dart, Git and Firebase (SDK), Flutter, x"})

	assert.Equal(t, []string{"Flutter", "Dart", "Git", "Firebase"}, skills,
		"技能应按分隔符拆分、去括号、去重并过滤过短项")
}

// TestExtractLanguages 验证语言章节的两种标注格式
func TestExtractLanguages(t *testing.T) {
	languages := ExtractLanguages([]string{
		"English: Fluent",
		"Hindi (Native)",
		"German",
	})
	require.Len(t, languages, 3)

	assert.Equal(t, types.LanguageEntry{Language: "English", Proficiency: "Fluent"}, languages[0])
	assert.Equal(t, types.LanguageEntry{Language: "Hindi", Proficiency: "Native"}, languages[1])
	assert.Equal(t, types.LanguageEntry{Language: "German", Proficiency: "Proficient"}, languages[2], "未标注熟练度应使用默认值")
}

// TestRuleBasedParserEndToEnd 验证规则解析器的整体流程
func TestRuleBasedParserEndToEnd(t *testing.T) {
	rawText := `John Smith
john.smith@example.com

SUMMARY
Flutter developer passionate about crafting apps

EDUCATION
Bachelor of Technology
2021 - 2025 GPA: 8.73

SKILLS
Flutter, Dart, Git

PROJECTS
1. Shop App
Technologies: Flutter, Firebase
Built a shopping app
`

	parser := NewRuleBasedResumeParser()
	resume := parser.Parse(rawText)

	assert.Equal(t, "John Smith", resume.PersonalInfo.Name)
	assert.Equal(t, "john.smith@example.com", resume.PersonalInfo.Email)
	assert.Equal(t, "Flutter developer passionate about crafting apps", resume.Summary)
	assert.Equal(t, []string{"Flutter", "Dart", "Git"}, resume.Skills)
	require.NotEmpty(t, resume.Education, "应提取到教育条目")
	require.Len(t, resume.Projects, 1)
	assert.Equal(t, "Shop App", resume.Projects[0].Title)
	assert.Equal(t, []string{"Flutter", "Firebase"}, resume.Projects[0].Technologies)

	// 未检出的章节保持空切片而非nil
	assert.NotNil(t, resume.Languages)
	assert.NotNil(t, resume.Certifications)

	// 确定性: 重复解析结果一致
	assert.Equal(t, resume, parser.Parse(rawText), "相同输入应产生相同输出")
}

// TestScannedDetection 验证扫描件检测
func TestScannedDetection(t *testing.T) {
	assert.True(t, IsScannedText(""), "空文本应判为扫描件")
	assert.True(t, IsScannedText("short"), "过短文本应判为扫描件")

	// 字符数够但词数不足
	assert.True(t, IsScannedText("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"), "词数不足应判为扫描件")

	normal := `John Smith is a software engineer with five years of experience building
mobile applications using Flutter and Dart. He has worked on several production
apps with millions of users and enjoys writing clean maintainable code every day.`
	assert.False(t, IsScannedText(normal), "正常简历文本不应判为扫描件")

	assert.NoError(t, CheckExtractedText(normal), "正常文本应通过校验")
	assert.ErrorIs(t, CheckExtractedText("short"), ErrScannedPDF, "扫描件应返回ErrScannedPDF")
}
