package parser

import (
	"regexp"
	"strings"

	"resume-iq-go/internal/types"
)

// 新项目条目的触发特征：编号、项目符号、Project前缀或带冒号的标题。
var (
	numberedTrigger   = regexp.MustCompile(`^\d+[.)]`)
	bulletTrigger     = regexp.MustCompile(`^[•\-*]\s+[A-Z]`)
	projectTrigger    = regexp.MustCompile(`(?i)^Project\s+`)
	titleColonTrigger = regexp.MustCompile(`^[A-Z][a-z]+.*?:`)
	listMarkerPrefix  = regexp.MustCompile(`^\d+[.)]\s*|^[•\-*]\s*`)
	techSplitter      = regexp.MustCompile(`[,;]`)
)

// 技术栈行的提示词。
var techLineKeywords = []string{"technologies", "tech stack", "tools", "skills used"}

// ProjectExtractor 把项目章节切成带技术栈的条目列表。
type ProjectExtractor struct{}

// NewProjectExtractor 构造项目信息提取器。
func NewProjectExtractor() *ProjectExtractor {
	return &ProjectExtractor{}
}

// Extract 按缓冲-冲刷方式切分项目条目。
func (e *ProjectExtractor) Extract(projectLines []string) []types.ProjectEntry {
	var projects []types.ProjectEntry
	var buffer []string

	flush := func() {
		if len(buffer) == 0 {
			return
		}
		projects = append(projects, processProject(buffer))
		buffer = nil
	}

	for _, line := range projectLines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		isNewProject := numberedTrigger.MatchString(line) ||
			bulletTrigger.MatchString(line) ||
			projectTrigger.MatchString(line) ||
			titleColonTrigger.MatchString(line)

		// "Technologies: ..."这类技术栈行也带冒号，但属于当前项目
		if containsAnyFold(line, techLineKeywords) {
			isNewProject = false
		}

		if isNewProject {
			flush()
		}
		buffer = append(buffer, line)
	}
	flush()

	return projects
}

// processProject 首行去掉列表标记后作为项目名，
// 其余行按 技术栈行 > 时间区间行 > 描述行 归类。
func processProject(lines []string) types.ProjectEntry {
	project := types.ProjectEntry{
		Technologies: []string{},
		Description:  []string{},
	}

	project.Title = strings.TrimSpace(listMarkerPrefix.ReplaceAllString(lines[0], ""))

	for _, line := range lines[1:] {
		switch {
		case containsAnyFold(line, techLineKeywords):
			techPart := line
			if idx := strings.Index(line, ":"); idx >= 0 {
				techPart = line[idx+1:]
			}
			for _, tech := range techSplitter.Split(techPart, -1) {
				tech = strings.TrimSpace(tech)
				if tech != "" && !containsString(project.Technologies, tech) {
					project.Technologies = append(project.Technologies, tech)
				}
			}
		case yearRangePattern.MatchString(line):
			project.Duration = yearRangePattern.FindString(line)
		default:
			project.Description = append(project.Description, line)
		}
	}

	return project
}

func containsString(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
