package ats

import (
	"sort"
	"strings"

	"resume-iq-go/internal/constants"
	"resume-iq-go/internal/types"
)

// roleIndicators 摘要文本中提示职位的指示词。
var roleIndicators = []string{
	"engineer", "developer", "designer", "analyst", "manager",
	"consultant", "coordinator", "executive", "specialist",
	"officer", "administrator", "assistant", "lead", "intern",
}

// domainRule 技能领域到角色标签的推断规则。
type domainRule struct {
	Domain   string
	Keywords []string
}

// defaultDomainRules 技能文本→领域的推断表，对技术和非技术简历都适用。
// 按固定顺序求值，保证输出可复现。
var defaultDomainRules = []domainRule{
	{"Software", []string{"programming", "development", "coding", "software"}},
	{"Marketing", []string{"seo", "content", "branding", "campaign", "marketing"}},
	{"Human Resources", []string{"recruitment", "hr", "onboarding", "payroll"}},
	{"Finance", []string{"accounting", "finance", "audit", "tax", "budget"}},
	{"Sales", []string{"sales", "crm", "lead", "pipeline", "negotiation"}},
	{"Operations", []string{"operations", "process", "logistics", "supply"}},
	{"Data", []string{"data", "analytics", "analysis", "visualization"}},
	{"Design", []string{"design", "ux", "ui", "creative"}},
	{"Management", []string{"management", "strategy", "leadership", "planning"}},
	{"Education", []string{"teaching", "training", "curriculum", "education"}},
	{"Healthcare", []string{"clinical", "healthcare", "medical", "patient"}},
}

// 信号来源标签
const (
	signalExperience = "experience"
	signalProjects   = "projects"
	signalSummary    = "summary"
	signalSkills     = "skills"
)

// RoleInferencer 从简历推断最适合的角色标签。
type RoleInferencer struct {
	topN int
}

// RoleInferencerOption RoleInferencer的配置选项。
type RoleInferencerOption func(*RoleInferencer)

// WithTopN 覆盖返回的角色条数。
func WithTopN(n int) RoleInferencerOption {
	return func(r *RoleInferencer) {
		if n > 0 {
			r.topN = n
		}
	}
}

// NewRoleInferencer 构造角色推断器。
func NewRoleInferencer(opts ...RoleInferencerOption) *RoleInferencer {
	r := &RoleInferencer{topN: constants.DefaultTopRoles}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// roleTally 单个角色标签的累积信号。
type roleTally struct {
	role    string
	score   int
	signals map[string]struct{}
}

// NormalizeRole 角色标签归一：小写、剔除字母和空格之外的字符、
// 压缩空白后逐词首字母大写。
func NormalizeRole(role string) string {
	role = strings.ToLower(role)
	var b strings.Builder
	for _, c := range role {
		if (c >= 'a' && c <= 'z') || c == ' ' {
			b.WriteRune(c)
		}
	}
	words := strings.Fields(b.String())
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// extractRolesFromText 扫描相邻词对，命中职位指示词的词对视为角色短语。
// 返回去重后的角色集合(保持首次出现顺序)。
func extractRolesFromText(text string) []string {
	words := strings.Fields(strings.ToLower(text))
	seen := make(map[string]struct{})
	var roles []string

	for i := 0; i+1 < len(words); i++ {
		phrase := words[i] + " " + words[i+1]
		for _, indicator := range roleIndicators {
			if strings.Contains(phrase, indicator) {
				role := NormalizeRole(phrase)
				if _, ok := seen[role]; !ok && role != "" {
					seen[role] = struct{}{}
					roles = append(roles, role)
				}
				break
			}
		}
	}
	return roles
}

// inferDomainsFromSkills 从技能文本推断领域，每个领域产出"<Domain> Professional"标签。
func inferDomainsFromSkills(skillText string) []string {
	var inferred []string
	for _, rule := range defaultDomainRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(skillText, kw) {
				inferred = append(inferred, rule.Domain+" Professional")
				break
			}
		}
	}
	return inferred
}

// Suggest 推断最适合的角色标签并排序。
// 信号权重：经历/项目的职位名+5；摘要角色短语+3；技能领域推断+2。
// 完全无信号时返回单条"General Professional"兜底建议。
func (r *RoleInferencer) Suggest(resume *types.StructuredResume, score *types.ScoreReport) *types.RoleSuggestions {
	finalScore := 0.0
	if score != nil {
		finalScore = score.FinalScore
	}

	var order []string
	tallies := make(map[string]*roleTally)
	add := func(role, signal string, points int) {
		if role == "" {
			return
		}
		t, ok := tallies[role]
		if !ok {
			t = &roleTally{role: role, signals: make(map[string]struct{})}
			tallies[role] = t
			order = append(order, role)
		}
		t.score += points
		t.signals[signal] = struct{}{}
	}

	// 1. 经历/项目中的职位名(强信号)
	for _, exp := range resume.Experience {
		add(NormalizeRole(exp.Position), signalExperience, 5)
	}
	for _, p := range resume.Projects {
		title := p.Role
		if title == "" {
			title = p.Title
		}
		add(NormalizeRole(title), signalProjects, 5)
	}

	// 2. 摘要中的角色短语
	for _, role := range extractRolesFromText(resume.Summary) {
		add(role, signalSummary, 3)
	}

	// 3. 技能领域推断(弱信号)
	skillText := strings.ToLower(strings.Join(resume.Skills, " "))
	if skillText != "" {
		for _, role := range inferDomainsFromSkills(skillText) {
			add(role, signalSkills, 2)
		}
	}

	// 4. 兜底
	if len(order) == 0 {
		return &types.RoleSuggestions{
			TopRoles: []types.RoleSuggestion{{
				Role:       "General Professional",
				Confidence: types.ConfidenceLow,
				Score:      0,
				Signals:    []string{},
			}},
			RoadmapAllowed: finalScore >= constants.RoadmapMinScore,
		}
	}

	// 5. 按分数降序(稳定排序，同分保持首次出现顺序)取前N
	sorted := make([]*roleTally, 0, len(order))
	for _, role := range order {
		sorted = append(sorted, tallies[role])
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].score > sorted[j].score
	})
	if len(sorted) > r.topN {
		sorted = sorted[:r.topN]
	}

	// 6. 组装结果
	top := make([]types.RoleSuggestion, 0, len(sorted))
	for _, t := range sorted {
		var confidence types.Confidence
		switch {
		case t.score >= 8 && finalScore >= 75:
			confidence = types.ConfidenceHigh
		case t.score >= 5:
			confidence = types.ConfidenceMedium
		default:
			confidence = types.ConfidenceLow
		}

		signals := make([]string, 0, len(t.signals))
		for _, s := range []string{signalExperience, signalProjects, signalSummary, signalSkills} {
			if _, ok := t.signals[s]; ok {
				signals = append(signals, s)
			}
		}

		top = append(top, types.RoleSuggestion{
			Role:       t.role,
			Confidence: confidence,
			Score:      t.score,
			Signals:    signals,
		})
	}

	return &types.RoleSuggestions{
		TopRoles:       top,
		RoadmapAllowed: finalScore >= constants.RoadmapMinScore,
	}
}
