package ats

import (
	"math"
	"strings"

	"resume-iq-go/internal/constants"
	"resume-iq-go/internal/types"
)

// 各评分类目的权重。满分之和为105，最终分封顶100。
const (
	WeightRequiredSkills  = 50.0
	WeightOptionalSkills  = 20.0
	WeightEducation       = 15.0
	WeightRoleMatch       = 15.0
	WeightExperienceBonus = 5.0

	// MaxScore 最终得分上限
	MaxScore = 100.0
)

// roleKeywordCategory 角色类别到佐证关键词的映射，按固定顺序求值。
type roleKeywordCategory struct {
	Category string
	Keywords []string
}

// defaultRoleKeywords 角色匹配使用的类别关键词表。
var defaultRoleKeywords = []roleKeywordCategory{
	{"developer", []string{"developer", "programmer", "software"}},
	{"engineer", []string{"engineer"}},
	{"frontend", []string{"frontend", "ui", "ux"}},
	{"backend", []string{"backend", "server", "api"}},
	{"mobile", []string{"mobile", "android", "flutter"}},
	{"fullstack", []string{"fullstack", "full-stack"}},
}

// Scorer ATS评分引擎。无内部状态，可并发复用。
type Scorer struct {
	canon   *Canonicalizer
	matcher *SkillMatcher
	// educationPartialCredit 教育打分过程中字段损坏时授予的固定部分学分。
	// 该常数在原始公式中缺乏明确依据(其他类目都是0/满分二元)，按原样保留为可配置项。
	educationPartialCredit float64
}

// ScorerOption Scorer的配置选项。
type ScorerOption func(*Scorer)

// WithEducationPartialCredit 覆盖教育类目的固定部分学分。
func WithEducationPartialCredit(credit float64) ScorerOption {
	return func(s *Scorer) {
		s.educationPartialCredit = credit
	}
}

// NewScorer 构造评分引擎。
func NewScorer(canon *Canonicalizer, opts ...ScorerOption) *Scorer {
	s := &Scorer{
		canon:                  canon,
		matcher:                NewSkillMatcher(canon),
		educationPartialCredit: constants.EducationPartialCredit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// resumeSignals 评分前从简历里收集的一次性中间数据。
type resumeSignals struct {
	keywords     map[string]struct{} // 技能 ∪ 项目技术 ∪ 摘要关键词，均为规范化形式
	projectDescs []string            // 每个项目的"标题 角色 描述"规范化拼接
}

// collectSignals 收集简历侧的匹配信号。
func (s *Scorer) collectSignals(resume *types.StructuredResume) *resumeSignals {
	sig := &resumeSignals{keywords: make(map[string]struct{})}

	for _, skill := range resume.Skills {
		sig.keywords[s.canon.Canonicalize(skill)] = struct{}{}
	}

	for _, p := range resume.Projects {
		for _, tech := range p.Technologies {
			sig.keywords[s.canon.Canonicalize(tech)] = struct{}{}
		}
		desc := p.Title + " " + p.Role + " " + strings.Join(p.Description, " ")
		sig.projectDescs = append(sig.projectDescs, NormalizeText(desc))
	}

	for k := range s.canon.ExtractKeywords(resume.Summary) {
		sig.keywords[k] = struct{}{}
	}

	return sig
}

// scoreSkillList 按比例给技能清单打分。清单为空时得0分(显式判零，避免除零)。
func (s *Scorer) scoreSkillList(skills []string, sig *resumeSignals, weight float64) (matched, missing []string, score float64) {
	matched = []string{}
	missing = []string{}
	if len(skills) == 0 {
		return matched, missing, 0
	}

	canonical := make([]string, 0, len(skills))
	for _, skill := range skills {
		canonical = append(canonical, s.canon.Canonicalize(skill))
	}

	for _, skill := range canonical {
		if s.matcher.IsSkillMatch(skill, sig.keywords, sig.projectDescs) {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	score = float64(len(matched)) / float64(len(canonical)) * weight
	return matched, missing, score
}

// scoreEducation 教育类目打分。
// 三条降级路径保持独立：无教育条目得0分；绩点字段损坏走固定部分学分；
// 缺失或无法解析的绩点按0.0参与阈值比较。
func (s *Scorer) scoreEducation(resume *types.StructuredResume, minGPA float64) types.EducationScore {
	if len(resume.Education) == 0 {
		return types.EducationScore{Score: 0}
	}

	first := resume.Education[0]
	res := ResolveGPA(first.GPA)

	if res.State == GPAMalformed {
		return types.EducationScore{GPA: first.GPA.Raw, Score: s.educationPartialCredit}
	}
	if res.Value >= minGPA {
		return types.EducationScore{GPA: first.GPA.Raw, Score: WeightEducation}
	}
	return types.EducationScore{GPA: first.GPA.Raw, Score: 0}
}

// scoreRoleMatch 角色匹配类目打分。
// 每个期望角色：摘要中原样出现+4；任一项目描述中出现再+4；
// 摘要中未原样出现时回退到类别关键词表，类别名是角色子串且
// 类别关键词出现在摘要中时每词+2；单角色封顶10分。
// 取所有角色的最高分折算到权重15。
func (s *Scorer) scoreRoleMatch(roles []string, resume *types.StructuredResume, projectDescs []string) float64 {
	if len(roles) == 0 {
		return 0
	}

	summary := NormalizeText(resume.Summary)
	best := 0

	for _, role := range roles {
		roleNorm := NormalizeText(role)
		roleScore := 0

		verbatim := roleNorm != "" && strings.Contains(summary, roleNorm)
		if verbatim {
			roleScore += 4
		}

		for _, desc := range projectDescs {
			if roleNorm != "" && strings.Contains(desc, roleNorm) {
				roleScore += 4
				break
			}
		}

		// 原样命中时关键词表不再叠加，避免同一摘要重复计分
		if !verbatim {
			for _, cat := range defaultRoleKeywords {
				if !strings.Contains(roleNorm, cat.Category) {
					continue
				}
				for _, kw := range cat.Keywords {
					if strings.Contains(summary, kw) {
						roleScore += 2
					}
				}
			}
		}

		if roleScore > 10 {
			roleScore = 10
		}
		if roleScore > best {
			best = roleScore
		}
	}

	return float64(best) / 10 * WeightRoleMatch
}

// scoreExperienceBonus 经验加分。
// "相关项目"指技术栈与必备技能(均规范化后)有交集的项目：
// ≥2个+2分，≥4个再+1分；摘要非空+1分；总计封顶5分。
func (s *Scorer) scoreExperienceBonus(resume *types.StructuredResume, job *types.JobRequirement) float64 {
	required := make(map[string]struct{}, len(job.RequiredSkills))
	for _, r := range job.RequiredSkills {
		required[s.canon.Canonicalize(r)] = struct{}{}
	}

	relevant := 0
	for _, p := range resume.Projects {
		for _, tech := range p.Technologies {
			if _, ok := required[s.canon.Canonicalize(tech)]; ok {
				relevant++
				break
			}
		}
	}

	bonus := 0.0
	if relevant >= 2 {
		bonus += 2
	}
	if relevant >= 4 {
		bonus++
	}
	if resume.Summary != "" {
		bonus++
	}

	if bonus > WeightExperienceBonus {
		bonus = WeightExperienceBonus
	}
	return bonus
}

// Score 计算简历对岗位要求的ATS适配度。
// 五个类目独立计算，逐项填入明细；最终分=min(各类目之和, 100)，保留两位小数。
// 纯函数：相同输入永远产生相同输出。
func (s *Scorer) Score(resume *types.StructuredResume, job *types.JobRequirement) *types.ScoreReport {
	sig := s.collectSignals(resume)

	var breakdown types.ScoreBreakdown
	total := 0.0

	// 1. 必备技能 (50)
	matched, missing, reqScore := s.scoreSkillList(job.RequiredSkills, sig, WeightRequiredSkills)
	breakdown.RequiredSkills = types.SkillCategoryScore{
		Matched: matched,
		Missing: missing,
		Score:   round2(reqScore),
	}
	total += reqScore

	// 2. 加分技能 (20)
	optMatched, _, optScore := s.scoreSkillList(job.OptionalSkills, sig, WeightOptionalSkills)
	breakdown.OptionalSkills = types.SkillCategoryScore{
		Matched: optMatched,
		Score:   round2(optScore),
	}
	total += optScore

	// 3. 教育 (15)
	edu := s.scoreEducation(resume, job.MinimumGPA)
	edu.Score = round2(edu.Score)
	breakdown.Education = edu
	total += edu.Score

	// 4. 角色匹配 (15)
	roleScore := s.scoreRoleMatch(job.PreferredRoles, resume, sig.projectDescs)
	breakdown.RoleMatch = types.RoleMatchScore{
		Matched: roleScore > 0,
		Score:   round2(roleScore),
	}
	total += roleScore

	// 5. 经验加分 (5)
	expBonus := s.scoreExperienceBonus(resume, job)
	breakdown.ExperienceBonus = types.BonusScore{Score: round2(expBonus)}
	total += expBonus

	if total > MaxScore {
		total = MaxScore
	}

	return &types.ScoreReport{
		FinalScore: round2(total),
		OutOf:      int(MaxScore),
		Breakdown:  breakdown,
	}
}

// round2 四舍五入到两位小数。
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
