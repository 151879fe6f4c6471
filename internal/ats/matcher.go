package ats

import "strings"

// genericSkillWords 岗位技能描述里的通用填充词，匹配前剔除，
// 避免"flutter development"因为"development"命中无关简历。
var genericSkillWords = map[string]struct{}{
	"programming": {},
	"development": {},
	"framework":   {},
	"language":    {},
	"design":      {},
	"principles":  {},
}

// matcherSynonyms 跨表述的技能等价关系，按固定顺序求值。
// 例：岗位要求git，简历只写了"version control"也算命中。
var matcherSynonyms = []SynonymRule{
	{"git", "version control"},
	{"async", "asynchronous"},
	{"await", "asynchronous"},
	{"flutter", "dart"},
	{"android", "java"},
	{"asp.net", "aspnet"},
	{".net", "dotnet"},
}

// SkillMatcher 判定岗位要求的技能是否在简历中"出现"。
type SkillMatcher struct {
	canon *Canonicalizer
}

// NewSkillMatcher 构造技能匹配器。
func NewSkillMatcher(canon *Canonicalizer) *SkillMatcher {
	return &SkillMatcher{canon: canon}
}

// coreKeywords 把岗位技能拆成核心关键词(剔除通用填充词)。
func (m *SkillMatcher) coreKeywords(jobSkill string) []string {
	jobSkill = m.canon.Canonicalize(jobSkill)
	keywords := m.canon.ExtractKeywords(jobSkill)

	core := make([]string, 0, len(keywords))
	// 按原词序收集，保证行为可复现
	for _, w := range strings.Fields(NormalizeText(jobSkill)) {
		canonical := m.canon.Canonicalize(w)
		if _, ok := keywords[canonical]; !ok {
			continue
		}
		if _, generic := genericSkillWords[canonical]; generic {
			continue
		}
		core = append(core, canonical)
		delete(keywords, canonical)
	}
	return core
}

// IsSkillMatch 三级匹配：
// 1) 核心关键词在简历关键词集合中精确命中；
// 2) 核心关键词作为子串出现在任一规范化项目描述中；
// 3) 核心关键词经固定同义词表映射后命中简历关键词。
// resumeKeywords应已是规范化形式；projectDescriptions应已是NormalizeText后的文本。
func (m *SkillMatcher) IsSkillMatch(jobSkill string, resumeKeywords map[string]struct{}, projectDescriptions []string) bool {
	core := m.coreKeywords(jobSkill)

	for _, k := range core {
		if _, ok := resumeKeywords[k]; ok {
			return true
		}
	}

	for _, desc := range projectDescriptions {
		for _, k := range core {
			if strings.Contains(desc, k) {
				return true
			}
		}
	}

	for _, k := range core {
		for _, syn := range matcherSynonyms {
			if syn.Phrase != k {
				continue
			}
			if _, ok := resumeKeywords[syn.Canonical]; ok {
				return true
			}
		}
	}

	return false
}
