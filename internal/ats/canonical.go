package ats

import "strings"

// SynonymRule 同义词规则：短语命中时归一为Canonical值。
// 规则列表的顺序即匹配优先级，"首个子串命中者胜"是可审计的确定性行为，
// 不依赖map的随机迭代顺序。
type SynonymRule struct {
	Phrase    string
	Canonical string
}

// Canonicalizer 技能/角色文本的规范化器。
// 规则表在构造时固定，之后只读，可在任意数量的goroutine间共享。
type Canonicalizer struct {
	rules []SynonymRule
	exact map[string]string
	stop  map[string]struct{}
}

// DefaultSynonymRules 返回内置的同义词规则表(技术与通用技能混排)。
// 已知权衡：子串回退可能把包含规范短语的长文本合并进同一规范值，
// 这是启发式的精度/召回取舍，按原始行为保留。
func DefaultSynonymRules() []SynonymRule {
	return []SynonymRule{
		// 技术类
		{"dart programming", "dart"},
		{"flutter sdk", "flutter"},
		{"flutter framework", "flutter"},
		{"android development", "android"},
		{"ios development", "ios"},
		{"java programming", "java"},
		{"python programming", "python"},
		{"restful api", "rest api"},
		{"restful apis", "rest api"},
		{"api integration", "api"},
		{"version control git", "git"},
		{"git version control", "git"},
		{"asp net", "asp.net"},
		{"dot net", ".net"},
		{"dotnet", ".net"},

		// 非技术/通用类
		{"communication skills", "communication"},
		{"verbal communication", "communication"},
		{"written communication", "communication"},
		{"team collaboration", "teamwork"},
		{"team work", "teamwork"},
		{"problem solving", "problem-solving"},
		{"analytical thinking", "analysis"},
		{"data analysis", "analysis"},
		{"customer handling", "customer service"},
		{"client handling", "customer service"},
		{"time management skills", "time management"},
	}
}

// defaultStopWords 关键词抽取时剔除的英文停用词。
var defaultStopWords = []string{
	"a", "an", "the", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with",
	"by", "as", "is", "was", "were", "be", "been", "being", "have", "has", "had",
	"do", "does", "did", "will", "would", "should", "could", "can", "may", "might",
	"very", "just", "also", "than", "that", "this", "these", "those", "from",
}

// NewCanonicalizer 基于给定规则表构造规范化器。
func NewCanonicalizer(rules []SynonymRule) *Canonicalizer {
	exact := make(map[string]string, len(rules))
	for _, r := range rules {
		if _, ok := exact[r.Phrase]; !ok {
			exact[r.Phrase] = r.Canonical
		}
	}
	stop := make(map[string]struct{}, len(defaultStopWords))
	for _, w := range defaultStopWords {
		stop[w] = struct{}{}
	}
	return &Canonicalizer{rules: rules, exact: exact, stop: stop}
}

// NewDefaultCanonicalizer 使用内置规则表构造规范化器。
func NewDefaultCanonicalizer() *Canonicalizer {
	return NewCanonicalizer(DefaultSynonymRules())
}

// NormalizeText 小写化，把字母数字和 / - . # + 之外的字符替换为空格，
// 再压缩连续空白。这是所有文本比较的统一底座。
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)
	var b strings.Builder
	b.Grow(len(text))
	for _, c := range text {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteRune(c)
		case c == '/', c == '-', c == '.', c == '#', c == '+':
			b.WriteRune(c)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Canonicalize 规范化文本并解析同义词：
// 先查精确命中，再按规则顺序扫描首个子串命中，都未命中时返回规范化文本本身。
// 该函数是幂等的：对规范值再次调用返回其自身。
func (c *Canonicalizer) Canonicalize(text string) string {
	text = NormalizeText(text)
	if canonical, ok := c.exact[text]; ok {
		return canonical
	}
	for _, r := range c.rules {
		if strings.Contains(text, r.Phrase) {
			return r.Canonical
		}
	}
	return text
}

// ExtractKeywords 把文本切分为规范化关键词集合：
// 仅保留长度大于1且不在停用词表内的词，逐词做同义词解析。
func (c *Canonicalizer) ExtractKeywords(text string) map[string]struct{} {
	keywords := make(map[string]struct{})
	if text == "" {
		return keywords
	}
	for _, w := range strings.Fields(NormalizeText(text)) {
		if len(w) <= 1 {
			continue
		}
		if _, stop := c.stop[w]; stop {
			continue
		}
		keywords[c.Canonicalize(w)] = struct{}{}
	}
	return keywords
}
