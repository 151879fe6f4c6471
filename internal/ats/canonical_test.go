package ats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNormalizeText 验证文本归一化规则
func TestNormalizeText(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"Flutter Developer", "flutter developer"},
		{"C++ / C#", "c++ / c#"},
		{"ASP.NET  Core!!!", "asp.net core"},
		{"  multiple   spaces\tand\nnewlines  ", "multiple spaces and newlines"},
		{"Node.js & React", "node.js react"},
	}

	for _, c := range cases {
		assert.Equal(t, c.expected, NormalizeText(c.input), "NormalizeText(%q)的结果不符", c.input)
	}
}

// TestCanonicalize 验证同义词解析的三级行为: 精确命中、子串命中、原样返回
func TestCanonicalize(t *testing.T) {
	canon := NewDefaultCanonicalizer()

	// 精确命中
	assert.Equal(t, "flutter", canon.Canonicalize("Flutter SDK"), "flutter sdk应归一为flutter")
	assert.Equal(t, "dart", canon.Canonicalize("Dart Programming"), "dart programming应归一为dart")
	assert.Equal(t, "rest api", canon.Canonicalize("RESTful APIs"), "restful apis应归一为rest api")

	// 子串命中(长文本包含规范短语)
	assert.Equal(t, "communication", canon.Canonicalize("excellent communication skills required"), "含communication skills的长文本应归一为communication")

	// 未命中任何规则时返回规范化文本本身
	assert.Equal(t, "kubernetes", canon.Canonicalize("Kubernetes"), "无规则命中时应返回规范化文本")
}

// TestCanonicalizeIdempotent 验证规范化的幂等性: 对规范值再次调用返回其自身
func TestCanonicalizeIdempotent(t *testing.T) {
	canon := NewDefaultCanonicalizer()

	inputs := []string{"Flutter SDK", "Team Collaboration", "Problem Solving", "Python", "ASP NET"}
	for _, input := range inputs {
		once := canon.Canonicalize(input)
		twice := canon.Canonicalize(once)
		assert.Equal(t, once, twice, "Canonicalize(%q)应是幂等的", input)
	}
}

// TestExtractKeywords 验证关键词抽取剔除停用词和单字符词
func TestExtractKeywords(t *testing.T) {
	canon := NewDefaultCanonicalizer()

	keywords := canon.ExtractKeywords("A passionate developer with experience in Python and Go")

	assert.Contains(t, keywords, "passionate", "实义词应被保留")
	assert.Contains(t, keywords, "developer", "实义词应被保留")
	assert.Contains(t, keywords, "python", "技能词应被保留")
	assert.Contains(t, keywords, "go", "两字符词应被保留")
	assert.NotContains(t, keywords, "with", "停用词应被剔除")
	assert.NotContains(t, keywords, "and", "停用词应被剔除")
	assert.NotContains(t, keywords, "in", "停用词应被剔除")
	assert.NotContains(t, keywords, "a", "单字符词应被剔除")

	assert.Empty(t, canon.ExtractKeywords(""), "空文本应返回空集合")
}
