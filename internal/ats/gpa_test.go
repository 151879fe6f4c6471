package ats

import (
	"testing"

	"resume-iq-go/internal/types"

	"github.com/stretchr/testify/assert"
)

// TestNormalizeGPA 验证不同计分制的绩点换算到4.0制
func TestNormalizeGPA(t *testing.T) {
	cases := []struct {
		raw      string
		expected float64
	}{
		{"3.8", 3.8},      // 已是4.0制
		{"8.73", 3.492},   // 10分制
		{"78", 3.12},      // 百分制
		{"78%", 3.12},     // 带百分号
		{"GPA: 9.1", 3.64}, // 带前缀文本
		{"abc", 0.0},      // 无法解析
		{"", 0.0},         // 缺失
		{"150", 0.0},      // 越界
	}

	for _, c := range cases {
		assert.InDelta(t, c.expected, NormalizeGPA(c.raw), 0.001, "NormalizeGPA(%q)的结果不符", c.raw)
	}
}

// TestResolveGPAStates 验证各降级路径的状态区分
func TestResolveGPAStates(t *testing.T) {
	assert.Equal(t, GPAAbsent, ResolveGPA(types.GPAValue{}).State, "空字段应为缺失状态")
	assert.Equal(t, GPAValid, ResolveGPA(types.GPAValue{Raw: "3.5"}).State, "正常数值应为有效状态")
	assert.Equal(t, GPAUnparseable, ResolveGPA(types.GPAValue{Raw: "not a number"}).State, "非数值文本应为不可解析状态")
	assert.Equal(t, GPAOutOfRange, ResolveGPA(types.GPAValue{Raw: "999"}).State, "超出百分制的数值应为越界状态")
	assert.Equal(t, GPAMalformed, ResolveGPA(types.GPAValue{Invalid: true}).State, "非标量字段应为损坏状态")

	// 非有效状态的数值一律为0
	assert.Equal(t, 0.0, ResolveGPA(types.GPAValue{Raw: "999"}).Value, "越界状态的数值应为0")
	assert.Equal(t, 0.0, ResolveGPA(types.GPAValue{Invalid: true}).Value, "损坏状态的数值应为0")
}
