package ats

import (
	"strconv"
	"strings"

	"resume-iq-go/internal/types"
)

// GPAState 绩点解析结果的状态，用于区分不同的降级路径。
type GPAState int

const (
	// GPAAbsent 字段缺失
	GPAAbsent GPAState = iota
	// GPAValid 成功解析并换算到4.0制
	GPAValid
	// GPAUnparseable 有文本但无法解析出数值
	GPAUnparseable
	// GPAOutOfRange 数值超出任何已知计分制(>100)
	GPAOutOfRange
	// GPAMalformed 字段存在但不是文本标量(上游给了对象/数组等)
	GPAMalformed
)

// GPAResolution 绩点解析结果。
type GPAResolution struct {
	State GPAState
	Value float64 // 4.0制数值；非GPAValid时为0
}

// NormalizeGPA 把任意计分制的绩点文本换算到4.0制：
// ≤4.0视为已是4.0制；≤10.0按10分制折算；≤100按百分制折算；再大视为越界。
// 无法解析时返回0.0，不报错。
func NormalizeGPA(raw string) float64 {
	return ResolveGPA(types.GPAValue{Raw: raw}).Value
}

// ResolveGPA 解析绩点并返回带状态的结果。
// 评分层依据状态选择降级分支：缺失/无法解析按0分值参与比较，
// 字段损坏(非标量)走固定部分学分路径。
func ResolveGPA(g types.GPAValue) GPAResolution {
	if g.Invalid {
		return GPAResolution{State: GPAMalformed}
	}
	if g.Raw == "" {
		return GPAResolution{State: GPAAbsent}
	}

	// 剔除数字和小数点之外的字符，如 "GPA: 8.73" -> "8.73"、"3.8/4.0" -> "3.84.0"会被
	// strconv拒绝，"78%" -> "78"
	var b strings.Builder
	for _, c := range g.Raw {
		if (c >= '0' && c <= '9') || c == '.' {
			b.WriteRune(c)
		}
	}
	gpa, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return GPAResolution{State: GPAUnparseable}
	}

	switch {
	case gpa <= 4.0:
		return GPAResolution{State: GPAValid, Value: gpa}
	case gpa <= 10.0:
		return GPAResolution{State: GPAValid, Value: gpa / 10.0 * 4.0}
	case gpa <= 100:
		return GPAResolution{State: GPAValid, Value: gpa / 100.0 * 4.0}
	default:
		return GPAResolution{State: GPAOutOfRange}
	}
}
