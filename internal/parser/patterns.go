package parser

import "regexp"

// 各字段抽取共用的正则。全部在包加载时编译一次，之后只读。
var (
	// emailPattern 标准邮箱
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	// phonePattern 按数字分组的电话号码(可带国家码/括号区号)
	phonePattern = regexp.MustCompile(`(?:\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)

	// urlPattern http/https链接
	urlPattern = regexp.MustCompile(`https?://(?:[-\w.]|%[\dA-Fa-f]{2})+`)

	// yearRangePattern 年份区间，如 "2022 - 2025"、"2020 - Present"
	yearRangePattern = regexp.MustCompile(`(?:19|20)\d{2}\s*[-–—]\s*(?:Present|(?:19|20)\d{2})`)

	// yearPattern 独立年份
	yearPattern = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

	// gpaPattern 绩点标注，如 "GPA: 8.73"、"GPA = 3.8/4.0"。
	// 分母部分必须跟在斜杠后面，否则会把相邻的独立数字吞进来
	gpaPattern = regexp.MustCompile(`(?i)GPA\s*[:=]?\s*[\d.]+(?:\s*/\s*[\d.]+)?`)

	// percentagePattern 百分比成绩，如 "78%"
	percentagePattern = regexp.MustCompile(`\b\d{1,3}(?:\.\d{1,2})?\s*%`)
)
