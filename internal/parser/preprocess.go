package parser

import "strings"

// bulletGlyphs 各类项目符号和长短破折号，统一替换为"-"。
var bulletGlyphs = map[rune]struct{}{
	'•': {}, '▪': {}, '■': {}, '●': {}, '○': {}, '◆': {}, '◇': {},
	'–': {}, '—': {},
}

// Preprocess 把原始简历文本规整为干净的行序列：
// 逐行去首尾空白，替换项目符号/长破折号为"-"，压缩连续空白，
// 丢弃空行(后续所有行号都指向过滤后的序列)。无副作用。
func Preprocess(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var b strings.Builder
		b.Grow(len(line))
		for _, c := range line {
			if _, ok := bulletGlyphs[c]; ok {
				b.WriteByte('-')
			} else {
				b.WriteRune(c)
			}
		}
		line = strings.Join(strings.Fields(b.String()), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
