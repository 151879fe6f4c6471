package parser

import (
	"testing"

	"resume-iq-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSegmentBasic 验证标准标题的章节切分
func TestSegmentBasic(t *testing.T) {
	lines := []string{
		"John Smith",
		"SUMMARY",
		"Flutter developer",
		"EDUCATION",
		"Bachelor of Technology",
		"SKILLS",
		"Flutter, Dart",
	}

	segmenter := NewDefaultSegmenter()
	boundaries := segmenter.Segment(lines)
	require.Len(t, boundaries, 3, "应检出3个章节")

	assert.Equal(t, types.SectionSummary, boundaries[0].Tag)
	assert.Equal(t, 2, boundaries[0].StartLine, "章节内容应从标题行的下一行开始")
	assert.Equal(t, 3, boundaries[0].EndLine, "章节应在下一个标题行结束")

	assert.Equal(t, types.SectionEducation, boundaries[1].Tag)
	assert.Equal(t, types.SectionSkills, boundaries[2].Tag)
	assert.Equal(t, len(lines), boundaries[2].EndLine, "最后一个章节应延伸到文档末尾")
}

// TestSegmentSpacedHeader 验证"S K I L L S"这类隔空标题也能识别
func TestSegmentSpacedHeader(t *testing.T) {
	lines := []string{
		"S K I L L S",
		"Python, Go",
	}

	boundaries := NewDefaultSegmenter().Segment(lines)
	require.Len(t, boundaries, 1)
	assert.Equal(t, types.SectionSkills, boundaries[0].Tag, "隔空标题应被压缩后识别")
}

// TestSegmentDuplicateHeaders 验证同一章节的重复标题只记首次出现
func TestSegmentDuplicateHeaders(t *testing.T) {
	lines := []string{
		"EDUCATION",
		"Bachelor of Technology",
		"Example University", // 含"university"，会再次命中education短语
		"SKILLS",
		"Git",
	}

	boundaries := NewDefaultSegmenter().Segment(lines)
	require.Len(t, boundaries, 2, "重复标题不应产生新章节")
	assert.Equal(t, types.SectionEducation, boundaries[0].Tag)
	assert.Equal(t, 3, boundaries[0].EndLine, "education章节应覆盖到SKILLS标题之前")
}

// TestSegmentInvariants 验证边界有序、互不重叠、每个Tag至多出现一次
func TestSegmentInvariants(t *testing.T) {
	lines := []string{
		"CONTACT",
		"john@example.com",
		"PROFESSIONAL EXPERIENCE",
		"Engineer at Acme",
		"PROJECTS",
		"1. App",
		"LANGUAGES",
		"English",
		"INTERESTS",
		"Chess",
	}

	boundaries := NewDefaultSegmenter().Segment(lines)
	require.NotEmpty(t, boundaries)

	seen := make(map[types.SectionTag]int)
	for i, b := range boundaries {
		assert.LessOrEqual(t, b.StartLine, b.EndLine, "边界区间不应倒置")
		if i > 0 {
			assert.LessOrEqual(t, boundaries[i-1].EndLine, b.StartLine-1, "相邻章节不应重叠")
		}
		seen[b.Tag]++
	}
	for tag, count := range seen {
		assert.Equal(t, 1, count, "章节%s不应重复出现", tag)
	}
}

// TestSectionLines 验证按Tag取章节内容行
func TestSectionLines(t *testing.T) {
	lines := []string{
		"SKILLS",
		"Go",
		"Rust",
	}
	boundaries := NewDefaultSegmenter().Segment(lines)

	content := SectionLines(lines, boundaries, types.SectionSkills)
	assert.Equal(t, []string{"Go", "Rust"}, content, "章节内容不应包含标题行")

	assert.Nil(t, SectionLines(lines, boundaries, types.SectionEducation), "缺失章节应返回nil")
}

// TestPreprocess 验证文本预处理: 项目符号替换、空白压缩、空行丢弃
func TestPreprocess(t *testing.T) {
	raw := "  First   line  \n\n• Bullet point\n– Dash point\n\t\n Last "

	lines := Preprocess(raw)
	assert.Equal(t, []string{
		"First line",
		"- Bullet point",
		"- Dash point",
		"Last",
	}, lines, "预处理结果不符")
}
