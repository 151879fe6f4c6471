package parser

import (
	"errors"
	"regexp"
)

// ErrScannedPDF 表示PDF是扫描件或图片型文档，没有可用的文本层。
// 上游据此拒绝该简历并提示用户上传文本版。
var ErrScannedPDF = errors.New("检测到扫描件或图片型PDF, 请上传文本版简历")

var (
	alphaCharPattern = regexp.MustCompile(`[A-Za-z]`)
	wordPattern      = regexp.MustCompile(`\b\w+\b`)
)

// IsScannedText 基于文本密度判断提取结果是否来自扫描件：
// 总字符数不足100、词数不足25、或字母占比低于20%都视为扫描件。
func IsScannedText(text string) bool {
	if text == "" {
		return true
	}

	totalChars := len(text)
	if totalChars < 100 {
		return true
	}

	if len(wordPattern.FindAllString(text, -1)) < 25 {
		return true
	}

	alphaChars := len(alphaCharPattern.FindAllString(text, -1))
	return float64(alphaChars)/float64(totalChars) < 0.20
}

// CheckExtractedText 校验提取出的简历文本是否可用，扫描件返回ErrScannedPDF。
func CheckExtractedText(text string) error {
	if IsScannedText(text) {
		return ErrScannedPDF
	}
	return nil
}
