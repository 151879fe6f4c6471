package parser

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"
)

// jsonCodeBlock 匹配```json ... ```代码块。
var jsonCodeBlock = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")

// callLLM 发送system+user两条消息并返回模型回复文本。
// 对瞬时网络错误做最多两次指数退避重试，单次调用60秒超时。
func callLLM(ctx context.Context, llmModel model.ToolCallingChatModel, logger *log.Logger, systemContent, userContent string) (string, error) {
	messages := []*einoschema.Message{
		{Role: "system", Content: systemContent},
		{Role: "user", Content: userContent},
	}

	maxRetries := 2
	retryDelay := 2 * time.Second

	var response *einoschema.Message
	var err error

	for retry := 0; retry <= maxRetries; retry++ {
		if retry > 0 {
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("上下文已取消: %w", ctx.Err())
			case <-time.After(retryDelay):
				retryDelay *= 2
				logger.Printf("重试LLM调用 (第%d次)", retry)
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
		response, err = llmModel.Generate(callCtx, messages)
		cancel()

		if err == nil {
			break
		}

		if !isRetryableError(err) || retry >= maxRetries {
			return "", fmt.Errorf("LLM Generate failed: %w", err)
		}
	}

	if response == nil || response.Content == "" {
		return "", fmt.Errorf("LLM返回了空响应")
	}
	return response.Content, nil
}

// isRetryableError 判断错误是否属于可重试的瞬时故障。
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "EOF") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host")
}

// extractJSON 从LLM响应里抠出JSON：优先找```json代码块，
// 退化到按花括号配平截取。
func extractJSON(text string) string {
	matches := jsonCodeBlock.FindStringSubmatch(text)
	if len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	start := strings.Index(text, "{")
	if start == -1 {
		return ""
	}

	level := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			level++
		case '}':
			level--
			if level == 0 {
				return strings.TrimSpace(text[start : i+1])
			}
		}
	}
	return ""
}
