package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const (
	// DashScope的OpenAI兼容端点，未配置API URL时使用
	defaultChatCompletionURL = "https://dashscope.aliyuncs.com/compatible-mode/v1/chat/completions"
	defaultModelName         = "qwen-plus"
	defaultRequestTimeout    = 90 * time.Second
)

// --- OpenAI兼容的请求/响应结构 ---

type chatFunctionParamsProperty struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

type chatFunctionParams struct {
	Type       string                                `json:"type"`
	Properties map[string]chatFunctionParamsProperty `json:"properties"`
	Required   []string                              `json:"required,omitempty"`
}

type chatFunction struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Parameters  chatFunctionParams `json:"parameters"`
}

type chatTool struct {
	Type     string       `json:"type"` // 固定为 "function"
	Function chatFunction `json:"function"`
}

type chatCompletionRequest struct {
	Model    string            `json:"model"`
	Messages []*schema.Message `json:"messages"`
	Tools    []chatTool        `json:"tools,omitempty"`
}

type chatResponseMessage struct {
	Role      string         `json:"role"`
	Content   *string        `json:"content"` // 存在tool_calls时可能为null
	ToolCalls []chatToolCall `json:"tool_calls,omitempty"`
}

type chatToolCall struct {
	Id       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

type chatChoice struct {
	Index        int                 `json:"index"`
	Message      chatResponseMessage `json:"message"`
	FinishReason string              `json:"finish_reason"`
}

type chatCompletionResponse struct {
	Id      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
}

// ChatModel 通过OpenAI兼容的HTTP API实现 model.ChatModel 与
// model.ToolCallingChatModel，供简历解析、岗位解析与路线图生成组件复用。
// 同一个实例可以被多个组件并发调用。
type ChatModel struct {
	apiKey     string
	modelName  string
	apiURL     string
	httpClient *http.Client
	logger     *log.Logger
	boundTools []chatTool
}

// Option 配置ChatModel的函数选项。
type Option func(*ChatModel)

// WithHTTPClient 替换默认的HTTP客户端，主要用于测试。
func WithHTTPClient(client *http.Client) Option {
	return func(m *ChatModel) {
		if client != nil {
			m.httpClient = client
		}
	}
}

// WithLogger 设置日志记录器。
func WithLogger(logger *log.Logger) Option {
	return func(m *ChatModel) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewChatModel 创建一个OpenAI兼容的聊天模型客户端。
// apiKey不能为空；modelName与apiURL为空时使用默认值。
func NewChatModel(apiKey, modelName, apiURL string, opts ...Option) (*ChatModel, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("API 密钥不能为空")
	}

	if strings.TrimSpace(modelName) == "" {
		modelName = defaultModelName
	}
	if strings.TrimSpace(apiURL) == "" {
		apiURL = defaultChatCompletionURL
	}

	m := &ChatModel{
		apiKey:     apiKey,
		modelName:  modelName,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
		logger:     log.New(io.Discard, "", 0),
		boundTools: make([]chatTool, 0),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.logger.Printf("初始化LLM客户端，API URL: %s, 模型: %s", m.apiURL, m.modelName)
	return m, nil
}

// ModelName 返回当前使用的模型名称。
func (m *ChatModel) ModelName() string {
	return m.modelName
}

// Generate 实现 model.ChatModel 接口，发起一次同步的聊天补全请求。
func (m *ChatModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	reqPayload := chatCompletionRequest{
		Model:    m.modelName,
		Messages: messages,
	}
	if len(m.boundTools) > 0 {
		reqPayload.Tools = m.boundTools
	}

	jsonData, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("序列化请求体失败: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("创建 HTTP 请求失败: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+m.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := m.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("发送 HTTP 请求失败: %w", err)
	}
	defer httpResp.Body.Close()

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应体失败: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API 请求失败，状态 %s: %s", httpResp.Status, string(bodyBytes))
	}

	var apiResp chatCompletionResponse
	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		return nil, fmt.Errorf("反序列化 API 响应失败: %w。响应体: %s", err, string(bodyBytes))
	}
	if len(apiResp.Choices) == 0 {
		return nil, fmt.Errorf("从 API 收到空选项: %s", string(bodyBytes))
	}

	apiMessage := apiResp.Choices[0].Message
	responseContent := ""
	if apiMessage.Content != nil {
		responseContent = *apiMessage.Content
	}

	resultMessage := &schema.Message{
		Role:    schema.RoleType(apiMessage.Role),
		Content: responseContent,
	}
	if resultMessage.Role == "" {
		resultMessage.Role = schema.Assistant
	}

	if len(apiMessage.ToolCalls) > 0 {
		resultMessage.ToolCalls = make([]schema.ToolCall, len(apiMessage.ToolCalls))
		for i, tc := range apiMessage.ToolCalls {
			resultMessage.ToolCalls[i] = schema.ToolCall{
				ID: tc.Id,
				Function: schema.FunctionCall{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			}
		}
	}

	return resultMessage, nil
}

// Stream 实现 model.ChatModel 接口。当前所有调用方都使用同步Generate，
// 流式接口尚未实现。
func (m *ChatModel) Stream(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("ChatModel 的 Stream 方法未实现")
}

// BindTools 实现 model.ChatModel 接口，把工具描述转换为OpenAI兼容格式。
// eino的 schema.ParamsOneOf 不暴露内部参数映射，这里只携带工具名与描述，
// 参数结构统一声明为空对象；当前组件都走纯文本prompt，不依赖工具参数。
func (m *ChatModel) BindTools(tools []*schema.ToolInfo) error {
	m.boundTools = make([]chatTool, 0, len(tools))
	for _, toolInfo := range tools {
		if toolInfo == nil {
			continue
		}
		m.boundTools = append(m.boundTools, chatTool{
			Type: "function",
			Function: chatFunction{
				Name:        toolInfo.Name,
				Description: toolInfo.Desc,
				Parameters: chatFunctionParams{
					Type:       "object",
					Properties: map[string]chatFunctionParamsProperty{},
				},
			},
		})
	}
	return nil
}

// WithTools 实现 model.ToolCallingChatModel 接口。工具绑定在实例内部完成，
// 直接复用BindTools后返回自身。
func (m *ChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	if err := m.BindTools(tools); err != nil {
		return nil, err
	}
	return m, nil
}

var _ model.ChatModel = (*ChatModel)(nil)
var _ model.ToolCallingChatModel = (*ChatModel)(nil)
