package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

// PDFExtractor PDF文本提取接口，与processor包中的定义保持一致。
type PDFExtractor interface {
	// ExtractFromFile 从PDF文件提取文本和元数据
	ExtractFromFile(ctx context.Context, filePath string) (string, map[string]interface{}, error)

	// ExtractTextFromReader 从io.Reader提取文本和元数据
	ExtractTextFromReader(ctx context.Context, reader io.Reader, uri string, options interface{}) (string, map[string]interface{}, error)

	// ExtractTextFromBytes 从字节内容提取文本和元数据
	ExtractTextFromBytes(ctx context.Context, data []byte, uri string, options interface{}) (string, map[string]interface{}, error)
}

// TikaPDFExtractor 基于Apache Tika服务器的PDF提取实现。
// eino解析器处理不了的PDF（加密、损坏的xref表等）走这条通道。
type TikaPDFExtractor struct {
	ServerURL string
	Client    *http.Client

	extractFullMetadata    bool
	extractMinimalMetadata bool
	logger                 *log.Logger
}

// TikaOption 配置选项。
type TikaOption func(*TikaPDFExtractor)

// WithFullMetadata 是否合并Tika返回的全部元数据。
func WithFullMetadata(extract bool) TikaOption {
	return func(e *TikaPDFExtractor) {
		e.extractFullMetadata = extract
	}
}

// WithMinimalMetadata 是否只保留关键元数据字段。
func WithMinimalMetadata(extract bool) TikaOption {
	return func(e *TikaPDFExtractor) {
		e.extractMinimalMetadata = extract
	}
}

// WithTikaLogger 配置日志记录器。
func WithTikaLogger(logger *log.Logger) TikaOption {
	return func(e *TikaPDFExtractor) {
		e.logger = logger
	}
}

// WithTimeout 配置HTTP客户端超时。
func WithTimeout(timeout time.Duration) TikaOption {
	return func(e *TikaPDFExtractor) {
		e.Client.Timeout = timeout
	}
}

var _ PDFExtractor = (*TikaPDFExtractor)(nil)

// NewTikaPDFExtractor 创建Tika提取器。默认只保留关键元数据。
func NewTikaPDFExtractor(serverURL string, options ...TikaOption) PDFExtractor {
	extractor := &TikaPDFExtractor{
		ServerURL:              serverURL,
		Client:                 &http.Client{Timeout: 60 * time.Second},
		extractMinimalMetadata: true,
		logger:                 log.New(io.Discard, "", 0),
	}
	for _, option := range options {
		option(extractor)
	}
	return extractor
}

// ExtractFromFile 从PDF文件提取文本和元数据。
func (e *TikaPDFExtractor) ExtractFromFile(ctx context.Context, filePath string) (string, map[string]interface{}, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", nil, fmt.Errorf("打开PDF文件 %s 失败: %w", filePath, err)
	}
	defer file.Close()

	extraMeta := map[string]interface{}{
		"source_file_path": filePath,
		"extraction_time":  time.Now().Format(time.RFC3339),
	}
	return e.ExtractTextFromReader(ctx, file, filePath, extraMeta)
}

// ExtractTextFromReader 从io.Reader提取文本和元数据。
func (e *TikaPDFExtractor) ExtractTextFromReader(ctx context.Context, reader io.Reader, uri string, options interface{}) (string, map[string]interface{}, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", nil, fmt.Errorf("读取PDF内容失败: %w", err)
	}
	return e.ExtractTextFromBytes(ctx, data, uri, options)
}

// ExtractTextFromBytes 把PDF内容PUT到Tika的/tika端点换取纯文本。
func (e *TikaPDFExtractor) ExtractTextFromBytes(ctx context.Context, data []byte, uri string, options interface{}) (string, map[string]interface{}, error) {
	start := time.Now()
	e.logger.Printf("开始通过Tika提取PDF文本 (URI: %s)", uri)

	metadata, _ := options.(map[string]interface{})
	if metadata == nil {
		metadata = make(map[string]interface{})
	}
	metadata["extraction_time"] = time.Now().Format(time.RFC3339)

	body, err := e.tikaRequest(ctx, "/tika", data, uri, "text/plain")
	if err != nil {
		return "", metadata, err
	}
	text := string(body)

	metadata["text_length"] = len(text)
	metadata["processing_duration_ms"] = time.Since(start).Milliseconds()

	if e.extractFullMetadata || e.extractMinimalMetadata {
		if raw, err := e.fetchMetadata(ctx, data, uri); err != nil {
			// 元数据失败不影响文本结果
			e.logger.Printf("Tika元数据提取失败: %v", err)
		} else {
			for k, v := range raw {
				if e.extractFullMetadata || isImportantMetadata(k) {
					metadata[k] = v
				}
			}
		}
	}

	e.logger.Printf("Tika提取完成: %d 个字符 (用时 %.2f秒)", len(text), time.Since(start).Seconds())
	return text, metadata, nil
}

// fetchMetadata 从/meta端点获取文档元数据。
func (e *TikaPDFExtractor) fetchMetadata(ctx context.Context, data []byte, uri string) (map[string]interface{}, error) {
	body, err := e.tikaRequest(ctx, "/meta", data, uri, "application/json")
	if err != nil {
		return nil, err
	}

	var metadata map[string]interface{}
	if err := json.Unmarshal(body, &metadata); err != nil {
		return nil, fmt.Errorf("解析元数据JSON失败: %w", err)
	}
	return metadata, nil
}

// tikaRequest 向Tika服务器发送PUT请求并返回响应体。
func (e *TikaPDFExtractor) tikaRequest(ctx context.Context, path string, data []byte, uri, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, e.ServerURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("创建HTTP请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/pdf")
	req.Header.Set("Accept", accept)
	if uri != "" {
		req.Header.Set("X-Tika-Resource-Name", uri)
	}

	resp, err := e.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求Tika服务器失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tika服务器返回错误状态码: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取Tika响应失败: %w", err)
	}
	return body, nil
}

// isImportantMetadata 判断元数据字段是否值得保留。
func isImportantMetadata(key string) bool {
	switch key {
	case "pdf:PDFVersion", "xmpTPg:NPages", "dcterms:created", "language",
		"dc:title", "Content-Type", "pdf:docinfo:title", "pdf:docinfo:created",
		"pdf:totalUnmappedUnicodeChars":
		return true
	}
	return false
}
