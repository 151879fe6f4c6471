package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"
)

// pdfExtractTimeout 单次PDF解析的超时上限。
// 简历PDF通常在几页以内，超过这个时间基本可以断定文件异常。
const pdfExtractTimeout = 30 * time.Second

// EinoPDFTextExtractor 基于eino PDF解析器的文本提取实现。
// 输出整份文档的连续文本，供后续分节器按行切分。
type EinoPDFTextExtractor struct {
	parser *pdf.PDFParser
	logger *log.Logger
}

// EinoPDFOption 配置选项。
type EinoPDFOption func(*EinoPDFTextExtractor)

// WithEinoLogger 配置日志记录器。
func WithEinoLogger(logger *log.Logger) EinoPDFOption {
	return func(e *EinoPDFTextExtractor) {
		e.logger = logger
	}
}

// NewEinoPDFTextExtractor 初始化提取器。
// ToPages设为false：分节器需要完整文档的连续文本，而不是逐页片段。
func NewEinoPDFTextExtractor(ctx context.Context, options ...EinoPDFOption) (*EinoPDFTextExtractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{
		ToPages: false,
	})
	if err != nil {
		return nil, fmt.Errorf("创建eino PDF解析器失败: %w", err)
	}

	extractor := &EinoPDFTextExtractor{
		parser: p,
		logger: log.New(io.Discard, "", 0),
	}
	for _, option := range options {
		option(extractor)
	}
	return extractor, nil
}

// ExtractFromFile 从PDF文件提取文本和元数据。
func (e *EinoPDFTextExtractor) ExtractFromFile(ctx context.Context, filePath string) (string, map[string]interface{}, error) {
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

// ExtractTextFromBytes 从字节内容提取文本和元数据。
func (e *EinoPDFTextExtractor) ExtractTextFromBytes(ctx context.Context, data []byte, uri string, options interface{}) (string, map[string]interface{}, error) {
	return e.ExtractTextFromReader(ctx, bytes.NewReader(data), uri, options)
}

// ExtractTextFromReader 从io.Reader提取文本和元数据。
// options接受map[string]interface{}作为附加元数据，其他类型被忽略。
func (e *EinoPDFTextExtractor) ExtractTextFromReader(ctx context.Context, reader io.Reader, uri string, options interface{}) (string, map[string]interface{}, error) {
	extraMeta, _ := options.(map[string]interface{})
	if extraMeta == nil {
		extraMeta = make(map[string]interface{})
	}

	start := time.Now()
	e.logger.Printf("开始提取PDF文本 (URI: %s)", uri)

	ctx, cancel := context.WithTimeout(ctx, pdfExtractTimeout)
	defer cancel()

	docs, err := e.parser.Parse(ctx, reader,
		einoParser.WithURI(uri),
		einoParser.WithExtraMeta(extraMeta),
	)
	if err != nil {
		return "", extraMeta, fmt.Errorf("eino解析PDF失败 (URI: %s): %w", uri, err)
	}
	if len(docs) == 0 {
		return "", extraMeta, fmt.Errorf("eino解析PDF无结果 (URI: %s)", uri)
	}

	// ToPages为false时正常只有一个文档；多个时拼接
	var sb strings.Builder
	for i, doc := range docs {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(doc.Content)
	}
	text := sb.String()

	metadata := docs[0].MetaData
	if metadata == nil {
		metadata = make(map[string]interface{})
	}
	for k, v := range extraMeta {
		metadata[k] = v
	}
	metadata["document_count"] = len(docs)
	metadata["text_length"] = len(text)
	metadata["processing_duration_ms"] = time.Since(start).Milliseconds()

	e.logger.Printf("PDF提取完成: %d 个字符 (用时 %.2f秒)", len(text), time.Since(start).Seconds())
	return text, metadata, nil
}
