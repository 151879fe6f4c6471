package parser

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTikaTestServer 模拟Tika服务器的/tika和/meta端点。
func newTikaTestServer(t *testing.T, text string, meta string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method, "Tika请求应该使用PUT方法")
		assert.Equal(t, "application/pdf", r.Header.Get("Content-Type"), "请求应该声明PDF内容类型")
		switch r.URL.Path {
		case "/tika":
			w.Write([]byte(text))
		case "/meta":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(meta))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestTikaExtractTextFromBytes(t *testing.T) {
	server := newTikaTestServer(t, "张三\n技能: Go, Python",
		`{"xmpTPg:NPages":"2","dc:title":"简历","X-TIKA:parse_time_millis":"12"}`)
	defer server.Close()

	extractor := NewTikaPDFExtractor(server.URL)
	text, metadata, err := extractor.ExtractTextFromBytes(context.Background(), []byte("%PDF-fake"), "resume.pdf", nil)
	require.NoError(t, err, "提取不应返回错误")
	assert.Equal(t, "张三\n技能: Go, Python", text, "应该原样返回Tika的文本响应")

	// 默认minimal模式：保留关键字段，过滤内部字段
	assert.Equal(t, "2", metadata["xmpTPg:NPages"], "页数属于关键元数据，应该保留")
	assert.Equal(t, "简历", metadata["dc:title"], "标题属于关键元数据，应该保留")
	assert.NotContains(t, metadata, "X-TIKA:parse_time_millis", "非关键元数据应该被过滤")
	assert.Equal(t, len(text), metadata["text_length"], "应该记录文本长度")
}

func TestTikaFullMetadata(t *testing.T) {
	server := newTikaTestServer(t, "内容",
		`{"xmpTPg:NPages":"1","X-TIKA:parse_time_millis":"5"}`)
	defer server.Close()

	extractor := NewTikaPDFExtractor(server.URL, WithFullMetadata(true))
	_, metadata, err := extractor.ExtractTextFromBytes(context.Background(), []byte("%PDF-fake"), "a.pdf", nil)
	require.NoError(t, err)
	assert.Equal(t, "5", metadata["X-TIKA:parse_time_millis"], "full模式应该保留全部元数据")
}

func TestTikaMetadataFailureKeepsText(t *testing.T) {
	// /meta端点故障时文本结果不受影响
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/tika" {
			w.Write([]byte("纯文本内容"))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	extractor := NewTikaPDFExtractor(server.URL)
	text, _, err := extractor.ExtractTextFromBytes(context.Background(), []byte("%PDF-fake"), "a.pdf", nil)
	require.NoError(t, err, "元数据失败不应影响文本提取")
	assert.Equal(t, "纯文本内容", text)
}

func TestTikaServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	extractor := NewTikaPDFExtractor(server.URL)
	_, _, err := extractor.ExtractTextFromBytes(context.Background(), []byte("坏内容"), "a.pdf", nil)
	require.Error(t, err, "服务器错误状态码应该返回错误")
	assert.Contains(t, err.Error(), "422", "错误信息应该包含状态码")
}

func TestTikaExtractTextFromReader(t *testing.T) {
	server := newTikaTestServer(t, "来自Reader的内容", `{}`)
	defer server.Close()

	extractor := NewTikaPDFExtractor(server.URL, WithTimeout(5*time.Second))
	text, _, err := extractor.ExtractTextFromReader(context.Background(), bytes.NewReader([]byte("%PDF-fake")), "r.pdf", nil)
	require.NoError(t, err)
	assert.Equal(t, "来自Reader的内容", text)
}
