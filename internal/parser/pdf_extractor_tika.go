package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"resume-fit-go/internal/logger"
)

// TikaExtractor 把文档提取委托给 Apache Tika 服务器。
// 相比本地PDF解析器，Tika额外支持docx等格式，作为备用通道部署。
type TikaExtractor struct {
	serverURL          string
	client             *http.Client
	extractAnnotations bool
}

// TikaOption 配置选项函数
type TikaOption func(*TikaExtractor)

// WithTikaTimeout 配置HTTP客户端超时
func WithTikaTimeout(timeout time.Duration) TikaOption {
	return func(e *TikaExtractor) {
		e.client.Timeout = timeout
	}
}

// WithTikaAnnotations 配置是否提取PDF链接注释文本
func WithTikaAnnotations(extract bool) TikaOption {
	return func(e *TikaExtractor) {
		e.extractAnnotations = extract
	}
}

var _ TextExtractor = (*TikaExtractor)(nil)

// NewTikaExtractor 创建Tika提取器，serverURL 例如 "http://localhost:9998"
func NewTikaExtractor(serverURL string, options ...TikaOption) *TikaExtractor {
	e := &TikaExtractor{
		serverURL:          serverURL,
		client:             &http.Client{Timeout: 60 * time.Second},
		extractAnnotations: true,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// SupportsDocx Tika服务器支持Word文档提取
func (e *TikaExtractor) SupportsDocx() bool {
	return true
}

// ExtractText 实现 TextExtractor，内容类型由Tika自行探测
func (e *TikaExtractor) ExtractText(ctx context.Context, data []byte, uri string) (string, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, e.serverURL+"/tika", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("创建Tika请求失败: %w", err)
	}
	req.Header.Set("Accept", "text/plain")
	if uri != "" {
		req.Header.Set("X-Tika-Resource-Name", uri)
	}
	if !e.extractAnnotations {
		req.Header.Set("X-Tika-PDFExtractAnnotationText", "false")
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("请求Tika服务器失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tika服务器返回错误状态码: %d", resp.StatusCode)
	}

	textBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("读取Tika响应失败: %w", err)
	}

	logger.Debug().
		Str("uri", uri).
		Int("chars", len(textBytes)).
		Dur("elapsed", time.Since(start)).
		Msg("Tika文本提取完成")
	return string(textBytes), nil
}
