package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"

	"resume-fit-go/internal/logger"
)

// TextExtractor 从上传的原始文档中提取纯文本
type TextExtractor interface {
	// ExtractText 从字节内容提取纯文本，uri仅用于日志与诊断
	ExtractText(ctx context.Context, data []byte, uri string) (string, error)
	// SupportsDocx 是否支持Word文档提取
	SupportsDocx() bool
}

// extractTimeout 单个文档的提取超时
const extractTimeout = 30 * time.Second

// EinoPDFExtractor 基于 Eino PDF Parser 的本地文本提取器
type EinoPDFExtractor struct {
	parser *pdf.PDFParser
}

var _ TextExtractor = (*EinoPDFExtractor)(nil)

// NewEinoPDFExtractor 初始化本地PDF提取器。
// 不按页分割，整份文档作为连续文本返回。
func NewEinoPDFExtractor(ctx context.Context) (*EinoPDFExtractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{ToPages: false})
	if err != nil {
		return nil, fmt.Errorf("创建PDF解析器失败: %w", err)
	}
	return &EinoPDFExtractor{parser: p}, nil
}

// ExtractText 实现 TextExtractor
func (e *EinoPDFExtractor) ExtractText(ctx context.Context, data []byte, uri string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, extractTimeout)
	defer cancel()

	start := time.Now()
	docs, err := e.parser.Parse(ctx, bytes.NewReader(data), einoParser.WithURI(uri))
	if err != nil {
		return "", fmt.Errorf("PDF解析失败 (uri=%s): %w", uri, err)
	}
	if len(docs) == 0 {
		return "", fmt.Errorf("PDF解析无结果 (uri=%s)", uri)
	}

	var sb bytes.Buffer
	for i, doc := range docs {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(doc.Content)
	}

	logger.Debug().
		Str("uri", uri).
		Int("chars", sb.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("PDF文本提取完成")
	return sb.String(), nil
}

// SupportsDocx 本地PDF解析器只处理PDF
func (e *EinoPDFExtractor) SupportsDocx() bool {
	return false
}

// ExtractFromReader 便捷入口，读取全部内容后提取
func (e *EinoPDFExtractor) ExtractFromReader(ctx context.Context, reader io.Reader, uri string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("读取PDF内容失败: %w", err)
	}
	return e.ExtractText(ctx, data, uri)
}
