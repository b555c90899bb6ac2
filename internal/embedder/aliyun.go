package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cloudwego/eino/components/embedding"

	"resume-fit-go/internal/config"
	"resume-fit-go/internal/logger"
)

// AliyunEmbedder 通过阿里云OpenAI兼容端点计算文本向量，实现 embedding.Embedder
type AliyunEmbedder struct {
	apiKey     string
	model      string
	dimensions int
	httpClient *http.Client
	baseURL    string
}

var _ embedding.Embedder = (*AliyunEmbedder)(nil)

// NewAliyunEmbedder 创建阿里云Embedder
func NewAliyunEmbedder(apiKey string, embeddingCfg config.EmbeddingConfig) (*AliyunEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API密钥不能为空")
	}

	model := embeddingCfg.Model
	if model == "" {
		model = "text-embedding-v3"
	}
	baseURL := embeddingCfg.BaseURL
	if baseURL == "" {
		baseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1/embeddings"
	}

	return &AliyunEmbedder{
		apiKey:     apiKey,
		model:      model,
		dimensions: embeddingCfg.Dimensions,
		httpClient: &http.Client{},
		baseURL:    baseURL,
	}, nil
}

// Model 返回默认模型名，缓存层用它构造缓存键
func (a *AliyunEmbedder) Model() string {
	return a.model
}

// embeddingRequest OpenAI兼容的Embedding请求体
type embeddingRequest struct {
	Input      any    `json:"input"` // string 或 []string
	Model      string `json:"model"`
	Dimensions int    `json:"dimensions,omitempty"`
}

// embeddingResponse OpenAI兼容的Embedding响应体
type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Model string `json:"model"`
	Usage struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// EmbedStrings 将文本转换为向量，实现 cloudwego/eino embedding.Embedder 接口
func (a *AliyunEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	options := &embedding.Options{}
	embedding.GetCommonOptions(options, opts...)

	effectiveModel := a.model
	if options.Model != nil && *options.Model != "" {
		effectiveModel = *options.Model
	}

	var input any
	if len(texts) == 1 {
		input = texts[0]
	} else {
		input = texts
	}
	reqBody := embeddingRequest{Input: input, Model: effectiveModel}
	if a.dimensions > 0 {
		reqBody.Dimensions = a.dimensions
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("序列化Embedding请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("创建HTTP请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("发送HTTP请求失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应体失败: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var ae apiError
		if json.Unmarshal(body, &ae) == nil && ae.Message != "" {
			return nil, fmt.Errorf("embedding API调用失败, 状态码: %d, 类型: %s, 错误: %s", resp.StatusCode, ae.Type, ae.Message)
		}
		return nil, fmt.Errorf("embedding API调用失败, 状态码: %d, 响应: %s", resp.StatusCode, string(body))
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("解析Embedding响应失败: %w", err)
	}
	if parsed.Error != nil && parsed.Error.Message != "" {
		return nil, fmt.Errorf("embedding API返回错误: 类型=%s, 消息=%s", parsed.Error.Type, parsed.Error.Message)
	}
	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("embedding返回数量异常: 期望%d, 实际%d", len(texts), len(parsed.Data))
	}

	// 响应顺序按Index对齐，不依赖返回顺序
	out := make([][]float64, len(texts))
	for _, entry := range parsed.Data {
		if entry.Index < 0 || entry.Index >= len(out) {
			return nil, fmt.Errorf("embedding返回了非法的index: %d", entry.Index)
		}
		out[entry.Index] = entry.Embedding
	}

	logger.Debug().
		Int("texts", len(texts)).
		Int("prompt_tokens", parsed.Usage.PromptTokens).
		Str("model", effectiveModel).
		Msg("embedding计算完成")
	return out, nil
}
