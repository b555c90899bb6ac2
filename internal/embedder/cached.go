package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/embedding"

	"resume-fit-go/internal/constants"
	"resume-fit-go/internal/logger"
)

// VectorCache 向量缓存后端，由Redis存储层实现
type VectorCache interface {
	// GetBytes 读取缓存值，第二个返回值表示是否命中
	GetBytes(ctx context.Context, key string) ([]byte, bool, error)
	// SetBytes 写入缓存值并设置过期时间
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedEmbedder 带缓存的Embedder装饰器。
// 缓存键由模型名和文本内容哈希而来，换模型不会串缓存。
// 缓存层故障只降级为直连计算，不阻断匹配流程。
type CachedEmbedder struct {
	inner embedding.Embedder
	cache VectorCache
	model string
	ttl   time.Duration
}

var _ embedding.Embedder = (*CachedEmbedder)(nil)

// NewCachedEmbedder 包装一个Embedder，加上向量缓存
func NewCachedEmbedder(inner embedding.Embedder, cache VectorCache, model string) *CachedEmbedder {
	return &CachedEmbedder{
		inner: inner,
		cache: cache,
		model: model,
		ttl:   constants.EmbeddingCacheTTL,
	}
}

// EmbedStrings 实现 embedding.Embedder：命中缓存的文本直接返回，
// 未命中的批量转发给内层Embedder并回填缓存
func (c *CachedEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	out := make([][]float64, len(texts))
	var missTexts []string
	var missIdx []int

	for i, text := range texts {
		key := c.cacheKey(text)
		data, ok, err := c.cache.GetBytes(ctx, key)
		if err != nil {
			logger.Warn().Err(err).Msg("读取向量缓存失败，回退到直接计算")
		}
		if ok {
			var vec []float64
			if err := json.Unmarshal(data, &vec); err == nil {
				out[i] = vec
				continue
			}
			logger.Warn().Str("key", key).Msg("向量缓存内容损坏，按未命中处理")
		}
		missTexts = append(missTexts, text)
		missIdx = append(missIdx, i)
	}

	if len(missTexts) == 0 {
		return out, nil
	}

	vecs, err := c.inner.EmbedStrings(ctx, missTexts, opts...)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(missTexts) {
		return nil, fmt.Errorf("embedding返回数量异常: 期望%d, 实际%d", len(missTexts), len(vecs))
	}

	for j, vec := range vecs {
		out[missIdx[j]] = vec
		data, err := json.Marshal(vec)
		if err != nil {
			continue
		}
		if err := c.cache.SetBytes(ctx, c.cacheKey(missTexts[j]), data, c.ttl); err != nil {
			logger.Warn().Err(err).Msg("写入向量缓存失败")
		}
	}
	return out, nil
}

// cacheKey 生成缓存键：前缀 + sha256(模型名 + 文本)
func (c *CachedEmbedder) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(c.model + "\x00" + text))
	return constants.EmbeddingCachePrefix + hex.EncodeToString(sum[:])
}
