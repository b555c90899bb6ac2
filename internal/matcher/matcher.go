package matcher

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/panjf2000/ants/v2"

	"resume-fit-go/internal/logger"
	"resume-fit-go/internal/taxonomy"
	"resume-fit-go/internal/types"
)

// warmUpConcurrency 预热时并发计算技能向量的协程数
const warmUpConcurrency = 8

// cacheEntry 单个标准技能的向量缓存槽，once保证同一技能至多计算一次
type cacheEntry struct {
	once sync.Once
	vec  []float64
	err  error
}

// Matcher 把原始技能提及映射到标准技能分类表。
// 精确命中（名称或别名）置信度为1.0；未命中时退回向量相似度，
// 低于阈值或embedding失败的提及直接丢弃而不是降级保留。
type Matcher struct {
	tax       *taxonomy.Taxonomy
	embedder  embedding.Embedder
	threshold float64

	mu      sync.Mutex
	entries map[int]*cacheEntry
}

// New 创建匹配器。embedder可以为nil，此时只做精确匹配。
func New(tax *taxonomy.Taxonomy, embedder embedding.Embedder, threshold float64) *Matcher {
	return &Matcher{
		tax:       tax,
		embedder:  embedder,
		threshold: threshold,
		entries:   make(map[int]*cacheEntry),
	}
}

// Match 把一批技能提及映射到标准技能。
// source 标记提及来自哪一侧（"resume" 或 "job"），原样写入结果。
// embedding失败按未匹配处理：该提及被丢弃并记录日志，错误不向上传播，
// 单个坏文档不应让整次匹配失败。
func (m *Matcher) Match(ctx context.Context, mentions []types.SkillMention, source string) []types.MatchedSkill {
	matched := make([]types.MatchedSkill, 0, len(mentions))

	for _, mention := range mentions {
		normalized := strings.ToLower(strings.TrimSpace(mention.Text))
		if normalized == "" {
			continue
		}

		// 1. 名称/别名精确命中
		if id, ok := m.tax.Lookup(normalized); ok {
			skill, _ := m.tax.SkillByID(id)
			matched = append(matched, newMatch(skill, source, 1.0, mention))
			continue
		}

		// 2. 向量相似度退回通道
		if m.embedder == nil {
			logger.Debug().Str("mention", mention.Text).Msg("无embedder，未命中的提及被丢弃")
			continue
		}
		skill, confidence, err := m.fuzzyMatch(ctx, normalized)
		if err != nil {
			logger.Warn().Err(err).Str("mention", mention.Text).Msg("模糊匹配失败，提及被丢弃")
			continue
		}
		if confidence < m.threshold {
			logger.Debug().
				Str("mention", mention.Text).
				Float64("confidence", confidence).
				Msg("相似度低于阈值，提及被丢弃")
			continue
		}
		matched = append(matched, newMatch(skill, source, confidence, mention))
	}
	return matched
}

// WarmUp 并发预计算全部标准技能的向量，启动时调用一次。
// 单个技能失败只记录日志，运行期的惰性计算仍会重试。
func (m *Matcher) WarmUp(ctx context.Context) error {
	if m.embedder == nil {
		return nil
	}

	pool, err := ants.NewPool(warmUpConcurrency)
	if err != nil {
		return fmt.Errorf("创建预热协程池失败: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, skill := range m.tax.Skills() {
		wg.Add(1)
		id := skill.ID
		name := skill.Name
		if err := pool.Submit(func() {
			defer wg.Done()
			if _, err := m.skillVector(ctx, id); err != nil {
				logger.Warn().Err(err).Str("skill", name).Msg("技能向量预热失败")
			}
		}); err != nil {
			wg.Done()
			return fmt.Errorf("提交预热任务失败: %w", err)
		}
	}
	wg.Wait()
	logger.Info().Int("skills", m.tax.SkillCount()).Msg("技能向量预热完成")
	return nil
}

// fuzzyMatch 对单个归一化提及计算与全部标准技能的余弦相似度，取最高者
func (m *Matcher) fuzzyMatch(ctx context.Context, normalized string) (taxonomy.Skill, float64, error) {
	vecs, err := m.embedder.EmbedStrings(ctx, []string{normalized})
	if err != nil {
		return taxonomy.Skill{}, 0, fmt.Errorf("计算提及向量失败: %w", err)
	}
	if len(vecs) != 1 {
		return taxonomy.Skill{}, 0, fmt.Errorf("embedding返回数量异常: 期望1, 实际%d", len(vecs))
	}
	mentionVec := vecs[0]

	var best taxonomy.Skill
	bestSim := math.Inf(-1)
	for _, skill := range m.tax.Skills() {
		skillVec, err := m.skillVector(ctx, skill.ID)
		if err != nil {
			return taxonomy.Skill{}, 0, fmt.Errorf("计算技能 %q 的向量失败: %w", skill.Name, err)
		}
		if sim := cosine(mentionVec, skillVec); sim > bestSim {
			bestSim = sim
			best = skill
		}
	}
	return best, bestSim, nil
}

// skillVector 返回标准技能的缓存向量，首次访问时惰性计算。
// 计算失败的槽会被移除，后续调用得以重试；成功的结果终身复用。
func (m *Matcher) skillVector(ctx context.Context, id int) ([]float64, error) {
	m.mu.Lock()
	entry, ok := m.entries[id]
	if !ok {
		entry = &cacheEntry{}
		m.entries[id] = entry
	}
	m.mu.Unlock()

	entry.once.Do(func() {
		skill, ok := m.tax.SkillByID(id)
		if !ok {
			entry.err = fmt.Errorf("非法的技能ID: %d", id)
			return
		}
		vecs, err := m.embedder.EmbedStrings(ctx, []string{strings.ToLower(skill.Name)})
		if err != nil {
			entry.err = err
			return
		}
		if len(vecs) != 1 {
			entry.err = fmt.Errorf("embedding返回数量异常: 期望1, 实际%d", len(vecs))
			return
		}
		entry.vec = vecs[0]
	})

	if entry.err != nil {
		m.mu.Lock()
		if m.entries[id] == entry {
			delete(m.entries, id)
		}
		m.mu.Unlock()
		return nil, entry.err
	}
	return entry.vec, nil
}

// CachedVectors 当前已缓存的技能向量数，供指标上报使用
func (m *Matcher) CachedVectors() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func newMatch(skill taxonomy.Skill, source string, confidence float64, mention types.SkillMention) types.MatchedSkill {
	return types.MatchedSkill{
		SkillID:    skill.ID,
		Name:       skill.Name,
		Source:     source,
		Confidence: confidence,
		Evidence: types.MatchEvidence{
			Snippet: mention.Snippet,
			Start:   mention.Start,
			End:     mention.End,
		},
	}
}

// cosine 计算两个稠密向量的余弦相似度，维度不一致或范数为0时返回0
func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
