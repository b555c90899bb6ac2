package rewriter

import (
	"context"
	"strings"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"resume-fit-go/internal/logger"
)

// systemPrompt 约束改写建议只做表达优化，不编造经历
const systemPrompt = "rewrite for clarity and measurable impact; do not invent facts; " +
	"keep only info present in the bullet."

const maxRewrites = 5

// Rewriter 基于聊天模型为简历要点生成改写建议。
// 建议是锦上添花的输出：模型失败时返回空列表，绝不阻断匹配流程。
type Rewriter struct {
	chatModel model.BaseChatModel
	modelName string

	mu    sync.Mutex
	usage map[string]int
}

// New 创建改写建议生成器，modelName 仅用于用量统计
func New(chatModel model.BaseChatModel, modelName string) *Rewriter {
	return &Rewriter{
		chatModel: chatModel,
		modelName: modelName,
		usage:     make(map[string]int),
	}
}

// SuggestRewrites 针对目标技能生成至多5条要点改写建议。
// 要点或目标技能为空、模型未配置、调用失败，都返回空列表。
func (r *Rewriter) SuggestRewrites(ctx context.Context, resumeBullets, targetSkills []string) []string {
	if len(resumeBullets) == 0 || len(targetSkills) == 0 || r.chatModel == nil {
		return []string{}
	}

	prompt := "Target skills: " + strings.Join(targetSkills, ", ") + "\n" + strings.Join(resumeBullets, "\n")
	msg, err := r.chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(prompt),
	})
	if err != nil {
		logger.Warn().Err(err).Msg("改写建议生成失败，返回空列表")
		return []string{}
	}

	r.mu.Lock()
	r.usage[r.modelName]++
	r.mu.Unlock()

	return parseBullets(msg.Content)
}

// Usage 返回各模型的调用次数快照
func (r *Rewriter) Usage() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]int, len(r.usage))
	for k, v := range r.usage {
		out[k] = v
	}
	return out
}

// parseBullets 把模型输出整理为要点列表：去掉空行与 "1." 式编号前缀，截断到5条
func parseBullets(content string) []string {
	bullets := []string{}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line[0] >= '0' && line[0] <= '9' {
			if _, rest, ok := strings.Cut(line, "."); ok {
				line = strings.TrimSpace(rest)
			}
		}
		bullets = append(bullets, line)
	}
	if len(bullets) > maxRewrites {
		bullets = bullets[:maxRewrites]
	}
	return bullets
}
