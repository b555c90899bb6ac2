package types

// SkillMention 从文档中抽取的原始技能文本片段
type SkillMention struct {
	Text    string `json:"text"`
	Snippet string `json:"snippet"`
	Start   string `json:"start,omitempty"` // 年-月, 例如 "2021-01"
	End     string `json:"end,omitempty"`
}

// MatchEvidence 匹配证据，记录命中片段和可选的时间范围
type MatchEvidence struct {
	Snippet string `json:"snippet"`
	Start   string `json:"start,omitempty"`
	End     string `json:"end,omitempty"`
}

// MatchedSkill 映射到标准技能后的匹配结果
type MatchedSkill struct {
	SkillID    int           `json:"skill_id"`
	Name       string        `json:"name"`
	Source     string        `json:"source"` // "resume" 或 "job"
	Confidence float64       `json:"confidence"`
	Evidence   MatchEvidence `json:"evidence"`
}

// SkillInstance 简历侧的技能实例，可选携带使用时间范围
type SkillInstance struct {
	Name  string `json:"name"`
	Start string `json:"start,omitempty"` // 年-月
	End   string `json:"end,omitempty"`
}

// SkillEvidence 简历技能向量的证据：年限与距今月数
type SkillEvidence struct {
	TenureYears        float64 `json:"tenure_years"`
	MonthsSinceLastUse int     `json:"months_since_last_use"`
}

// ScoreTerms 得分拆解项，便于审计
type ScoreTerms struct {
	Base           float64 `json:"base"`            // 全向量余弦相似度
	PCrit          float64 `json:"pcrit"`           // 必备技能缺失惩罚 [0,1]
	ClusterPenalty float64 `json:"cluster_penalty"` // 按簇重要性加权的差距
	LevelPenalty   float64 `json:"level_penalty"`   // 级别差惩罚（已乘系数）
}

// BestFitItem 最佳匹配技能条目
type BestFitItem struct {
	Skill        string        `json:"skill"`
	Contribution float64       `json:"contribution"`
	Evidence     SkillEvidence `json:"evidence"`
}

// GapItem 缺口技能条目
type GapItem struct {
	Skill    string `json:"skill"`
	Required bool   `json:"required"`
}

// ClusterSummary 单个技能簇的对齐摘要
type ClusterSummary struct {
	Cluster      string   `json:"cluster"`
	AlignPct     float64  `json:"align_pct"`
	BestExamples []string `json:"best_examples"`
	Gaps         []string `json:"gaps"`
}

// Explanation 匹配结果的完整解释，是对外可见的唯一输出。
// 五个顶层字段在任何得分区间下都必须存在（列表可为空但不为null）。
type Explanation struct {
	Score    float64          `json:"score"`
	Label    string           `json:"label"`
	BestFit  []BestFitItem    `json:"best_fit"`
	Gaps     []GapItem        `json:"gaps"`
	Clusters []ClusterSummary `json:"clusters"`
	Terms    ScoreTerms       `json:"terms"`
	Rewrites []string         `json:"rewrites,omitempty"`
}
