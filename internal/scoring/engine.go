package scoring

import (
	"math"

	"resume-fit-go/internal/types"
)

// Params 打分参数，默认值来自离线网格搜索标定
type Params struct {
	Delta float64 // 必备技能缺失惩罚系数
	Eta   float64 // 簇差距惩罚系数
	Eps   float64 // 级别差惩罚系数
}

// DefaultParams 返回标定后的默认参数
func DefaultParams() Params {
	return Params{Delta: 0.35, Eta: 0.15, Eps: 0.05}
}

// ScorePair 计算简历对岗位的匹配得分（0-100）及拆解项。
// 所有退化输入（空向量、空必备列表、空簇映射）都有定义良好的0值结果，绝不报错。
func ScorePair(resumeVec, jobVec map[string]float64, requiredSkills []string, levelGap float64, clusterMap map[string]*ClusterEntry, params Params) (float64, types.ScoreTerms) {
	base := CosineMap(resumeVec, jobVec)

	// 必备技能缺失惩罚：简历完全没有覆盖的必备技能权重占必备总权重的比例
	var totalRequired, missing float64
	for _, s := range requiredSkills {
		w := jobVec[s]
		totalRequired += w
		if resumeVec[s] == 0.0 {
			missing += w
		}
	}
	if totalRequired == 0 {
		totalRequired = 1.0
	}
	pcrit := missing / totalRequired

	// 簇差距惩罚：每个簇按岗位侧重要性加权贡献 (1 - 簇内余弦)
	var clusterPen float64
	for _, cl := range clusterMap {
		gap := 1.0 - CosineMap(cl.Resume, cl.Job)
		clusterPen += cl.Weight * gap
	}

	levelPen := math.Abs(levelGap)

	raw := base - params.Delta*pcrit - params.Eta*clusterPen - params.Eps*levelPen
	score := math.Max(0.0, math.Min(1.0, raw)) * 100.0

	terms := types.ScoreTerms{
		Base:           base,
		PCrit:          pcrit,
		ClusterPenalty: clusterPen,
		LevelPenalty:   params.Eps * levelPen,
	}
	return score, terms
}

// CosineMap 计算两个稀疏向量（技能名 -> 权重）的余弦相似度。
// 缺失键按0处理；任一侧范数为0时返回0，不会出现除零。
func CosineMap(a, b map[string]float64) float64 {
	var dot, na, nb float64
	for k, av := range a {
		dot += av * b[k]
		na += av * av
	}
	for _, bv := range b {
		nb += bv * bv
	}
	if na == 0 || nb == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
