package scoring

import (
	"resume-fit-go/internal/taxonomy"
)

// ClusterEntry 单个技能簇在岗位侧与简历侧的子向量。
// Weight 是该簇占岗位总权重的份额，全部簇的Weight之和约等于1。
type ClusterEntry struct {
	Job    map[string]float64
	Resume map[string]float64
	Weight float64
}

// BuildClusterMap 按分类表把两侧向量的技能分配到簇。
// 未收录的技能进入 "Other" 簇；只出现在简历侧的簇保留（Weight为0），
// 它们不参与惩罚但仍为解释输出提供对齐信息。
func BuildClusterMap(jobVec, resumeVec map[string]float64, tax *taxonomy.Taxonomy) map[string]*ClusterEntry {
	clusters := make(map[string]*ClusterEntry)

	entry := func(name string) *ClusterEntry {
		cl, ok := clusters[name]
		if !ok {
			cl = &ClusterEntry{
				Job:    make(map[string]float64),
				Resume: make(map[string]float64),
			}
			clusters[name] = cl
		}
		return cl
	}

	var total float64
	for skill, w := range jobVec {
		cl := entry(tax.ClusterOf(skill))
		cl.Job[skill] = w
		cl.Weight += w
		total += w
	}
	for skill, w := range resumeVec {
		cl := entry(tax.ClusterOf(skill))
		cl.Resume[skill] = w
	}

	if total == 0 {
		total = 1.0
	}
	for _, cl := range clusters {
		cl.Weight /= total
	}
	return clusters
}
