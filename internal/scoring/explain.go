package scoring

import (
	"math"
	"sort"

	"resume-fit-go/internal/types"
)

const (
	maxBestFit         = 5
	maxGaps            = 5
	maxClusterExamples = 3
	maxClusterGaps     = 3
)

// labelBand 得分标签阈值表，按阈值从高到低排列，下界闭区间
var labelBands = []struct {
	Min   float64
	Label string
}{
	{85, "Strong"},
	{70, "On target"},
	{55, "Stretch"},
	{math.Inf(-1), "Reach"},
}

// Label 按阈值表返回得分标签
func Label(score float64) string {
	for _, band := range labelBands {
		if score >= band.Min {
			return band.Label
		}
	}
	return labelBands[len(labelBands)-1].Label
}

// BuildExplanation 从向量与得分拆解推导人类可读的匹配解释。
// 排序平手一律按技能名升序决断，保证同样输入得到同样输出。
func BuildExplanation(jobVec, resumeVec map[string]float64, requiredSkills []string, score float64, terms types.ScoreTerms, evidence map[string]types.SkillEvidence, clusterMap map[string]*ClusterEntry) types.Explanation {
	exp := types.Explanation{
		Score:    score,
		Label:    Label(score),
		BestFit:  []types.BestFitItem{},
		Gaps:     []types.GapItem{},
		Clusters: []types.ClusterSummary{},
		Terms:    terms,
	}

	// 最佳匹配：两侧共有技能按贡献（权重乘积）降序
	for skill, jw := range jobVec {
		rw, ok := resumeVec[skill]
		if !ok || rw == 0 {
			continue
		}
		exp.BestFit = append(exp.BestFit, types.BestFitItem{
			Skill:        skill,
			Contribution: jw * rw,
			Evidence:     evidence[skill],
		})
	}
	sort.Slice(exp.BestFit, func(i, j int) bool {
		if exp.BestFit[i].Contribution != exp.BestFit[j].Contribution {
			return exp.BestFit[i].Contribution > exp.BestFit[j].Contribution
		}
		return exp.BestFit[i].Skill < exp.BestFit[j].Skill
	})
	if len(exp.BestFit) > maxBestFit {
		exp.BestFit = exp.BestFit[:maxBestFit]
	}

	// 缺口：先列简历完全缺失的必备技能（按岗位权重降序），不足5条时
	// 用非必备的缺失技能补齐
	requiredSet := make(map[string]bool, len(requiredSkills))
	var missingRequired []string
	for _, s := range requiredSkills {
		requiredSet[s] = true
		if resumeVec[s] == 0.0 {
			missingRequired = append(missingRequired, s)
		}
	}
	sortByJobWeightDesc(missingRequired, jobVec)
	for _, s := range missingRequired {
		exp.Gaps = append(exp.Gaps, types.GapItem{Skill: s, Required: true})
	}
	if len(exp.Gaps) < maxGaps {
		var others []string
		for skill := range jobVec {
			if resumeVec[skill] == 0.0 && !requiredSet[skill] {
				others = append(others, skill)
			}
		}
		sortByJobWeightDesc(others, jobVec)
		for _, s := range others {
			exp.Gaps = append(exp.Gaps, types.GapItem{Skill: s, Required: false})
			if len(exp.Gaps) == maxGaps {
				break
			}
		}
	}

	// 簇摘要：对齐百分比 + 最多3个最佳示例 + 最多3个簇内缺口
	clusterNames := make([]string, 0, len(clusterMap))
	for name := range clusterMap {
		clusterNames = append(clusterNames, name)
	}
	sort.Strings(clusterNames)
	for _, name := range clusterNames {
		cl := clusterMap[name]
		align := CosineMap(cl.Resume, cl.Job)

		var shared []string
		for skill := range cl.Job {
			if _, ok := cl.Resume[skill]; ok {
				shared = append(shared, skill)
			}
		}
		sort.Slice(shared, func(i, j int) bool {
			pi := cl.Job[shared[i]] * cl.Resume[shared[i]]
			pj := cl.Job[shared[j]] * cl.Resume[shared[j]]
			if pi != pj {
				return pi > pj
			}
			return shared[i] < shared[j]
		})
		if len(shared) > maxClusterExamples {
			shared = shared[:maxClusterExamples]
		}

		var gapSkills []string
		for skill := range cl.Job {
			if _, ok := cl.Resume[skill]; !ok {
				gapSkills = append(gapSkills, skill)
			}
		}
		sortByJobWeightDesc(gapSkills, cl.Job)
		if len(gapSkills) > maxClusterGaps {
			gapSkills = gapSkills[:maxClusterGaps]
		}

		if shared == nil {
			shared = []string{}
		}
		if gapSkills == nil {
			gapSkills = []string{}
		}
		exp.Clusters = append(exp.Clusters, types.ClusterSummary{
			Cluster:      name,
			AlignPct:     math.Max(0.0, align) * 100.0,
			BestExamples: shared,
			Gaps:         gapSkills,
		})
	}

	return exp
}

// sortByJobWeightDesc 按岗位权重降序排序，平手按技能名升序
func sortByJobWeightDesc(skills []string, weights map[string]float64) {
	sort.Slice(skills, func(i, j int) bool {
		wi, wj := weights[skills[i]], weights[skills[j]]
		if wi != wj {
			return wi > wj
		}
		return skills[i] < skills[j]
	})
}
