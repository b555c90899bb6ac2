package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuildClusterMapWeights 验证簇权重是岗位侧权重的份额且和为1
func TestBuildClusterMapWeights(t *testing.T) {
	tax := testTaxonomy(t)
	jobVec := map[string]float64{"Python": 0.5, "Go": 0.2, "SQL": 0.3}
	resumeVec := map[string]float64{"Python": 1.0}

	clusters := BuildClusterMap(jobVec, resumeVec, tax)
	require.Len(t, clusters, 2)

	var total float64
	for _, cl := range clusters {
		total += cl.Weight
	}
	assert.InDelta(t, 1.0, total, 1e-9, "簇权重之和应为1")
	assert.InDelta(t, 0.7, clusters["Backend"].Weight, 1e-9)
	assert.InDelta(t, 0.3, clusters["Data"].Weight, 1e-9)
}

// TestBuildClusterMapUnknownSkillGoesToOther 验证未收录技能进入Other簇
func TestBuildClusterMapUnknownSkillGoesToOther(t *testing.T) {
	tax := testTaxonomy(t)
	jobVec := map[string]float64{"Basket Weaving": 1.0}

	clusters := BuildClusterMap(jobVec, nil, tax)
	require.Contains(t, clusters, "Other")
	assert.InDelta(t, 1.0, clusters["Other"].Weight, 1e-9)
	assert.Equal(t, 1.0, clusters["Other"].Job["Basket Weaving"])
}

// TestBuildClusterMapResumeOnlyCluster 验证仅出现在简历侧的簇保留且权重为0
func TestBuildClusterMapResumeOnlyCluster(t *testing.T) {
	tax := testTaxonomy(t)
	jobVec := map[string]float64{"Python": 1.0}
	resumeVec := map[string]float64{"SQL": 1.0}

	clusters := BuildClusterMap(jobVec, resumeVec, tax)
	require.Contains(t, clusters, "Data")
	assert.Equal(t, 0.0, clusters["Data"].Weight, "简历独有的簇不应分到岗位权重")
	assert.Equal(t, 1.0, clusters["Data"].Resume["SQL"])
	assert.Empty(t, clusters["Data"].Job)
}

// TestBuildClusterMapEmptyJobVector 验证全零岗位向量不会除零
func TestBuildClusterMapEmptyJobVector(t *testing.T) {
	tax := testTaxonomy(t)
	clusters := BuildClusterMap(nil, map[string]float64{"Python": 1.0}, tax)

	require.Contains(t, clusters, "Backend")
	assert.Equal(t, 0.0, clusters["Backend"].Weight)
}
