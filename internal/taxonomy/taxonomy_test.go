package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
Backend:
  - name: Python
    aliases: ["py", "python3"]
  - name: Go
    aliases: ["golang"]
ML:
  - name: Machine Learning
    aliases: ["ml"]
`

// TestParseBuildsIndex 验证加载后名称与别名都能命中同一技能
func TestParseBuildsIndex(t *testing.T) {
	tax, err := Parse([]byte(sampleYAML))
	require.NoError(t, err, "合法的分类表不应返回错误")

	assert.Equal(t, 3, tax.SkillCount(), "标准技能数量与预期不符")
	assert.Equal(t, 4, tax.AliasCount(), "别名数量与预期不符")

	id, ok := tax.Lookup("python")
	require.True(t, ok, "标准名称应能命中")
	aliasID, ok := tax.Lookup("py")
	require.True(t, ok, "别名应能命中")
	assert.Equal(t, id, aliasID, "名称与别名应指向同一技能ID")

	skill, ok := tax.SkillByID(id)
	require.True(t, ok)
	assert.Equal(t, "Python", skill.Name)
	assert.Equal(t, "Backend", skill.Cluster)
}

// TestParseIdempotent 验证同一份内容加载两次得到相同的计数
func TestParseIdempotent(t *testing.T) {
	first, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)
	second, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, first.SkillCount(), second.SkillCount(), "两次加载的技能数量应一致")
	assert.Equal(t, first.AliasCount(), second.AliasCount(), "两次加载的别名数量应一致")
}

// TestParseRejectsDuplicateName 验证重复的标准名称是致命配置错误
func TestParseRejectsDuplicateName(t *testing.T) {
	dup := `
Backend:
  - name: Python
ML:
  - name: python
`
	_, err := Parse([]byte(dup))
	require.Error(t, err, "重复的技能名称必须报错")
	assert.Contains(t, err.Error(), "重复的技能名称")
}

// TestParseRejectsDuplicateAlias 验证别名重复以及别名与名称冲突都被拒绝
func TestParseRejectsDuplicateAlias(t *testing.T) {
	dupAlias := `
Backend:
  - name: Python
    aliases: ["py"]
  - name: Go
    aliases: ["py"]
`
	_, err := Parse([]byte(dupAlias))
	require.Error(t, err, "重复的别名必须报错")

	clash := `
Backend:
  - name: Python
    aliases: ["go"]
  - name: Go
`
	_, err = Parse([]byte(clash))
	require.Error(t, err, "别名与标准名称冲突必须报错")
}

// TestClusterOfFallsBackToOther 验证未收录技能归入Other簇
func TestClusterOfFallsBackToOther(t *testing.T) {
	tax, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "ML", tax.ClusterOf("Machine Learning"))
	assert.Equal(t, "ML", tax.ClusterOf("ml"))
	assert.Equal(t, "Other", tax.ClusterOf("Basket Weaving"))
}
