package taxonomy

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Skill 标准技能条目，加载后不可变
type Skill struct {
	ID      int    // 从1开始，按文件中出现顺序分配
	Name    string // 标准名称
	Cluster string // 所属技能簇
}

// skillEntry skills.yaml 中的单条技能定义
type skillEntry struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

// Taxonomy 技能分类表的内存索引。
// 启动时加载一次，之后只读；重新加载会产生新的实例而不是修改旧实例。
type Taxonomy struct {
	skills     []Skill        // 按ID顺序
	aliasIndex map[string]int // 小写名称/别名 -> 技能ID
	aliasCount int            // 仅别名（不含标准名称）数量
}

// Load 从文件加载技能分类表
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取技能分类文件失败: %w", err)
	}
	return Parse(data)
}

// Parse 解析技能分类表内容并构建索引。
// 标准名称重复、别名重复、或别名与其他技能的标准名称冲突，都是配置错误，直接失败。
func Parse(data []byte) (*Taxonomy, error) {
	var raw map[string][]skillEntry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("解析技能分类文件失败: %w", err)
	}

	t := &Taxonomy{
		aliasIndex: make(map[string]int),
	}

	namesSeen := make(map[string]bool)
	aliasesSeen := make(map[string]bool)

	// yaml.v3 将映射解析为无序map，这里按簇名排序以保证ID分配确定
	clusters := make([]string, 0, len(raw))
	for cluster := range raw {
		clusters = append(clusters, cluster)
	}
	sort.Strings(clusters)

	id := 1
	for _, cluster := range clusters {
		for _, entry := range raw[cluster] {
			name := strings.TrimSpace(entry.Name)
			if name == "" {
				return nil, fmt.Errorf("技能簇 %q 中存在空的技能名称", cluster)
			}
			key := strings.ToLower(name)
			if namesSeen[key] {
				return nil, fmt.Errorf("重复的技能名称: %s", name)
			}
			if aliasesSeen[key] {
				return nil, fmt.Errorf("技能名称与已有别名冲突: %s", name)
			}
			namesSeen[key] = true

			t.skills = append(t.skills, Skill{ID: id, Name: name, Cluster: cluster})
			t.aliasIndex[key] = id

			for _, alias := range entry.Aliases {
				aliasKey := strings.ToLower(strings.TrimSpace(alias))
				if aliasKey == "" {
					continue
				}
				if namesSeen[aliasKey] || aliasesSeen[aliasKey] {
					return nil, fmt.Errorf("重复的别名: %s", alias)
				}
				aliasesSeen[aliasKey] = true
				t.aliasIndex[aliasKey] = id
				t.aliasCount++
			}
			id++
		}
	}

	if len(t.skills) == 0 {
		return nil, fmt.Errorf("技能分类表为空")
	}
	return t, nil
}

// Lookup 按小写化的名称或别名查找技能ID
func (t *Taxonomy) Lookup(normalized string) (int, bool) {
	id, ok := t.aliasIndex[normalized]
	return id, ok
}

// SkillByID 按ID返回技能，ID非法时返回零值
func (t *Taxonomy) SkillByID(id int) (Skill, bool) {
	if id < 1 || id > len(t.skills) {
		return Skill{}, false
	}
	return t.skills[id-1], true
}

// Skills 返回全部技能，调用方不得修改
func (t *Taxonomy) Skills() []Skill {
	return t.skills
}

// ClusterOf 返回技能名称所属的簇；未收录的技能归入 "Other"
func (t *Taxonomy) ClusterOf(name string) string {
	if id, ok := t.aliasIndex[strings.ToLower(name)]; ok {
		return t.skills[id-1].Cluster
	}
	return "Other"
}

// SkillCount 标准技能数量
func (t *Taxonomy) SkillCount() int {
	return len(t.skills)
}

// AliasCount 别名数量（不含标准名称本身）
func (t *Taxonomy) AliasCount() int {
	return t.aliasCount
}
