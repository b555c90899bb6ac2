package scoring

import (
	"math"
	"regexp"
	"strings"
	"time"

	"resume-fit-go/internal/types"
)

const (
	// 技能加权提升：岗位明确要求的技能在文本词频之外的固定加成
	requiredBoost  = 0.4
	preferredBoost = 0.15

	// 简历技能缺少任何时间证据时，按"中等新鲜"处理的距今月数
	defaultMonthsSinceUse = 6
)

// JobSkillWeights 根据岗位文本与技能列表构建岗位侧技能向量。
// 词频部分是单文档语料上的tf-idf退化形式：对每个技能短语统计词边界出现次数，
// 在技能词表内做L2归一化；随后叠加required/preferred固定加成，最后整体归一化为和为1。
func JobSkillWeights(postingText string, required, preferred []string) map[string]float64 {
	skills := dedupePreserveOrder(append(append([]string{}, required...), preferred...))
	if len(skills) == 0 {
		return map[string]float64{}
	}

	lowerText := strings.ToLower(postingText)

	// 技能短语词频
	tf := make([]float64, len(skills))
	var tfNorm float64
	for i, skill := range skills {
		n := countPhrase(lowerText, strings.ToLower(skill))
		tf[i] = float64(n)
		tfNorm += tf[i] * tf[i]
	}
	if tfNorm > 0 {
		tfNorm = math.Sqrt(tfNorm)
		for i := range tf {
			tf[i] /= tfNorm
		}
	}

	weights := make(map[string]float64, len(skills))
	for i, skill := range skills {
		weights[skill] = tf[i]
	}
	for _, skill := range required {
		weights[skill] += requiredBoost
	}
	for _, skill := range preferred {
		weights[skill] += preferredBoost
	}

	// 归一化为和为1；全零向量保持全零（除数回退为1.0）
	var total float64
	for _, w := range weights {
		total += w
	}
	if total == 0 {
		total = 1.0
	}
	for k, w := range weights {
		weights[k] = w / total
	}
	return weights
}

// ResumeSkillWeights 根据技能实例构建简历侧技能向量及证据。
// 权重 = 年限 × exp(−λ·距今月数)，同名技能多次出现时权重累加、证据以最后一条为准。
// 最终向量做L2归一化；全零向量保持全零。
func ResumeSkillWeights(instances []types.SkillInstance, lambda float64, now time.Time) (map[string]float64, map[string]types.SkillEvidence) {
	weights := make(map[string]float64, len(instances))
	evidence := make(map[string]types.SkillEvidence, len(instances))

	for _, inst := range instances {
		start := inst.Start
		end := inst.End
		if end == "" {
			end = start // 没有结束时间时退回开始时间
		}

		monthsSince := defaultMonthsSinceUse
		if end != "" {
			if endDate, err := parseYearMonth(end); err == nil {
				monthsSince = monthsBetween(endDate, now)
			}
		}

		tenureMonths := 0
		if start != "" && end != "" {
			startDate, errS := parseYearMonth(start)
			endDate, errE := parseYearMonth(end)
			if errS == nil && errE == nil {
				tenureMonths = monthsBetween(startDate, endDate)
			}
		}

		tenureYears := float64(tenureMonths) / 12.0
		decay := math.Exp(-lambda * float64(monthsSince))
		weights[inst.Name] += tenureYears * decay
		evidence[inst.Name] = types.SkillEvidence{
			TenureYears:        tenureYears,
			MonthsSinceLastUse: monthsSince,
		}
	}

	var norm float64
	for _, w := range weights {
		norm += w * w
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		norm = 1.0
	}
	for k, w := range weights {
		weights[k] = w / norm
	}
	return weights, evidence
}

// BuildVectors 一次构建岗位向量、简历向量和简历证据
func BuildVectors(postingText string, required, preferred []string, instances []types.SkillInstance, lambda float64, now time.Time) (map[string]float64, map[string]float64, map[string]types.SkillEvidence) {
	job := JobSkillWeights(postingText, required, preferred)
	resume, evidence := ResumeSkillWeights(instances, lambda, now)
	return job, resume, evidence
}

// parseYearMonth 解析 "2006-01" 形式的年-月字符串
func parseYearMonth(s string) (time.Time, error) {
	return time.Parse("2006-01", s)
}

// monthsBetween 计算从from到to的整月数（按年月差，可为负）
func monthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

// dedupePreserveOrder 去重并保留首次出现顺序
func dedupePreserveOrder(ss []string) []string {
	seen := make(map[string]bool, len(ss))
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

var nonWord = regexp.MustCompile(`[^a-z0-9+#.]+`)

// countPhrase 统计短语在文本中按词边界出现的次数。
// 文本与短语都已小写化；短语内部的空白折叠为单个空格后匹配。
func countPhrase(text, phrase string) int {
	// 将文本切分为词序列后做短语滑窗匹配，避免子串误命中（如 "java" 命中 "javascript"）
	words := nonWord.Split(text, -1)
	phraseWords := tokenize(phrase)
	if len(phraseWords) == 0 {
		return 0
	}

	count := 0
	for i := 0; i+len(phraseWords) <= len(words); i++ {
		matched := true
		for j, pw := range phraseWords {
			if words[i+j] != pw {
				matched = false
				break
			}
		}
		if matched {
			count++
		}
	}
	return count
}

// tokenize 按与文本相同的规则切词并去掉空token
func tokenize(s string) []string {
	parts := nonWord.Split(s, -1)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
