package parser

import (
	"regexp"
	"strconv"
	"strings"

	"resume-fit-go/internal/types"
)

var (
	levelNames = []string{"junior", "mid", "senior", "lead"}
	levelRes   = func() map[string]*regexp.Regexp {
		m := make(map[string]*regexp.Regexp, len(levelNames))
		for _, lvl := range levelNames {
			m[lvl] = regexp.MustCompile(`\b` + lvl + `\b`)
		}
		return m
	}()

	yearsRe = regexp.MustCompile(`(\d+)\+?\s+years`)

	// 节标题到目标字段的映射，整行精确匹配（小写化后）
	jobSectionHeaders = map[string]string{
		"requirements":     "required",
		"preferred":        "preferred",
		"nice to have":     "preferred",
		"responsibilities": "responsibilities",
	}
)

// ParseJob 从岗位描述纯文本解析出结构化字段。
// 启发式规则：首行为职位名；级别与年限从全文正则提取；
// 技能列表来自 Requirements / Preferred / Nice to have 小节下的 - 或 * 条目。
// 解析是纯函数，同一输入永远得到相同输出。
func ParseJob(text string) types.JobPosting {
	posting := types.JobPosting{
		RequiredSkills:   []string{},
		PreferredSkills:  []string{},
		Responsibilities: []string{},
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) == 0 {
		return posting
	}

	posting.Title = lines[0]
	bodyLower := strings.ToLower(strings.Join(lines, "\n"))

	for _, lvl := range levelNames {
		if levelRes[lvl].MatchString(bodyLower) {
			posting.Level = strings.ToUpper(lvl[:1]) + lvl[1:]
			break
		}
	}

	if m := yearsRe.FindStringSubmatch(bodyLower); m != nil {
		if years, err := strconv.Atoi(m[1]); err == nil {
			posting.YearsRequired = years
		}
	}

	for _, line := range lines {
		lower := strings.ToLower(line)
		if strings.HasPrefix(lower, "location") {
			if _, rest, ok := strings.Cut(line, ":"); ok {
				posting.Location = strings.TrimSpace(rest)
			}
		}
		if strings.Contains(lower, "visa") || strings.Contains(lower, "authorization") {
			posting.WorkAuth = line
		}
	}

	// 小节扫描：命中标题后收集其下的条目行，直到下一个标题
	sections := map[string][]string{}
	current := ""
	for _, line := range lines[1:] {
		lower := strings.ToLower(line)
		if section, ok := jobSectionHeaders[lower]; ok {
			current = section
			sections[current] = []string{}
			continue
		}
		if current != "" && (strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*")) {
			item := strings.TrimSpace(strings.TrimLeft(line, "-* "))
			sections[current] = append(sections[current], item)
		}
	}

	if v := sections["required"]; v != nil {
		posting.RequiredSkills = v
	}
	if v := sections["preferred"]; v != nil {
		posting.PreferredSkills = v
	}
	if v := sections["responsibilities"]; v != nil {
		posting.Responsibilities = v
	}
	return posting
}

// PostingText 拼接岗位全文，供词频向量构建使用
func PostingText(posting types.JobPosting) string {
	parts := []string{posting.Title}
	parts = append(parts, posting.Responsibilities...)
	parts = append(parts, posting.RequiredSkills...)
	parts = append(parts, posting.PreferredSkills...)
	return strings.Join(parts, "\n")
}
