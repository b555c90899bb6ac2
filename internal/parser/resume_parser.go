package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"resume-fit-go/internal/types"
)

var (
	// 简历节标题，整行匹配，单复数同义
	resumeSectionRe = regexp.MustCompile(`(?i)^(skills?|experience|projects?|education|certifications?)$`)

	// 时间范围，例如 "Jan 2020 - Mar 2022"、"2020 – 2022"、"2021 - Present"
	dateRangeRe = regexp.MustCompile(`(?i)((?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+\d{4}|\d{4})\s*[–-]\s*((?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+\d{4}|\d{4}|Present)`)

	monthDateRe = regexp.MustCompile(`(?i)^(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+(\d{4})`)
	yearDateRe  = regexp.MustCompile(`^(\d{4})`)

	educationRe = regexp.MustCompile(`(?i)\b(BSc|MSc|Bachelor|Master)\b`)

	skillSplitRe = regexp.MustCompile(`[;,\n]`)

	monthIndex = map[string]int{
		"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
		"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
	}
)

// canonicalSection 把节标题的单复数变体归并到统一键
func canonicalSection(header string) string {
	switch h := strings.ToLower(header); h {
	case "skill", "skills":
		return "skills"
	case "project", "projects":
		return "projects"
	case "certification", "certifications":
		return "certifications"
	default:
		return h
	}
}

// ParseResumeText 从简历纯文本解析出结构化档案。
// 节标题按整行识别；经历行靠时间范围正则加 " at " 分隔符定位；
// 技能按逗号/分号/换行切分。与岗位解析一样是确定性的纯函数。
func ParseResumeText(text string) types.ResumeProfile {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	sections := map[string][]string{}
	current := ""
	prevLine := ""
	for _, line := range lines {
		lower := strings.ToLower(line)
		if resumeSectionRe.MatchString(lower) {
			current = canonicalSection(lower)
			sections[current] = []string{}
			// 学历常写在 Education 标题的上一行
			if current == "education" && prevLine != "" {
				sections[current] = append(sections[current], prevLine)
			}
			prevLine = line
			continue
		}
		if head, rest, ok := strings.Cut(line, ":"); ok && resumeSectionRe.MatchString(strings.ToLower(head)) {
			current = canonicalSection(head)
			sections[current] = []string{strings.TrimSpace(rest)}
			prevLine = line
			continue
		}
		if current != "" {
			sections[current] = append(sections[current], line)
		}
		prevLine = line
	}

	profile := types.ResumeProfile{
		Experiences:    []types.Experience{},
		Skills:         []string{},
		Education:      []string{},
		Certifications: []string{},
	}

	if raw, ok := sections["skills"]; ok {
		for _, part := range skillSplitRe.Split(strings.Join(raw, " "), -1) {
			if s := strings.TrimSpace(part); s != "" {
				profile.Skills = append(profile.Skills, s)
			}
		}
	}

	for i, line := range lines {
		loc := dateRangeRe.FindStringSubmatchIndex(line)
		if loc == nil || !strings.Contains(line, " at ") {
			continue
		}
		m := dateRangeRe.FindStringSubmatch(line)
		exp := types.Experience{
			Start:   parseResumeDate(m[1]),
			End:     parseResumeDate(m[2]),
			Bullets: []string{},
		}
		pre := strings.TrimSpace(line[:loc[0]])
		if role, company, ok := strings.Cut(pre, " at "); ok {
			exp.Role = strings.TrimSpace(role)
			exp.Company = strings.TrimSpace(company)
		}
		// 经历行之后的 - / * 条目归属该段经历
		for j := i + 1; j < len(lines); j++ {
			if !strings.HasPrefix(lines[j], "-") && !strings.HasPrefix(lines[j], "*") {
				break
			}
			exp.Bullets = append(exp.Bullets, strings.TrimSpace(strings.TrimLeft(lines[j], "-* ")))
		}
		profile.Experiences = append(profile.Experiences, exp)
	}

	education := append([]string{}, sections["education"]...)
	for _, line := range lines {
		if educationRe.MatchString(line) && !containsString(education, line) {
			education = append(education, line)
		}
	}
	for _, line := range education {
		if line != "" && !strings.Contains(line, " at ") {
			profile.Education = append(profile.Education, line)
		}
	}

	if certs, ok := sections["certifications"]; ok {
		profile.Certifications = certs
	}
	return profile
}

// SkillInstances 把档案展开成带时间范围的技能实例。
// 技能节里的条目本身没有时间，按经历的总时间范围近似：
// 取最早的开始与最晚的结束，让衰减至少反映整体职业跨度。
// 仍在进行的经历按 now 所在月份收口。
func SkillInstances(profile types.ResumeProfile, now time.Time) []types.SkillInstance {
	start, end := careerSpan(profile.Experiences)
	if start != "" && end == "" {
		end = now.Format("2006-01")
	}
	instances := make([]types.SkillInstance, 0, len(profile.Skills))
	for _, skill := range profile.Skills {
		instances = append(instances, types.SkillInstance{Name: skill, Start: start, End: end})
	}
	return instances
}

// SkillMentions 把档案中的技能条目转成待匹配的提及
func SkillMentions(profile types.ResumeProfile) []types.SkillMention {
	start, end := careerSpan(profile.Experiences)
	mentions := make([]types.SkillMention, 0, len(profile.Skills))
	for _, skill := range profile.Skills {
		mentions = append(mentions, types.SkillMention{
			Text:    skill,
			Snippet: skill,
			Start:   start,
			End:     end,
		})
	}
	return mentions
}

// careerSpan 返回全部经历的最早开始与最晚结束（"至今"视为无结束）
func careerSpan(experiences []types.Experience) (string, string) {
	var start, end string
	ongoing := false
	for _, exp := range experiences {
		if exp.Start != "" && (start == "" || exp.Start < start) {
			start = exp.Start
		}
		if exp.End == "" && exp.Start != "" {
			ongoing = true
		}
		if exp.End != "" && exp.End > end {
			end = exp.End
		}
	}
	if ongoing {
		end = ""
	}
	return start, end
}

// parseResumeDate 把 "Jan 2020"、"2020" 或 "Present" 归一化为 "年-月"。
// Present 返回空串，表示仍在进行。
func parseResumeDate(part string) string {
	part = strings.TrimSpace(part)
	if strings.EqualFold(part, "present") {
		return ""
	}
	if m := monthDateRe.FindStringSubmatch(part); m != nil {
		return fmt.Sprintf("%s-%02d", m[2], monthIndex[strings.ToLower(m[1])])
	}
	if m := yearDateRe.FindStringSubmatch(part); m != nil {
		return m[1] + "-01"
	}
	return ""
}

func containsString(ss []string, target string) bool {
	for _, s := range ss {
		if s == target {
			return true
		}
	}
	return false
}
