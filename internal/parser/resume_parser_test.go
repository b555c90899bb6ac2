package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `John Doe
Skills
Python, SQL; Docker
Experience
Software Engineer at Acme Corp Jan 2020 - Mar 2022
Data Engineer at Beta Inc Apr 2022 - Present
Education
BSc Computer Science, MIT
Certifications
AWS Solutions Architect
`

// TestParseResumeTextSections 验证技能、经历、学历、证书各节的解析
func TestParseResumeTextSections(t *testing.T) {
	profile := ParseResumeText(sampleResume)

	assert.Equal(t, []string{"Python", "SQL", "Docker"}, profile.Skills)

	require.Len(t, profile.Experiences, 2)
	first := profile.Experiences[0]
	assert.Equal(t, "Software Engineer", first.Role)
	assert.Equal(t, "Acme Corp", first.Company)
	assert.Equal(t, "2020-01", first.Start)
	assert.Equal(t, "2022-03", first.End)

	second := profile.Experiences[1]
	assert.Equal(t, "2022-04", second.Start)
	assert.Equal(t, "", second.End, "Present应解析为空结束时间")

	assert.Equal(t, []string{"BSc Computer Science, MIT"}, profile.Education, "含 at 的经历行不应混入学历")
	assert.Equal(t, []string{"AWS Solutions Architect"}, profile.Certifications)
}

// TestParseResumeInlineSkills 验证 "Skills: ..." 单行写法
func TestParseResumeInlineSkills(t *testing.T) {
	profile := ParseResumeText("Skills: Python, Go\n")
	assert.Equal(t, []string{"Python", "Go"}, profile.Skills)
}

// TestParseResumeExperienceBullets 验证经历行之后的条目归属该段经历
func TestParseResumeExperienceBullets(t *testing.T) {
	profile := ParseResumeText(`Experience
Engineer at Acme Jan 2020 - Jan 2021
- Built ETL pipelines
- Reduced query latency by 40%
Analyst at Beta 2021 - 2022
* Automated reporting
`)
	require.Len(t, profile.Experiences, 2)
	assert.Equal(t, []string{"Built ETL pipelines", "Reduced query latency by 40%"}, profile.Experiences[0].Bullets)
	assert.Equal(t, []string{"Automated reporting"}, profile.Experiences[1].Bullets)
}

// TestParseResumeYearOnlyRange 验证纯年份与en-dash时间范围
func TestParseResumeYearOnlyRange(t *testing.T) {
	profile := ParseResumeText("Experience\nAnalyst at Gamma 2020 – 2022\n")
	require.Len(t, profile.Experiences, 1)
	assert.Equal(t, "2020-01", profile.Experiences[0].Start)
	assert.Equal(t, "2022-01", profile.Experiences[0].End)
}

// TestParseResumeEducationOutsideSection 验证学历行即使不在Education节内也能被捕获
func TestParseResumeEducationOutsideSection(t *testing.T) {
	profile := ParseResumeText("John Doe\nMSc AI, Stanford\nSkills\nPython\n")
	assert.Contains(t, profile.Education, "MSc AI, Stanford")
}

// TestParseResumeEmptyInput 验证空输入得到全空但非nil的档案
func TestParseResumeEmptyInput(t *testing.T) {
	profile := ParseResumeText("")
	require.NotNil(t, profile.Skills)
	require.NotNil(t, profile.Experiences)
	require.NotNil(t, profile.Education)
	require.NotNil(t, profile.Certifications)
	assert.Empty(t, profile.Skills)
}

// TestSkillInstancesSpan 验证技能实例取整体职业跨度，进行中的经历按当前月收口
func TestSkillInstancesSpan(t *testing.T) {
	profile := ParseResumeText(sampleResume)
	now := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	instances := SkillInstances(profile, now)
	require.Len(t, instances, 3)
	for _, inst := range instances {
		assert.Equal(t, "2020-01", inst.Start)
		assert.Equal(t, "2024-01", inst.End, "仍在进行的经历应按now所在月份收口")
	}
}

// TestSkillMentionsCarryEvidence 验证提及携带原文与时间范围
func TestSkillMentionsCarryEvidence(t *testing.T) {
	profile := ParseResumeText("Skills\nPython\nExperience\nEngineer at Acme Jan 2020 - Jan 2021\n")
	mentions := SkillMentions(profile)
	require.Len(t, mentions, 1)
	assert.Equal(t, "Python", mentions[0].Text)
	assert.Equal(t, "Python", mentions[0].Snippet)
	assert.Equal(t, "2020-01", mentions[0].Start)
	assert.Equal(t, "2021-01", mentions[0].End)
}
