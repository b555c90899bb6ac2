package types

// JobPosting 解析后的岗位描述
type JobPosting struct {
	Title            string   `json:"title"`
	Level            string   `json:"level,omitempty"`
	YearsRequired    int      `json:"years_required,omitempty"`
	Location         string   `json:"location,omitempty"`
	WorkAuth         string   `json:"work_auth,omitempty"`
	RequiredSkills   []string `json:"required_skills"`
	PreferredSkills  []string `json:"preferred_skills"`
	Responsibilities []string `json:"responsibilities"`
}

// Experience 简历中的一段工作经历
type Experience struct {
	Role    string   `json:"role"`
	Company string   `json:"company"`
	Start   string   `json:"start,omitempty"` // 年-月
	End     string   `json:"end,omitempty"`   // 年-月, 空表示至今
	Bullets []string `json:"bullets"`
}

// ResumeProfile 解析后的简历结构化数据
type ResumeProfile struct {
	Experiences    []Experience `json:"experiences"`
	Skills         []string     `json:"skills"`
	Education      []string     `json:"education"`
	Certifications []string     `json:"certifications"`
}
