package types

// WeeklyPlan 路线图中单周的学习安排。
type WeeklyPlan struct {
	Week         int      `json:"week"`
	Focus        string   `json:"focus"`
	Learning     []string `json:"learning"`
	Practice     []string `json:"practice"`
	Deliverables []string `json:"deliverables"`
}

// RoadmapProject 路线图建议的实战项目。
type RoadmapProject struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	SkillsCovered []string `json:"skills_covered"`
}

// InterviewPreparation 面试准备要点，分技术域和行为面两类。
type InterviewPreparation struct {
	TechnicalOrDomain []string `json:"technical_or_domain"`
	Behavioral        []string `json:"behavioral"`
}

// Roadmap 面向候选人的职业提升路线图。
type Roadmap struct {
	TotalDuration          string               `json:"total_duration"`
	RoadmapOverview        string               `json:"roadmap_overview"`
	WeeklyPlan             []WeeklyPlan         `json:"weekly_plan"`
	ProjectsOrCaseStudies  []RoadmapProject     `json:"projects_or_case_studies"`
	InterviewPreparation   InterviewPreparation `json:"interview_preparation"`
	ResumeOptimization     []string             `json:"resume_optimization"`
	CommonMistakesToAvoid  []string             `json:"common_mistakes_to_avoid"`
	JobApplicationStrategy []string             `json:"job_application_strategy"`
}
