package ats

import "resume-iq-go/internal/types"

// 资历分级的规则阈值。
const (
	strongProjectCount = 3
	strongProjectScore = 50.0
	beginnerMaxProject = 1
)

// DetectCurrentLevel 把结构化简历和ATS分数映射到粗粒度资历标签。
// 有序规则级联，首个命中者胜：
//  1. 存在任何工作经历 → Experienced Professional (经历检查优先于项目数量)
//  2. 项目≥3且分数≥50 → Entry-Level Developer (Strong Projects)
//  3. 项目≤1 → Beginner
//  4. 其余 → Entry-Level
func DetectCurrentLevel(resume *types.StructuredResume, report *types.ScoreReport) string {
	finalScore := 0.0
	if report != nil {
		finalScore = report.FinalScore
	}

	if len(resume.Experience) > 0 {
		return types.LevelExperienced
	}
	if len(resume.Projects) >= strongProjectCount && finalScore >= strongProjectScore {
		return types.LevelStrongProjects
	}
	if len(resume.Projects) <= beginnerMaxProject {
		return types.LevelBeginner
	}
	return types.LevelEntry
}
