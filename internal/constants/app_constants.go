package constants

import "time"

const (
	// DefaultParserVer 当前规则解析器版本标识
	DefaultParserVer = "rule-v1"
	// LLMParserVer LLM解析器版本标识
	LLMParserVer = "llm-v1"

	// EducationPartialCredit 教育类目打分过程中绩点字段损坏(非标量)时授予的
	// 固定部分学分。该数值在评分公式中没有与其他类目一致的0/满分依据，
	// 属于历史遗留的保守折中，保留为显式常量而非静默修正。
	EducationPartialCredit = 10.0

	// RoadmapMinScore 允许生成学习路线图的最低ATS分数
	RoadmapMinScore = 60.0

	// DefaultTopRoles 角色推荐默认返回的条数
	DefaultTopRoles = 3

	// AnalysisCacheDuration 分析结果在Redis中的缓存时长
	AnalysisCacheDuration = 24 * time.Hour
)

// 简历提交的处理状态机
const (
	StatusPendingExtraction = "PENDING_EXTRACTION"
	StatusTextExtracted     = "TEXT_EXTRACTED"
	StatusExtractionFailed  = "TEXT_EXTRACTION_FAILED"
	StatusScannedRejected   = "SCANNED_PDF_REJECTED"
	StatusAnalysisQueued    = "ANALYSIS_QUEUED"
	StatusAnalysisDone      = "ANALYSIS_COMPLETED"
	StatusAnalysisFailed    = "ANALYSIS_FAILED"
	StatusDuplicateSkipped  = "DUPLICATE_FILE_SKIPPED"
)

// AllowedStatusesForAnalysis 允许进入分析阶段的状态集合。
// ANALYSIS_FAILED 包含在内，使失败的消息可以安全重投。
var AllowedStatusesForAnalysis = map[string]struct{}{
	StatusAnalysisQueued: {},
	StatusAnalysisFailed: {},
}

// IsStatusAllowed 判断状态是否在允许集合内
func IsStatusAllowed(status string, allowed map[string]struct{}) bool {
	_, ok := allowed[status]
	return ok
}
