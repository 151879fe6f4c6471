package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// ResumeSubmission 简历提交/快照表
type ResumeSubmission struct {
	SubmissionUUID      string    `gorm:"type:char(36);primaryKey"`
	SubmissionTimestamp time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);index:idx_rs_submission_timestamp"`
	SourceChannel       string    `gorm:"type:varchar(100)"`
	TargetJobRole       string    `gorm:"type:varchar(255);index:idx_rs_target_job_role"`
	OriginalFilename    string    `gorm:"type:varchar(255)"`
	OriginalFilePathOSS string    `gorm:"type:varchar(1024)"`
	ParsedTextPathOSS   string    `gorm:"type:varchar(1024)"`
	FileMD5             string    `gorm:"type:char(32);index:idx_rs_file_md5"`
	RawTextMD5          string    `gorm:"type:char(32);index:idx_rs_raw_text_md5"`
	ProcessingStatus    string    `gorm:"type:varchar(50);default:'PENDING_EXTRACTION';index:idx_rs_processing_status"`
	ParserVersion       string    `gorm:"type:varchar(50)"`
	ErrorMessage        string    `gorm:"type:text"`
	CreatedAt           time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt           time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (ResumeSubmission) TableName() string {
	return "resume_submissions"
}

// AnalysisResult 简历分析结果表：结构化简历、评分报告、角色推断
// 和改进建议都以JSON保存，方便接口层直接回放。
type AnalysisResult struct {
	AnalysisID           uint64         `gorm:"primaryKey;autoIncrement"`
	SubmissionUUID       string         `gorm:"type:char(36);not null;uniqueIndex:idx_ar_submission_uuid"`
	TargetJobRole        string         `gorm:"type:varchar(255)"`
	StructuredResumeJSON datatypes.JSON `gorm:"type:json"`
	JobRequirementJSON   datatypes.JSON `gorm:"type:json"`
	ScoreReportJSON      datatypes.JSON `gorm:"type:json"`
	RoleSuggestionsJSON  datatypes.JSON `gorm:"type:json"`
	ImprovementsJSON     datatypes.JSON `gorm:"type:json"`
	RoadmapJSON          datatypes.JSON `gorm:"type:json"`
	CurrentLevel         string         `gorm:"type:varchar(100)"`
	FinalScore           *float64       `gorm:"type:float;index:idx_ar_final_score"`
	ParserVersion        string         `gorm:"type:varchar(50)"`
	AnalyzedAt           *time.Time     `gorm:"type:datetime(6)"`
	CreatedAt            time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt            time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`

	ResumeSubmission *ResumeSubmission `gorm:"foreignKey:SubmissionUUID;references:SubmissionUUID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (AnalysisResult) TableName() string {
	return "analysis_results"
}

// StringToJSON Helper function to convert string to datatypes.JSON
func StringToJSON(s string) datatypes.JSON {
	return datatypes.JSON(s)
}

// MapToJSON Helper function to convert map[string]interface{} to datatypes.JSON
func MapToJSON(m map[string]interface{}) (datatypes.JSON, error) {
	bytes, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return bytes, nil
}

// ToJSON 把任意可序列化对象转换为datatypes.JSON
func ToJSON(v interface{}) (datatypes.JSON, error) {
	bytes, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes, nil
}
