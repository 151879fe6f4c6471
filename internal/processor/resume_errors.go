package processor

import (
	"errors"
	"fmt"
)

// 处理流水线各阶段的基础错误。调用方用errors.Is按阶段分类处理。
var (
	ErrResumeDownloadFailed = errors.New("下载简历失败")
	ErrExtractTextFailed    = errors.New("提取简历文本失败")
	ErrStoreTextFailed      = errors.New("上传解析文本失败")
	ErrPublishMessageFailed = errors.New("发布消息到分析队列失败")
	ErrUpdateStatusFailed   = errors.New("更新简历状态失败")
	ErrDatabaseFailed       = errors.New("数据库操作失败")
	ErrAnalysisFailed       = errors.New("简历分析失败")
)

// ResumeProcessError 带投递UUID和操作名的处理错误，日志和告警都依赖这两个字段定位。
type ResumeProcessError struct {
	SubmissionUUID string
	Op             string
	BaseErr        error
	Detail         string
}

func (e *ResumeProcessError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (操作:%s, UUID:%s): %s", e.BaseErr, e.Op, e.SubmissionUUID, e.Detail)
	}
	return fmt.Sprintf("%s (操作:%s, UUID:%s)", e.BaseErr, e.Op, e.SubmissionUUID)
}

func (e *ResumeProcessError) Unwrap() error {
	return e.BaseErr
}

// Is 支持errors.Is直接匹配基础错误
func (e *ResumeProcessError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

func newProcessError(uuid, op string, base error, detail string) error {
	return &ResumeProcessError{
		SubmissionUUID: uuid,
		Op:             op,
		BaseErr:        base,
		Detail:         detail,
	}
}

// 各阶段错误构造函数

func NewDownloadError(uuid, detail string) error {
	return newProcessError(uuid, "download", ErrResumeDownloadFailed, detail)
}

func NewExtractError(uuid, detail string) error {
	return newProcessError(uuid, "extract", ErrExtractTextFailed, detail)
}

func NewStoreError(uuid, detail string) error {
	return newProcessError(uuid, "store", ErrStoreTextFailed, detail)
}

func NewPublishError(uuid, detail string) error {
	return newProcessError(uuid, "publish", ErrPublishMessageFailed, detail)
}

func NewUpdateError(uuid, detail string) error {
	return newProcessError(uuid, "update", ErrUpdateStatusFailed, detail)
}

func NewDatabaseError(uuid, detail string) error {
	return newProcessError(uuid, "database", ErrDatabaseFailed, detail)
}

func NewAnalysisError(uuid, detail string) error {
	return newProcessError(uuid, "analysis", ErrAnalysisFailed, detail)
}
