package constants

// Redis Key 前缀和格式常量
// 使用统一的命名规范: app:{module}:{entity}:{unique_id}
const (
	// AppPrefix 是所有Redis Key的统一应用前缀
	AppPrefix = "app"

	// FileModulePrefix 文件模块
	FileModulePrefix = "file"
	// AnalysisModulePrefix 分析模块
	AnalysisModulePrefix = "analysis"

	// EntityDedupSet 去重集合实体
	EntityDedupSet = "dedup_set"
	// EntityResult 分析结果实体
	EntityResult = "result"
	// EntityLock 分布式锁实体
	EntityLock = "lock"

	// KeyFileMD5Set 原始文件MD5集合，用于上传去重 (SET)
	// 格式: app:file:dedup_set
	KeyFileMD5Set = AppPrefix + ":" + FileModulePrefix + ":" + EntityDedupSet

	// KeyTextMD5Set 抽取文本MD5集合，用于同文异档去重 (SET)
	// 格式: app:file:dedup_set:text
	KeyTextMD5Set = AppPrefix + ":" + FileModulePrefix + ":" + EntityDedupSet + ":text"

	// KeyAnalysisResult 分析结果缓存 (STRING, JSON)
	// 格式: app:analysis:result:{submissionUUID}
	KeyAnalysisResult = AppPrefix + ":" + AnalysisModulePrefix + ":" + EntityResult + ":%s"

	// KeyAnalysisLock 单个提交的分析锁，防止消费者重复分析 (STRING)
	// 格式: app:analysis:lock:{submissionUUID}
	KeyAnalysisLock = AppPrefix + ":" + AnalysisModulePrefix + ":" + EntityLock + ":%s"

	// KeyFileMD5ToSubmissionUUID 文件MD5到首次提交UUID的映射 (STRING)
	// 去重命中时可直接告知调用方原始提交ID
	// 格式: app:file:md5_to_submission:{md5}
	KeyFileMD5ToSubmissionUUID = AppPrefix + ":" + FileModulePrefix + ":md5_to_submission:%s"
)
