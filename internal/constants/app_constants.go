package constants

import "time"

const (
	// Application-level constants
	DefaultParserVer = "1.0"
	DefaultScorerVer = "1.0"

	// 请求体大小上限
	MaxResumeBytes = 2 << 20 // 简历原始文件
	MaxJobBytes    = 1 << 20 // 岗位描述文本

	// Redis键前缀
	EmbeddingCachePrefix = "emb:"        // 嵌入向量缓存, key = emb:<sha256(model+text)>
	ParsedDocPrefix      = "doc:"        // 解析后的文档JSON, key = doc:<doc_uuid>
	DocOwnerSetPrefix    = "doc_owner:"  // 客户端持有的文档集合, key = doc_owner:<client_id>
	MatchResultPrefix    = "match:"      // 匹配结果JSON, key = match:<match_uuid>

	// 缓存与留存时长
	EmbeddingCacheTTL = 7 * 24 * time.Hour // 嵌入向量缓存过期时间
	UnsavedDocTTL     = 10 * time.Minute   // 未授权保存的文档留存时间
	SavedDocTTL       = 24 * time.Hour     // 授权保存文档在工作存储中的留存时间

	// RabbitMQ 匹配事件
	MatchEventsExchange      = "match.events"
	MatchCompletedRoutingKey = "match.completed"
)
