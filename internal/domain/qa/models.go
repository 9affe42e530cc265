package qa

// 核心常量定义
const (
	// VectorDim 嵌入向量维度（固定）
	VectorDim = 1024

	// ChunkSize 目标分块大小（字符数）
	ChunkSize = 1000
	// ChunkOverlap 相邻分块重叠（字符数）
	ChunkOverlap = 200

	// EmbedBatchSize 嵌入批量大小
	EmbedBatchSize = 32

	// RetrieveTopK 检索返回的最大片段数
	RetrieveTopK = 5
	// RetrieveMaxAgeMillis 检索时间窗口：7 天（毫秒）
	RetrieveMaxAgeMillis = int64(7 * 24 * 60 * 60 * 1000)

	// MaxHistoryTurns 每个会话保留的最大对话轮数
	MaxHistoryTurns = 10
	// MaxQuestionChars 历史中保留的问题最大长度
	MaxQuestionChars = 500
	// MaxAnswerChars 历史中保留的回答最大长度
	MaxAnswerChars = 2000

	// MaxChatQuestionChars 聊天接口允许的问题最大长度
	MaxChatQuestionChars = 1000
)

// DocumentChunk 文档分块
// 由 Chunker 产生，向量化后即丢弃，核心只持久化其文本与向量
type DocumentChunk struct {
	Text      string // 分块文本
	Index     int    // 在文档中的位置
	SessionID string // 所属会话 ID
}

// ChunkRecord 写入向量库的记录
// 一次写入后不再修改；只能在所属会话的命名空间内被检索
type ChunkRecord struct {
	ID              string    // UUID，同时作为 Qdrant point_id
	Vector          []float32 // 嵌入向量（维度 VectorDim）
	Text            string    // 原始分块文本
	SessionID       string    // 会话 ID（命名空间）
	DocumentID      string    // 来源文档 ID
	ChunkIndex      int       // 分块索引
	TimestampMillis int64     // 入库时间戳（毫秒），用于时间窗口过滤
}

// ScoredChunk 检索命中的分块
type ScoredChunk struct {
	Text  string  // 分块文本
	Score float32 // 余弦相似度得分
}

// ConversationTurn 一轮对话（问题 + 回答）
type ConversationTurn struct {
	Question string `json:"question"` // 用户问题（截断至 MaxQuestionChars）
	Answer   string `json:"answer"`   // 模型回答（截断至 MaxAnswerChars）
}

// EmbedMode 嵌入意图
type EmbedMode string

const (
	// EmbedModePassage 入库文本（passage 模式）
	EmbedModePassage EmbedMode = "passage"
	// EmbedModeQuery 检索查询（query 模式）
	EmbedModeQuery EmbedMode = "query"
)

// Document 已入库文档的注册信息
type Document struct {
	ID         string // UUID
	SessionID  string // 所属会话
	Filename   string // 原始文件名
	MimeType   string // 声明的 MIME 类型
	SizeBytes  int64  // 原始文件大小
	ChunkCount int    // 产生的分块数
	UploadedAt int64  // 上传时间（Unix 秒）
}
