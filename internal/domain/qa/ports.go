package qa

import "context"

// Embedder 文本向量化接口
// 输出与输入一一对应且保持顺序；批量切分对调用方透明
type Embedder interface {
	Embed(ctx context.Context, texts []string, mode EmbedMode) ([][]float32, error)
}

// VectorStore 会话隔离的向量存储接口
// 所有读写都严格限定在 sessionID 对应的命名空间内
type VectorStore interface {
	// Upsert 将记录写入会话命名空间；部分失败按整体失败处理
	Upsert(ctx context.Context, sessionID string, records []*ChunkRecord) error

	// Query 在会话命名空间内检索，只返回 maxAgeMillis 时间窗口内的记录
	// 按相似度降序，截断至 topK；无匹配时返回空序列而非错误
	Query(ctx context.Context, sessionID string, vector []float32, topK int, maxAgeMillis int64) ([]*ScoredChunk, error)
}

// Completer LLM 补全接口
type Completer interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}

// ChatMessage 发送给 LLM 的单条消息
type ChatMessage struct {
	Role    string `json:"role"`    // system / user / assistant
	Content string `json:"content"` // 消息内容
}
