package qa

import "github.com/google/wire"

// ProviderSet QA 应用层 ProviderSet
var ProviderSet = wire.NewSet(
	NewChunker,       // 文本分块器
	NewHistoryStore,  // 会话历史存储
	NewIngestService, // 文档入库服务
	NewRetriever,     // 检索器
	NewComposer,      // 提示词组装器
	NewChatService,   // 问答服务
)
