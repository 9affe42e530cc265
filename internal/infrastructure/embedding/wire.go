package embedding

import "github.com/google/wire"

// ProviderSet 嵌入客户端 ProviderSet
var ProviderSet = wire.NewSet(
	NewClientFromConfig,
)
