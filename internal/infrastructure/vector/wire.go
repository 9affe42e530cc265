package vector

import "github.com/google/wire"

// ProviderSet 向量存储 ProviderSet
var ProviderSet = wire.NewSet(
	NewQdrantStore,
)
