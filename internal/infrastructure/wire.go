package infrastructure

import (
	"github.com/google/wire"

	"github.com/docqa/backend/internal/infrastructure/config"
	"github.com/docqa/backend/internal/infrastructure/embedding"
	"github.com/docqa/backend/internal/infrastructure/extract"
	"github.com/docqa/backend/internal/infrastructure/llm"
	"github.com/docqa/backend/internal/infrastructure/storage"
	"github.com/docqa/backend/internal/infrastructure/vector"
	"github.com/docqa/backend/internal/infrastructure/watcher"
)

// ProviderSet Infrastructure 层总 ProviderSet
var ProviderSet = wire.NewSet(
	config.ProviderSet,
	storage.ProviderSet,
	embedding.ProviderSet,
	llm.ProviderSet,
	vector.ProviderSet,
	extract.ProviderSet,
	watcher.ProviderSet,
)
