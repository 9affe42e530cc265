//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/google/wire"

	"github.com/docqa/backend/internal/application"
	appQA "github.com/docqa/backend/internal/application/qa"
	domainQA "github.com/docqa/backend/internal/domain/qa"
	"github.com/docqa/backend/internal/infrastructure"
	"github.com/docqa/backend/internal/infrastructure/embedding"
	"github.com/docqa/backend/internal/infrastructure/llm"
	"github.com/docqa/backend/internal/infrastructure/vector"
	"github.com/docqa/backend/internal/infrastructure/watcher"
	"github.com/docqa/backend/internal/interfaces"
)

// InitializeAll 初始化所有服务（HTTP + MCP）
func InitializeAll() (*App, error) {
	wire.Build(
		// 按层组合 ProviderSet
		infrastructure.ProviderSet, // 基础设施层
		application.ProviderSet,    // 应用层
		interfaces.ProviderSet,     // 接口层
		// 接口绑定
		wire.Bind(new(domainQA.Embedder), new(*embedding.Client)),
		wire.Bind(new(domainQA.VectorStore), new(*vector.QdrantStore)),
		wire.Bind(new(domainQA.Completer), new(*llm.Client)),
		wire.Bind(new(watcher.DocumentIngestor), new(*appQA.IngestService)),
		NewApp, // 组合所有服务的应用结构
	)
	return nil, nil
}
