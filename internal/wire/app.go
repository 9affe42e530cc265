package wire

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"

	"log/slog"

	applog "github.com/docqa/backend/internal/infrastructure/log"
	"github.com/docqa/backend/internal/infrastructure/vector"
	"github.com/docqa/backend/internal/infrastructure/watcher"
	"github.com/docqa/backend/internal/interfaces"
)

// App 应用主结构，组合所有服务
type App struct {
	HTTPServer  *interfaces.HTTPServer
	MCPServer   *interfaces.MCPServer
	vectorStore *vector.QdrantStore
	dropWatcher *watcher.DropWatcher
	db          *sql.DB
	logger      *slog.Logger
}

// NewApp 创建应用实例
func NewApp(
	httpServer *interfaces.HTTPServer,
	mcpServer *interfaces.MCPServer,
	vectorStore *vector.QdrantStore,
	dropWatcher *watcher.DropWatcher,
	db *sql.DB,
) *App {
	return &App{
		HTTPServer:  httpServer,
		MCPServer:   mcpServer,
		vectorStore: vectorStore,
		dropWatcher: dropWatcher,
		db:          db,
		logger:      applog.NewModuleLogger("app", "main"),
	}
}

// Start 启动所有服务
// listener 为单例锁抢占到的端口；为 nil 时自行监听配置端口
// 向量库集合初始化失败视为致命错误，由调用方终止进程
func (a *App) Start(ctx context.Context, listener net.Listener) error {
	a.logger.Info("Starting docqa backend application")

	if err := a.vectorStore.Provision(ctx); err != nil {
		return err
	}

	if a.dropWatcher != nil {
		if err := a.dropWatcher.Start(); err != nil {
			a.logger.Error("Failed to start drop watcher",
				"error", err,
			)
		}
	}

	// 启动 HTTP 服务器（goroutine）
	go func() {
		var err error
		if listener != nil {
			err = a.HTTPServer.Serve(listener)
		} else {
			err = a.HTTPServer.Start()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("HTTP server exited",
				"error", err,
			)
		}
	}()

	a.logger.Info("Docqa backend application started successfully")

	// MCP 服务器通过 HTTP Handler 提供服务，不需要单独启动
	// 已在 HTTP 服务器中注册 /mcp/sse 端点

	return nil
}

// Stop 停止所有服务
func (a *App) Stop() error {
	a.logger.Info("Stopping docqa backend application")

	if a.dropWatcher != nil {
		a.dropWatcher.Stop()
	}

	if err := a.HTTPServer.Stop(); err != nil {
		a.logger.Error("Failed to stop HTTP server",
			"error", err,
		)
		return err
	}

	if a.vectorStore != nil {
		if err := a.vectorStore.Close(); err != nil {
			a.logger.Error("Failed to close vector store",
				"error", err,
			)
		}
	}

	// 关闭数据库连接
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("Failed to close database connection",
				"error", err,
			)
			return err
		}
	}

	a.logger.Info("Docqa backend application stopped successfully")

	return nil
}
