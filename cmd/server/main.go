package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/docqa/backend/internal/infrastructure/config"
	applog "github.com/docqa/backend/internal/infrastructure/log"
	"github.com/docqa/backend/internal/infrastructure/singleton"
	"github.com/docqa/backend/internal/wire"
)

func main() {
	// 初始化日志系统
	applog.Init(nil)

	// 加载配置获取端口
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	port := cfg.Server.HTTPPort

	// 单例锁检查：尝试获取端口锁
	listener, err := singleton.CheckAndLock(port)
	if err != nil {
		log.Fatalf("单例锁检查失败: %v", err)
	}
	if listener == nil {
		// 已有实例运行，直接退出
		log.Println("检测到已有实例在运行，当前进程退出")
		os.Exit(0)
	}

	// Wire 自动生成的初始化函数
	app, err := wire.InitializeAll()
	if err != nil {
		applog.GetLogger().Error("Failed to initialize application",
			"error", err,
		)
		listener.Close()
		os.Exit(1)
	}

	// 启动所有服务，HTTP 服务复用单例锁持有的 listener
	// 启动期错误（含向量库集合初始化失败）直接终止进程
	if err := app.Start(context.Background(), listener); err != nil {
		applog.GetLogger().Error("Failed to start application",
			"error", err,
		)
		listener.Close()
		os.Exit(1)
	}

	// 优雅关闭
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	applog.GetLogger().Info("Shutting down application...")
	if err := app.Stop(); err != nil {
		applog.GetLogger().Error("Error during application shutdown",
			"error", err,
		)
	}
	applog.GetLogger().Info("Application stopped")
}
