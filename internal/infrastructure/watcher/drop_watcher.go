package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/docqa/backend/internal/infrastructure/config"
	"github.com/docqa/backend/internal/infrastructure/log"
)

// DocumentIngestor 文档入库回调
// 由应用层实现，watcher 只负责发现文件
type DocumentIngestor interface {
	// IngestPath 读取本地文件并入库到指定会话
	IngestPath(ctx context.Context, sessionID, path string) error
}

// DropWatcher 投递目录监听器
// 监听投递根目录，放入 <dir>/<sessionID>/ 下的文件自动入库到对应会话
type DropWatcher struct {
	dir      string
	enabled  bool
	ingestor DocumentIngestor
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	// 防抖相关（文件写入往往分多次事件到达）
	debounceTimers map[string]*time.Timer
	debounceMu     sync.Mutex
	debounceDelay  time.Duration

	// 控制
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewDropWatcher 创建投递目录监听器
func NewDropWatcher(cfg *config.WatchConfig, ingestor DocumentIngestor) (*DropWatcher, error) {
	dw := &DropWatcher{
		dir:            cfg.Dir,
		enabled:        cfg.Enabled && cfg.Dir != "",
		ingestor:       ingestor,
		logger:         log.NewModuleLogger("watcher", "drop_watcher"),
		debounceTimers: make(map[string]*time.Timer),
		debounceDelay:  500 * time.Millisecond,
		stopCh:         make(chan struct{}),
	}

	if !dw.enabled {
		return dw, nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dw.watcher = watcher

	return dw, nil
}

// Start 启动监听
func (dw *DropWatcher) Start() error {
	if !dw.enabled {
		dw.logger.Debug("Drop watcher disabled")
		return nil
	}

	// 确保投递根目录存在
	if err := os.MkdirAll(dw.dir, 0755); err != nil {
		return err
	}

	dw.logger.Info("Starting drop watcher", "dir", dw.dir)

	// 添加根目录及已有的会话子目录
	if err := dw.watcher.Add(dw.dir); err != nil {
		return err
	}
	dw.addExistingSessionDirs()

	dw.wg.Add(1)
	go dw.watchLoop()

	return nil
}

// Stop 停止监听
func (dw *DropWatcher) Stop() {
	if !dw.enabled {
		return
	}

	dw.logger.Info("Stopping drop watcher")

	close(dw.stopCh)
	dw.watcher.Close()
	dw.wg.Wait()

	// 取消所有防抖定时器
	dw.debounceMu.Lock()
	for _, timer := range dw.debounceTimers {
		timer.Stop()
	}
	dw.debounceMu.Unlock()

	dw.logger.Info("Drop watcher stopped")
}

// addExistingSessionDirs 把已存在的会话子目录加入监听
func (dw *DropWatcher) addExistingSessionDirs() {
	entries, err := os.ReadDir(dw.dir)
	if err != nil {
		dw.logger.Warn("Failed to read drop directory", "error", err)
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		sessionDir := filepath.Join(dw.dir, entry.Name())
		if err := dw.watcher.Add(sessionDir); err != nil {
			dw.logger.Debug("Failed to watch session directory",
				"path", sessionDir,
				"error", err,
			)
		} else {
			dw.logger.Debug("Watching session directory", "path", sessionDir)
		}
	}
}

// watchLoop 事件监听循环
func (dw *DropWatcher) watchLoop() {
	defer dw.wg.Done()

	for {
		select {
		case <-dw.stopCh:
			return

		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			dw.handleFsEvent(event)

		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			dw.logger.Error("Watcher error", "error", err)
		}
	}
}

// handleFsEvent 处理文件系统事件
func (dw *DropWatcher) handleFsEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	// 忽略隐藏文件（编辑器临时文件等）
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return
	}

	// 根目录下新建的会话子目录需要加入监听
	if info.IsDir() {
		if event.Has(fsnotify.Create) && filepath.Dir(event.Name) == dw.dir {
			if err := dw.watcher.Add(event.Name); err == nil {
				dw.logger.Debug("Watching session directory", "path", event.Name)
			}
		}
		return
	}

	// 只处理会话子目录下的文件
	sessionID := dw.sessionIDForPath(event.Name)
	if sessionID == "" {
		return
	}

	dw.scheduleIngest(sessionID, event.Name)
}

// sessionIDForPath 解析文件所属的会话 ID
// 输入 <dir>/<sessionID>/<file>，输出 sessionID；根目录直属文件返回空
func (dw *DropWatcher) sessionIDForPath(path string) string {
	parent := filepath.Dir(path)
	if filepath.Dir(parent) != dw.dir {
		return ""
	}
	return filepath.Base(parent)
}

// scheduleIngest 带防抖的入库调度
func (dw *DropWatcher) scheduleIngest(sessionID, path string) {
	dw.debounceMu.Lock()
	defer dw.debounceMu.Unlock()

	if timer, exists := dw.debounceTimers[path]; exists {
		timer.Stop()
	}

	dw.debounceTimers[path] = time.AfterFunc(dw.debounceDelay, func() {
		dw.debounceMu.Lock()
		delete(dw.debounceTimers, path)
		dw.debounceMu.Unlock()

		dw.ingest(sessionID, path)
	})
}

// ingest 执行入库
func (dw *DropWatcher) ingest(sessionID, path string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := dw.ingestor.IngestPath(ctx, sessionID, path); err != nil {
		dw.logger.Error("Failed to ingest dropped file",
			"session_id", sessionID,
			"path", path,
			"error", err,
		)
		return
	}

	dw.logger.Info("Dropped file ingested",
		"session_id", sessionID,
		"path", path,
	)
}
