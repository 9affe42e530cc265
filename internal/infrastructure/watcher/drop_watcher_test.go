package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docqa/backend/internal/infrastructure/config"
)

// recordingIngestor 记录入库调用
type recordingIngestor struct {
	mu    sync.Mutex
	calls []ingestCall
}

type ingestCall struct {
	sessionID string
	path      string
}

func (r *recordingIngestor) IngestPath(_ context.Context, sessionID, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, ingestCall{sessionID: sessionID, path: path})
	return nil
}

func (r *recordingIngestor) snapshot() []ingestCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ingestCall(nil), r.calls...)
}

func TestDropWatcher_Disabled(t *testing.T) {
	dw, err := NewDropWatcher(&config.WatchConfig{Enabled: false}, &recordingIngestor{})
	require.NoError(t, err)

	// 禁用时启动与停止都是空操作
	require.NoError(t, dw.Start())
	dw.Stop()
}

func TestDropWatcher_SessionIDForPath(t *testing.T) {
	dw := &DropWatcher{dir: filepath.Join("/tmp", "drop")}

	assert.Equal(t, "s1", dw.sessionIDForPath(filepath.Join("/tmp", "drop", "s1", "a.txt")))
	// 根目录直属文件不归属任何会话
	assert.Equal(t, "", dw.sessionIDForPath(filepath.Join("/tmp", "drop", "a.txt")))
	// 嵌套过深的文件同样忽略
	assert.Equal(t, "", dw.sessionIDForPath(filepath.Join("/tmp", "drop", "s1", "sub", "a.txt")))
}

func TestDropWatcher_IngestsDroppedFile(t *testing.T) {
	dir := t.TempDir()
	sessionDir := filepath.Join(dir, "session-1")
	require.NoError(t, os.MkdirAll(sessionDir, 0755))

	ingestor := &recordingIngestor{}
	dw, err := NewDropWatcher(&config.WatchConfig{Enabled: true, Dir: dir}, ingestor)
	require.NoError(t, err)
	dw.debounceDelay = 50 * time.Millisecond

	require.NoError(t, dw.Start())
	defer dw.Stop()

	filePath := filepath.Join(sessionDir, "doc.txt")
	require.NoError(t, os.WriteFile(filePath, []byte("天空是蓝色的。"), 0644))

	require.Eventually(t, func() bool {
		return len(ingestor.snapshot()) == 1
	}, 3*time.Second, 20*time.Millisecond)

	calls := ingestor.snapshot()
	assert.Equal(t, "session-1", calls[0].sessionID)
	assert.Equal(t, filePath, calls[0].path)
}

func TestDropWatcher_NewSessionDirPickedUp(t *testing.T) {
	dir := t.TempDir()

	ingestor := &recordingIngestor{}
	dw, err := NewDropWatcher(&config.WatchConfig{Enabled: true, Dir: dir}, ingestor)
	require.NoError(t, err)
	dw.debounceDelay = 50 * time.Millisecond

	require.NoError(t, dw.Start())
	defer dw.Stop()

	// 启动后创建的会话子目录也要被监听到
	sessionDir := filepath.Join(dir, "session-2")
	require.NoError(t, os.Mkdir(sessionDir, 0755))
	time.Sleep(200 * time.Millisecond)

	filePath := filepath.Join(sessionDir, "doc.txt")
	require.NoError(t, os.WriteFile(filePath, []byte("内容"), 0644))

	require.Eventually(t, func() bool {
		return len(ingestor.snapshot()) >= 1
	}, 3*time.Second, 20*time.Millisecond)

	assert.Equal(t, "session-2", ingestor.snapshot()[0].sessionID)
}

func TestDropWatcher_IgnoresHiddenFiles(t *testing.T) {
	dir := t.TempDir()
	sessionDir := filepath.Join(dir, "session-1")
	require.NoError(t, os.MkdirAll(sessionDir, 0755))

	ingestor := &recordingIngestor{}
	dw, err := NewDropWatcher(&config.WatchConfig{Enabled: true, Dir: dir}, ingestor)
	require.NoError(t, err)
	dw.debounceDelay = 50 * time.Millisecond

	require.NoError(t, dw.Start())
	defer dw.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(sessionDir, ".swp"), []byte("tmp"), 0644))
	time.Sleep(300 * time.Millisecond)

	assert.Empty(t, ingestor.snapshot())
}
