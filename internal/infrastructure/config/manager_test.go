package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestManager 在临时数据目录下创建管理器
func newTestManager(t *testing.T) (*ConfigManager, string) {
	t.Helper()

	dir := t.TempDir()
	t.Setenv(EnvDataDir, dir)
	ResetDataDir()
	t.Cleanup(ResetDataDir)

	return NewConfigManager(), dir
}

func TestConfigManager_Load(t *testing.T) {
	t.Run("无配置文件时返回默认值", func(t *testing.T) {
		manager, _ := newTestManager(t)

		cfg, err := manager.Load()
		require.NoError(t, err)
		assert.Equal(t, ":18830", cfg.Server.HTTPPort)
		assert.Equal(t, "qa_chunks", cfg.Qdrant.Collection)
		assert.Equal(t, int64(20<<20), cfg.Upload.MaxFileSizeBytes)
	})

	t.Run("读取 JSON 配置", func(t *testing.T) {
		_, dir := newTestManager(t)
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, "config.json"),
			[]byte(`{"Qdrant":{"Host":"qdrant.internal"}}`),
			0644,
		))

		// 重新创建以让文件探测生效
		cfg, err := NewConfigManager().Load()
		require.NoError(t, err)
		assert.Equal(t, "qdrant.internal", cfg.Qdrant.Host)
		// 未覆盖的字段保留默认值
		assert.Equal(t, 6334, cfg.Qdrant.GRPCPort)
	})

	t.Run("读取 YAML 配置", func(t *testing.T) {
		_, dir := newTestManager(t)
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, "config.yaml"),
			[]byte("server:\n  httpport: \":19000\"\nllm:\n  model: gpt-4o\n"),
			0644,
		))

		cfg, err := NewConfigManager().Load()
		require.NoError(t, err)
		assert.Equal(t, ":19000", cfg.Server.HTTPPort)
		assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	})

	t.Run("JSON 优先于 YAML", func(t *testing.T) {
		_, dir := newTestManager(t)
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, "config.json"),
			[]byte(`{"LLM":{"Model":"from-json"}}`), 0644))
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, "config.yaml"),
			[]byte("llm:\n  model: from-yaml\n"), 0644))

		cfg, err := NewConfigManager().Load()
		require.NoError(t, err)
		assert.Equal(t, "from-json", cfg.LLM.Model)
	})

	t.Run("环境变量覆盖 API Key", func(t *testing.T) {
		manager, _ := newTestManager(t)
		t.Setenv("DOCQA_EMBEDDING_API_KEY", "embed-key")
		t.Setenv("DOCQA_LLM_API_KEY", "llm-key")
		t.Setenv("DOCQA_QDRANT_HOST", "qdrant.env")

		cfg, err := manager.Load()
		require.NoError(t, err)
		assert.Equal(t, "embed-key", cfg.Embedding.APIKey)
		assert.Equal(t, "llm-key", cfg.LLM.APIKey)
		assert.Equal(t, "qdrant.env", cfg.Qdrant.Host)
	})

	t.Run("非法 JSON 报错", func(t *testing.T) {
		_, dir := newTestManager(t)
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, "config.json"), []byte("{broken"), 0644))

		_, err := NewConfigManager().Load()
		assert.Error(t, err)
	})
}

func TestConfigManager_Save(t *testing.T) {
	t.Run("API Key 不落盘", func(t *testing.T) {
		manager, dir := newTestManager(t)

		cfg := NewConfig()
		cfg.Embedding.APIKey = "secret-embed"
		cfg.LLM.APIKey = "secret-llm"
		cfg.LLM.Model = "gpt-4o"
		require.NoError(t, manager.Save(cfg))

		data, err := os.ReadFile(filepath.Join(dir, "config.json"))
		require.NoError(t, err)
		assert.NotContains(t, string(data), "secret-embed")
		assert.NotContains(t, string(data), "secret-llm")
		assert.Contains(t, string(data), "gpt-4o")

		// 内存中的原配置不受影响
		assert.Equal(t, "secret-embed", cfg.Embedding.APIKey)
	})

	t.Run("保存后可回读", func(t *testing.T) {
		manager, _ := newTestManager(t)

		cfg := NewConfig()
		cfg.Server.HTTPPort = ":19001"
		require.NoError(t, manager.Save(cfg))

		loaded, err := NewConfigManager().Load()
		require.NoError(t, err)
		assert.Equal(t, ":19001", loaded.Server.HTTPPort)
	})
}
