package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigManager 配置文件管理器
// 将用户可修改的配置持久化到 <dataDir>/config.json
// 也接受手工维护的 <dataDir>/config.yaml（json 优先）
type ConfigManager struct {
	configPath string
}

// NewConfigManager 创建配置管理器
func NewConfigManager() *ConfigManager {
	return &ConfigManager{
		configPath: resolveConfigPath(GetDataDir()),
	}
}

// resolveConfigPath 确定配置文件路径
func resolveConfigPath(dataDir string) string {
	jsonPath := filepath.Join(dataDir, "config.json")
	if _, err := os.Stat(jsonPath); err == nil {
		return jsonPath
	}
	yamlPath := filepath.Join(dataDir, "config.yaml")
	if _, err := os.Stat(yamlPath); err == nil {
		return yamlPath
	}
	return jsonPath
}

// Load 读取配置
// 文件不存在时返回默认配置；API Key 允许用环境变量覆盖
func (m *ConfigManager) Load() (*Config, error) {
	cfg := NewConfig()

	if _, err := os.Stat(m.configPath); err == nil {
		data, err := os.ReadFile(m.configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := unmarshalConfig(m.configPath, data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// marshalConfig 按扩展名序列化配置内容
func marshalConfig(path string, cfg *Config) ([]byte, error) {
	if strings.EqualFold(filepath.Ext(path), ".yaml") || strings.EqualFold(filepath.Ext(path), ".yml") {
		return yaml.Marshal(cfg)
	}
	return json.MarshalIndent(cfg, "", "  ")
}

// unmarshalConfig 按扩展名解析配置内容
func unmarshalConfig(path string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".yaml") || strings.EqualFold(filepath.Ext(path), ".yml") {
		return yaml.Unmarshal(data, cfg)
	}
	return json.Unmarshal(data, cfg)
}

// Save 写入配置文件
// API Key 不落盘，只保留在环境变量中
func (m *ConfigManager) Save(cfg *Config) error {
	copied := *cfg
	copied.Embedding.APIKey = ""
	copied.LLM.APIKey = ""

	if err := os.MkdirAll(filepath.Dir(m.configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := marshalConfig(m.configPath, &copied)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnvOverrides 应用环境变量覆盖
func applyEnvOverrides(cfg *Config) {
	if key := os.Getenv("DOCQA_EMBEDDING_API_KEY"); key != "" {
		cfg.Embedding.APIKey = key
	}
	if key := os.Getenv("DOCQA_LLM_API_KEY"); key != "" {
		cfg.LLM.APIKey = key
	}
	if url := os.Getenv("DOCQA_EMBEDDING_URL"); url != "" {
		cfg.Embedding.URL = url
	}
	if url := os.Getenv("DOCQA_LLM_URL"); url != "" {
		cfg.LLM.URL = url
	}
	if host := os.Getenv("DOCQA_QDRANT_HOST"); host != "" {
		cfg.Qdrant.Host = host
	}
}

// LoadConfig wire provider：加载持久化配置
func LoadConfig() (*Config, error) {
	return NewConfigManager().Load()
}
