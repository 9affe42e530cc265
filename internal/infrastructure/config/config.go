package config

// Config 应用配置
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Embedding EmbeddingConfig
	LLM       LLMConfig
	Qdrant    QdrantConfig
	Upload    UploadConfig
	Watch     WatchConfig
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTPPort string // 固定端口，用于单例锁；MCP 端点复用此端口
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Path string // 留空表示使用数据目录下的 docqa.db
}

// EmbeddingConfig 嵌入服务配置
type EmbeddingConfig struct {
	URL    string // OpenAI 兼容 API 地址
	APIKey string // 留空时从 DOCQA_EMBEDDING_API_KEY 读取
	Model  string // 模型名称
}

// LLMConfig LLM Chat 服务配置
type LLMConfig struct {
	URL         string  // OpenAI 兼容 API 地址
	APIKey      string  // 留空时从 DOCQA_LLM_API_KEY 读取
	Model       string  // 模型名称
	Temperature float64 // 采样温度
	MaxTokens   int     // 最大生成 token 数
}

// QdrantConfig 向量库配置
type QdrantConfig struct {
	Host       string // Qdrant 主机
	GRPCPort   int    // gRPC 端口
	Collection string // 集合名
	// SettleDelayMillis 集合创建后的稳定等待时间（毫秒）
	SettleDelayMillis int
}

// UploadConfig 上传限制配置
type UploadConfig struct {
	MaxFileSizeBytes int64 // 单文件大小上限
}

// WatchConfig 文档目录监听配置
// 放入 <Dir>/<sessionID>/ 下的文件会被自动摄取到对应会话
type WatchConfig struct {
	Enabled bool
	Dir     string // 留空表示禁用
}

// NewConfig 创建配置（默认值）
func NewConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: ":18830",
		},
		Database: DatabaseConfig{
			Path: "",
		},
		Embedding: EmbeddingConfig{
			URL:   "https://api.openai.com/v1",
			Model: "text-embedding-3-large",
		},
		LLM: LLMConfig{
			URL:         "https://api.openai.com/v1",
			Model:       "gpt-4o-mini",
			Temperature: 0.2,
			MaxTokens:   1024,
		},
		Qdrant: QdrantConfig{
			Host:              "localhost",
			GRPCPort:          6334,
			Collection:        "qa_chunks",
			SettleDelayMillis: 1500,
		},
		Upload: UploadConfig{
			MaxFileSizeBytes: 20 << 20, // 20 MiB
		},
		Watch: WatchConfig{
			Enabled: false,
			Dir:     "",
		},
	}
}

// NewDatabaseConfig 创建数据库配置
func NewDatabaseConfig(cfg *Config) *DatabaseConfig {
	return &cfg.Database
}

// NewServerConfig 创建服务器配置
func NewServerConfig(cfg *Config) *ServerConfig {
	return &cfg.Server
}

// NewQdrantConfig 创建向量库配置
func NewQdrantConfig(cfg *Config) *QdrantConfig {
	return &cfg.Qdrant
}

// NewUploadConfig 创建上传配置
func NewUploadConfig(cfg *Config) *UploadConfig {
	return &cfg.Upload
}

// NewWatchConfig 创建监听配置
func NewWatchConfig(cfg *Config) *WatchConfig {
	return &cfg.Watch
}
