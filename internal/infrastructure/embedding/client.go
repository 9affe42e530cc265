package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"log/slog"

	domainQA "github.com/docqa/backend/internal/domain/qa"
	"github.com/docqa/backend/internal/infrastructure/config"
	"github.com/docqa/backend/internal/infrastructure/log"
)

// Client Embedding API 客户端
// 批量切分对调用方透明：输出始终与输入一一对应且保持顺序
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient 创建 Embedding 客户端
func NewClient(baseURL, apiKey, model string) *Client {
	// 规范化 baseURL：移除末尾斜杠
	normalizedURL := strings.TrimSuffix(baseURL, "/")

	return &Client{
		baseURL: normalizedURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: log.NewModuleLogger("embedding", "client"),
	}
}

// NewClientFromConfig 从应用配置创建 Embedding 客户端
func NewClientFromConfig(cfg *config.Config) *Client {
	return NewClient(cfg.Embedding.URL, cfg.Embedding.APIKey, cfg.Embedding.Model)
}

// buildEmbeddingURL 构建 Embedding API URL
// 支持多种输入格式，智能拼接 /v1/embeddings 路径
func buildEmbeddingURL(baseURL string) string {
	// 1. 如果已经包含完整路径 /v1/embeddings，直接使用
	if strings.Contains(baseURL, "/v1/embeddings") {
		return baseURL
	}

	// 2. 如果以 /v1 结尾，只追加 /embeddings
	if strings.HasSuffix(baseURL, "/v1") {
		return baseURL + "/embeddings"
	}

	// 3. 如果以 /v1/ 结尾，追加 embeddings
	if strings.HasSuffix(baseURL, "/v1/") {
		return baseURL + "embeddings"
	}

	// 4. 其他情况，追加完整的 /v1/embeddings
	return fmt.Sprintf("%s/v1/embeddings", baseURL)
}

// embeddingRequest Embedding 请求
// truncate=END：超长输入由服务端截断尾部，属于已知的精度损耗而非硬错误
type embeddingRequest struct {
	Model     string   `json:"model"`
	Input     []string `json:"input"`
	InputType string   `json:"input_type,omitempty"`
	Truncate  string   `json:"truncate,omitempty"`
}

// Embed 批量向量化文本
// mode 区分入库（passage）与检索（query）两种意图
func (c *Client) Embed(ctx context.Context, texts []string, mode domainQA.EmbedMode) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, &domainQA.EmbeddingServiceError{Err: fmt.Errorf("texts cannot be empty")}
	}

	allVectors := make([][]float32, 0, len(texts))

	for i := 0; i < len(texts); i += domainQA.EmbedBatchSize {
		end := i + domainQA.EmbedBatchSize
		if end > len(texts) {
			end = len(texts)
		}

		batch := texts[i:end]
		vectors, err := c.embedBatch(ctx, batch, mode)
		if err != nil {
			c.logger.Error("Failed to embed batch",
				"batch_start", i,
				"batch_size", len(batch),
				"mode", string(mode),
				"error", err,
			)
			return nil, err
		}

		allVectors = append(allVectors, vectors...)
	}

	if len(allVectors) != len(texts) {
		return nil, &domainQA.EmbeddingServiceError{
			Err: fmt.Errorf("vector count %d does not match input count %d", len(allVectors), len(texts)),
		}
	}

	c.logger.Debug("Embedded texts",
		"count", len(allVectors),
		"mode", string(mode),
	)

	return allVectors, nil
}

// embedBatch 处理单个批次（不做重试，失败直接上抛）
func (c *Client) embedBatch(ctx context.Context, texts []string, mode domainQA.EmbedMode) ([][]float32, error) {
	reqBody := embeddingRequest{
		Model:     c.model,
		Input:     texts,
		InputType: string(mode),
		Truncate:  "END",
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &domainQA.EmbeddingServiceError{Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	url := buildEmbeddingURL(c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, &domainQA.EmbeddingServiceError{Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domainQA.EmbeddingServiceError{Err: fmt.Errorf("request failed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domainQA.EmbeddingServiceError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &domainQA.EmbeddingServiceError{
			Err: fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body)),
		}
	}

	vectors, err := decodeEmbeddingPayload(body, len(texts))
	if err != nil {
		return nil, &domainQA.EmbeddingServiceError{Err: err}
	}

	return vectors, nil
}

// wrappedEmbeddingResponse 对象形式的响应：{"data": [{"embedding"|"values": [...], "index": n}]}
type wrappedEmbeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Values    []float32 `json:"values"`
		Index     *int      `json:"index"`
	} `json:"data"`
}

// decodeEmbeddingPayload 解码 Embedding 响应
// 只接受两种形态：裸数组 [[...]] 或带 data 数组的对象；其余一律硬失败
func decodeEmbeddingPayload(body []byte, expected int) ([][]float32, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty embedding response")
	}

	switch trimmed[0] {
	case '[':
		// 形态一：裸向量数组
		var bare [][]float32
		if err := json.Unmarshal(trimmed, &bare); err != nil {
			return nil, fmt.Errorf("malformed embedding array: %w", err)
		}
		if len(bare) != expected {
			return nil, fmt.Errorf("embedding array length %d does not match input count %d", len(bare), expected)
		}
		return bare, nil

	case '{':
		// 形态二：带 data 数组的对象
		var wrapped wrappedEmbeddingResponse
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, fmt.Errorf("malformed embedding object: %w", err)
		}
		if wrapped.Data == nil {
			return nil, fmt.Errorf("embedding object missing data array")
		}
		if len(wrapped.Data) != expected {
			return nil, fmt.Errorf("embedding data length %d does not match input count %d", len(wrapped.Data), expected)
		}

		vectors := make([][]float32, expected)
		for i, item := range wrapped.Data {
			values := item.Embedding
			if len(values) == 0 {
				values = item.Values
			}
			if len(values) == 0 {
				return nil, fmt.Errorf("embedding record %d has no vector values", i)
			}

			// 有 index 字段时按 index 回填，保证顺序与输入对齐
			pos := i
			if item.Index != nil {
				pos = *item.Index
			}
			if pos < 0 || pos >= expected {
				return nil, fmt.Errorf("embedding record index %d out of range", pos)
			}
			vectors[pos] = values
		}

		for i, v := range vectors {
			if v == nil {
				return nil, fmt.Errorf("embedding response missing vector for input %d", i)
			}
		}
		return vectors, nil

	default:
		return nil, fmt.Errorf("unrecognized embedding response shape")
	}
}

// TestConnection 测试 Embedding API 连接
func (c *Client) TestConnection(ctx context.Context) error {
	vectors, err := c.Embed(ctx, []string{"connection test"}, domainQA.EmbedModeQuery)
	if err != nil {
		c.logger.Error("Embedding API connection test failed", "error", err)
		return err
	}

	c.logger.Info("Embedding API connection test successful",
		"vector_dimension", len(vectors[0]),
	)

	return nil
}
