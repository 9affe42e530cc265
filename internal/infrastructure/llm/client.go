package llm

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

// 确保 Client 实现了 domainQA.Completer 接口
var _ domainQA.Completer = (*Client)(nil)

// Client LLM Chat 客户端（OpenAI 兼容 /chat/completions）
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
	logger      *slog.Logger
}

// chatRequest Chat API 请求
type chatRequest struct {
	Model       string                 `json:"model"`
	Messages    []domainQA.ChatMessage `json:"messages"`
	Temperature float64                `json:"temperature"`
	MaxTokens   int                    `json:"max_tokens,omitempty"`
}

// chatResponse Chat API 响应
type chatResponse struct {
	ID      string `json:"id,omitempty"`
	Model   string `json:"model,omitempty"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// NewClient 创建 LLM 客户端
func NewClient(baseURL, apiKey, model string, temperature float64, maxTokens int) *Client {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: log.NewModuleLogger("llm", "client"),
	}
}

// NewClientFromConfig 从应用配置创建 LLM 客户端
func NewClientFromConfig(cfg *config.Config) *Client {
	return NewClient(cfg.LLM.URL, cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.Temperature, cfg.LLM.MaxTokens)
}

// Complete 执行一次补全调用，返回首个 choice 的文本
// 响应缺少补全字段时视为 CompletionError
func (c *Client) Complete(ctx context.Context, messages []domainQA.ChatMessage) (string, error) {
	reqBody := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", &domainQA.CompletionError{Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	url := fmt.Sprintf("%s/chat/completions", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", &domainQA.CompletionError{Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	c.logger.Debug("Sending completion request",
		"url", url,
		"model", c.model,
		"messages", len(messages),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &domainQA.CompletionError{Err: fmt.Errorf("LLM API request failed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", &domainQA.CompletionError{
			Err: fmt.Errorf("LLM API returned status %d: %s", resp.StatusCode, string(body)),
		}
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", &domainQA.CompletionError{Err: fmt.Errorf("failed to decode LLM response: %w", err)}
	}

	if len(chatResp.Choices) == 0 {
		return "", &domainQA.CompletionError{Err: fmt.Errorf("LLM API returned no choices")}
	}

	content := chatResp.Choices[0].Message.Content
	if content == "" {
		return "", &domainQA.CompletionError{Err: fmt.Errorf("LLM API returned empty completion")}
	}

	c.logger.Info("Completion successful",
		"model", c.model,
		"tokens", chatResp.Usage.TotalTokens,
	)

	return content, nil
}

// TestConnection 测试 LLM API 连接
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.Complete(ctx, []domainQA.ChatMessage{
		{Role: "user", Content: "This is a connection test. Reply with OK."},
	})
	if err != nil {
		c.logger.Error("LLM connection test failed", "error", err)
		return err
	}

	c.logger.Info("LLM connection test successful", "model", c.model)
	return nil
}
