package qa

import (
	"context"
	"strings"

	"log/slog"

	domainQA "github.com/docqa/backend/internal/domain/qa"
	"github.com/docqa/backend/internal/infrastructure/log"
)

// contextTokenBudget 参考资料部分的 Token 上限
// 超出预算的片段按相关性从低到高丢弃（即保留序列前部）
const contextTokenBudget = 3000

// systemPromptHeader 系统提示词
const systemPromptHeader = `你是一个文档问答助手。请仅根据下方提供的参考资料回答用户的问题。
如果参考资料中没有足够的信息，请明确说明无法从已上传的文档中找到答案，不要编造内容。
回答使用与用户提问相同的语言。`

// Composer 提示词组装器
// 把参考资料、会话历史与当前问题组装为消息序列并调用补全
type Composer struct {
	completer domainQA.Completer
	logger    *slog.Logger
}

// NewComposer 创建组装器
func NewComposer(completer domainQA.Completer) *Composer {
	return &Composer{
		completer: completer,
		logger:    log.NewModuleLogger("qa", "composer"),
	}
}

// Answer 组装提示词并获取回答
func (c *Composer) Answer(ctx context.Context, question string, contextChunks []string, history []domainQA.ConversationTurn) (string, error) {
	messages := c.Compose(question, contextChunks, history)
	return c.completer.Complete(ctx, messages)
}

// Compose 组装发送给 LLM 的消息序列
// 系统消息包含参考资料；历史按时间先后展开为 user/assistant 交替消息；
// 当前问题作为最后一条 user 消息，不做任何改写
func (c *Composer) Compose(question string, contextChunks []string, history []domainQA.ConversationTurn) []domainQA.ChatMessage {
	messages := make([]domainQA.ChatMessage, 0, len(history)*2+2)

	messages = append(messages, domainQA.ChatMessage{
		Role:    "system",
		Content: c.buildSystemPrompt(contextChunks),
	})

	for _, turn := range history {
		messages = append(messages,
			domainQA.ChatMessage{Role: "user", Content: turn.Question},
			domainQA.ChatMessage{Role: "assistant", Content: turn.Answer},
		)
	}

	messages = append(messages, domainQA.ChatMessage{
		Role:    "user",
		Content: question,
	})

	return messages
}

// buildSystemPrompt 构建带参考资料的系统提示词
func (c *Composer) buildSystemPrompt(contextChunks []string) string {
	var sb strings.Builder
	sb.WriteString(systemPromptHeader)
	sb.WriteString("\n\n参考资料：\n")

	chunks := c.budgetChunks(contextChunks)
	if len(chunks) == 0 {
		sb.WriteString("（没有检索到相关资料）")
		return sb.String()
	}

	for i, chunk := range chunks {
		if i > 0 {
			sb.WriteString("\n---\n")
		}
		sb.WriteString(chunk)
	}

	return sb.String()
}

// budgetChunks 按 Token 预算裁剪参考资料
// 片段按相关性降序到达，预算耗尽后丢弃剩余片段
func (c *Composer) budgetChunks(chunks []string) []string {
	counter, err := GetTokenCounter()
	if err != nil {
		// 编码器加载失败时不做裁剪，交给上游模型的截断机制兜底
		c.logger.Warn("Token counter unavailable, skipping context budgeting", "error", err)
		return chunks
	}

	var (
		kept  []string
		total int
	)
	for _, chunk := range chunks {
		tokens := counter.CountTokens(chunk)
		if total+tokens > contextTokenBudget && len(kept) > 0 {
			c.logger.Debug("Context budget exhausted",
				"kept", len(kept),
				"dropped", len(chunks)-len(kept),
			)
			break
		}
		kept = append(kept, chunk)
		total += tokens
	}

	return kept
}
