package qa

import (
	"strings"

	"log/slog"

	domainQA "github.com/docqa/backend/internal/domain/qa"
	"github.com/docqa/backend/internal/infrastructure/log"
)

// 边界搜索只在分块的后半段进行，避免切出过短的分块
const minCutOffset = domainQA.ChunkSize / 2

// 句子结束符（中英文）
var sentenceEnders = map[rune]bool{
	'.': true, '!': true, '?': true,
	'。': true, '！': true, '？': true,
	'\n': true,
}

// Chunker 文本分块器
// 按目标大小滑动切分，优先在段落、句子、词边界断开，相邻分块带重叠
type Chunker struct {
	logger *slog.Logger
}

// NewChunker 创建分块器
func NewChunker() *Chunker {
	return &Chunker{
		logger: log.NewModuleLogger("qa", "chunker"),
	}
}

// Chunk 把文档文本切分为分块序列
// 空白文本返回空序列；非空文本至少产生一个分块
func (c *Chunker) Chunk(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	runes := []rune(text)
	var chunks []string

	start := 0
	for start < len(runes) {
		end := start + domainQA.ChunkSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}

		cut := findCutPoint(runes, start, end)
		chunks = append(chunks, string(runes[start:cut]))

		// 下一分块从重叠位置开始；保证严格前进
		next := cut - domainQA.ChunkOverlap
		if next <= start {
			next = cut
		}
		start = next
	}

	c.logger.Debug("Text chunked",
		"chars", len(runes),
		"chunks", len(chunks),
	)

	return chunks
}

// findCutPoint 在 [start+minCutOffset, end] 范围内寻找最佳切分点
// 优先级：段落边界 > 句子边界 > 词边界 > 硬切分
func findCutPoint(runes []rune, start, end int) int {
	searchStart := start + minCutOffset

	// 段落边界：连续两个换行
	for i := end - 1; i > searchStart; i-- {
		if runes[i] == '\n' && runes[i-1] == '\n' {
			return i + 1
		}
	}

	// 句子边界
	for i := end - 1; i >= searchStart; i-- {
		if sentenceEnders[runes[i]] {
			return i + 1
		}
	}

	// 词边界
	for i := end - 1; i >= searchStart; i-- {
		if runes[i] == ' ' || runes[i] == '\t' {
			return i + 1
		}
	}

	// 硬切分
	return end
}
