package qa

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainQA "github.com/docqa/backend/internal/domain/qa"
)

func TestChunker_Chunk(t *testing.T) {
	chunker := NewChunker()

	t.Run("空文本返回空序列", func(t *testing.T) {
		assert.Empty(t, chunker.Chunk(""))
		assert.Empty(t, chunker.Chunk("   \n\t  "))
	})

	t.Run("短文本产生单个分块", func(t *testing.T) {
		text := "这是一段很短的文本。"
		chunks := chunker.Chunk(text)
		require.Len(t, chunks, 1)
		assert.Equal(t, text, chunks[0])
	})

	t.Run("长文本产生多个分块且不超过目标大小", func(t *testing.T) {
		text := strings.Repeat("word ", 600) // 3000 字符
		chunks := chunker.Chunk(text)

		assert.GreaterOrEqual(t, len(chunks), 2)
		for _, chunk := range chunks {
			assert.LessOrEqual(t, len([]rune(chunk)), domainQA.ChunkSize)
		}
	})

	t.Run("相邻分块带重叠", func(t *testing.T) {
		text := strings.Repeat("word ", 600)
		chunks := chunker.Chunk(text)
		require.GreaterOrEqual(t, len(chunks), 2)

		// 前一分块的尾部应与后一分块的头部重叠
		prev := []rune(chunks[0])
		next := []rune(chunks[1])
		overlap := string(prev[len(prev)-domainQA.ChunkOverlap:])
		assert.Equal(t, overlap, string(next[:domainQA.ChunkOverlap]))
	})

	t.Run("优先在段落边界切分", func(t *testing.T) {
		para1 := strings.Repeat("a", 700)
		para2 := strings.Repeat("b", 700)
		text := para1 + "\n\n" + para2

		chunks := chunker.Chunk(text)
		require.GreaterOrEqual(t, len(chunks), 2)
		// 第一个分块应该在段落边界处结束，不含第二段内容
		assert.NotContains(t, chunks[0], "b")
	})

	t.Run("无边界时硬切分", func(t *testing.T) {
		text := strings.Repeat("x", 2500)
		chunks := chunker.Chunk(text)

		assert.GreaterOrEqual(t, len(chunks), 2)
		assert.Equal(t, domainQA.ChunkSize, len([]rune(chunks[0])))
	})
}
