package qa

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domainQA "github.com/docqa/backend/internal/domain/qa"
)

// newChatServiceForTest 组装带模拟依赖的问答服务
func newChatServiceForTest(embedder *MockEmbedder, store *MockVectorStore, completer *MockCompleter) *ChatService {
	return NewChatService(
		NewRetriever(embedder, store),
		NewComposer(completer),
		NewHistoryStore(),
	)
}

func TestChatService_Chat(t *testing.T) {
	ctx := context.Background()
	queryVector := []float32{0.5, 0.5}

	t.Run("完整管线：检索、补全、写历史", func(t *testing.T) {
		embedder := new(MockEmbedder)
		embedder.On("Embed", mock.Anything, []string{"天空是什么颜色"}, domainQA.EmbedModeQuery).
			Return([][]float32{queryVector}, nil)

		store := new(MockVectorStore)
		store.On("Query", mock.Anything, "s1", queryVector,
			domainQA.RetrieveTopK, domainQA.RetrieveMaxAgeMillis).
			Return([]*domainQA.ScoredChunk{{Text: "天空是蓝色的。", Score: 0.9}}, nil)

		completer := new(MockCompleter)
		completer.On("Complete", mock.Anything, mock.MatchedBy(func(messages []domainQA.ChatMessage) bool {
			// 系统消息包含检索到的片段，最后一条是原始问题
			return strings.Contains(messages[0].Content, "天空是蓝色的。") &&
				messages[len(messages)-1].Content == "天空是什么颜色"
		})).Return("根据文档，天空是蓝色的。", nil)

		service := newChatServiceForTest(embedder, store, completer)
		answer, err := service.Chat(ctx, "s1", "天空是什么颜色")

		require.NoError(t, err)
		assert.Equal(t, "根据文档，天空是蓝色的。", answer)

		// 历史被更新
		turns, err := service.GetHistory("s1")
		require.NoError(t, err)
		require.Len(t, turns, 1)
		assert.Equal(t, "天空是什么颜色", turns[0].Question)
		assert.Equal(t, "根据文档，天空是蓝色的。", turns[0].Answer)
	})

	t.Run("下一轮提问带上历史", func(t *testing.T) {
		embedder := new(MockEmbedder)
		embedder.On("Embed", mock.Anything, mock.Anything, domainQA.EmbedModeQuery).
			Return([][]float32{queryVector}, nil)

		store := new(MockVectorStore)
		store.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return([]*domainQA.ScoredChunk{}, nil)

		completer := new(MockCompleter)
		completer.On("Complete", mock.Anything, mock.Anything).Return("第一个回答", nil).Once()
		completer.On("Complete", mock.Anything, mock.MatchedBy(func(messages []domainQA.ChatMessage) bool {
			// 第二轮应包含第一轮的 user/assistant 消息
			return len(messages) == 4 &&
				messages[1].Content == "第一个问题" &&
				messages[2].Content == "第一个回答"
		})).Return("第二个回答", nil).Once()

		service := newChatServiceForTest(embedder, store, completer)

		_, err := service.Chat(ctx, "s1", "第一个问题")
		require.NoError(t, err)

		answer, err := service.Chat(ctx, "s1", "第二个问题")
		require.NoError(t, err)
		assert.Equal(t, "第二个回答", answer)
		completer.AssertExpectations(t)
	})

	t.Run("补全失败时不写历史", func(t *testing.T) {
		embedder := new(MockEmbedder)
		embedder.On("Embed", mock.Anything, mock.Anything, domainQA.EmbedModeQuery).
			Return([][]float32{queryVector}, nil)

		store := new(MockVectorStore)
		store.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return([]*domainQA.ScoredChunk{}, nil)

		completer := new(MockCompleter)
		completer.On("Complete", mock.Anything, mock.Anything).
			Return("", &domainQA.CompletionError{Err: assert.AnError})

		service := newChatServiceForTest(embedder, store, completer)
		_, err := service.Chat(ctx, "s1", "问题")

		var completionErr *domainQA.CompletionError
		require.ErrorAs(t, err, &completionErr)

		turns, err := service.GetHistory("s1")
		require.NoError(t, err)
		assert.Empty(t, turns)
	})

	t.Run("输入校验", func(t *testing.T) {
		service := newChatServiceForTest(new(MockEmbedder), new(MockVectorStore), new(MockCompleter))

		var validationErr *domainQA.ValidationError

		_, err := service.Chat(ctx, "", "问题")
		require.ErrorAs(t, err, &validationErr)

		_, err = service.Chat(ctx, "s1", "   ")
		require.ErrorAs(t, err, &validationErr)

		tooLong := strings.Repeat("问", domainQA.MaxChatQuestionChars+1)
		_, err = service.Chat(ctx, "s1", tooLong)
		require.ErrorAs(t, err, &validationErr)
	})
}
