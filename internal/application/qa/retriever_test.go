package qa

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domainQA "github.com/docqa/backend/internal/domain/qa"
)

func TestRetriever_Retrieve(t *testing.T) {
	ctx := context.Background()
	queryVector := []float32{0.1, 0.2, 0.3}

	t.Run("返回按相似度排序的片段文本", func(t *testing.T) {
		embedder := new(MockEmbedder)
		embedder.On("Embed", mock.Anything, []string{"问题"}, domainQA.EmbedModeQuery).
			Return([][]float32{queryVector}, nil)

		store := new(MockVectorStore)
		store.On("Query", mock.Anything, "s1", queryVector,
			domainQA.RetrieveTopK, domainQA.RetrieveMaxAgeMillis).
			Return([]*domainQA.ScoredChunk{
				{Text: "最相关", Score: 0.95},
				{Text: "次相关", Score: 0.80},
			}, nil)

		retriever := NewRetriever(embedder, store)
		texts, err := retriever.Retrieve(ctx, "s1", "问题")

		require.NoError(t, err)
		assert.Equal(t, []string{"最相关", "次相关"}, texts)
		embedder.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("无命中时返回空序列而非错误", func(t *testing.T) {
		embedder := new(MockEmbedder)
		embedder.On("Embed", mock.Anything, mock.Anything, domainQA.EmbedModeQuery).
			Return([][]float32{queryVector}, nil)

		store := new(MockVectorStore)
		store.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return([]*domainQA.ScoredChunk{}, nil)

		retriever := NewRetriever(embedder, store)
		texts, err := retriever.Retrieve(ctx, "s1", "问题")

		require.NoError(t, err)
		assert.Empty(t, texts)
	})

	t.Run("嵌入失败归类为检索错误", func(t *testing.T) {
		embedder := new(MockEmbedder)
		embedder.On("Embed", mock.Anything, mock.Anything, domainQA.EmbedModeQuery).
			Return(nil, &domainQA.EmbeddingServiceError{Err: errors.New("down")})

		retriever := NewRetriever(embedder, new(MockVectorStore))
		_, err := retriever.Retrieve(ctx, "s1", "问题")

		var retrievalErr *domainQA.RetrievalError
		require.ErrorAs(t, err, &retrievalErr)
	})

	t.Run("向量数不等于一视为检索错误", func(t *testing.T) {
		embedder := new(MockEmbedder)
		embedder.On("Embed", mock.Anything, mock.Anything, domainQA.EmbedModeQuery).
			Return([][]float32{queryVector, queryVector}, nil)

		retriever := NewRetriever(embedder, new(MockVectorStore))
		_, err := retriever.Retrieve(ctx, "s1", "问题")

		var retrievalErr *domainQA.RetrievalError
		require.ErrorAs(t, err, &retrievalErr)
	})
}
