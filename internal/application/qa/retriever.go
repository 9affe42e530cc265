package qa

import (
	"context"
	"fmt"

	"log/slog"

	domainQA "github.com/docqa/backend/internal/domain/qa"
	"github.com/docqa/backend/internal/infrastructure/log"
)

// Retriever 检索器
// 把问题做 query 模式嵌入，在会话命名空间内按时间窗口取 Top-K 片段
type Retriever struct {
	embedder domainQA.Embedder
	store    domainQA.VectorStore
	logger   *slog.Logger
}

// NewRetriever 创建检索器
func NewRetriever(embedder domainQA.Embedder, store domainQA.VectorStore) *Retriever {
	return &Retriever{
		embedder: embedder,
		store:    store,
		logger:   log.NewModuleLogger("qa", "retriever"),
	}
}

// Retrieve 检索与问题最相关的片段文本
// 无命中时返回空序列而非错误
func (r *Retriever) Retrieve(ctx context.Context, sessionID, question string) ([]string, error) {
	vectors, err := r.embedder.Embed(ctx, []string{question}, domainQA.EmbedModeQuery)
	if err != nil {
		return nil, &domainQA.RetrievalError{Err: err}
	}
	if len(vectors) != 1 {
		return nil, &domainQA.RetrievalError{
			Err: fmt.Errorf("expected 1 query vector, got %d", len(vectors)),
		}
	}

	hits, err := r.store.Query(ctx, sessionID, vectors[0],
		domainQA.RetrieveTopK, domainQA.RetrieveMaxAgeMillis)
	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(hits))
	for _, hit := range hits {
		texts = append(texts, hit.Text)
	}

	r.logger.Debug("Retrieval completed",
		"session_id", sessionID,
		"hits", len(texts),
	)

	return texts, nil
}
