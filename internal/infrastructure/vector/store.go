package vector

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	domainQA "github.com/docqa/backend/internal/domain/qa"
	"github.com/docqa/backend/internal/infrastructure/config"
	"github.com/docqa/backend/internal/infrastructure/log"
	"github.com/qdrant/go-client/qdrant"
)

// 确保 QdrantStore 实现了 domainQA.VectorStore 接口
var _ domainQA.VectorStore = (*QdrantStore)(nil)

// QdrantStore 会话隔离的 Qdrant 向量存储
// 所有点都带 session_id 和 timestamp_ms 载荷，检索时按两者过滤
type QdrantStore struct {
	client      *qdrant.Client
	collection  string
	settleDelay time.Duration
	logger      *slog.Logger
}

// NewQdrantStore 创建 Qdrant 存储
func NewQdrantStore(cfg *config.QdrantConfig) (*QdrantStore, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: cfg.Host,
		Port: cfg.GRPCPort,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to qdrant: %w", err)
	}

	return &QdrantStore{
		client:      client,
		collection:  cfg.Collection,
		settleDelay: time.Duration(cfg.SettleDelayMillis) * time.Millisecond,
		logger:      log.NewModuleLogger("vector", "qdrant_store"),
	}, nil
}

// Provision 确保集合存在（幂等）
// 新建集合后等待一个稳定窗口再投入使用；失败属于致命启动错误
func (s *QdrantStore) Provision(ctx context.Context) error {
	existing, err := s.client.ListCollections(ctx)
	if err != nil {
		return &domainQA.StartupProvisioningError{Err: fmt.Errorf("failed to list collections: %w", err)}
	}

	for _, name := range existing {
		if name == s.collection {
			s.logger.Debug("Collection already provisioned", "collection", s.collection)
			return nil
		}
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(domainQA.VectorDim),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return &domainQA.StartupProvisioningError{Err: fmt.Errorf("failed to create collection %s: %w", s.collection, err)}
	}

	s.logger.Info("Collection created",
		"collection", s.collection,
		"dimension", domainQA.VectorDim,
	)

	// 集合创建后的稳定等待
	if s.settleDelay > 0 {
		time.Sleep(s.settleDelay)
	}

	return nil
}

// Upsert 将记录写入会话命名空间
// 不暴露部分成功语义：任何失败都按整体失败处理
func (s *QdrantStore) Upsert(ctx context.Context, sessionID string, records []*domainQA.ChunkRecord) error {
	if len(records) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, len(records))
	for i, rec := range records {
		// 命名空间归属校验：拒绝写入其他会话的记录
		if rec.SessionID != sessionID {
			return &domainQA.StorageWriteError{
				Err: fmt.Errorf("record %s belongs to session %s, not %s", rec.ID, rec.SessionID, sessionID),
			}
		}

		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(rec.ID),
			Vectors: qdrant.NewVectors(rec.Vector...),
			Payload: qdrant.NewValueMap(map[string]interface{}{
				"session_id":   rec.SessionID,
				"text":         rec.Text,
				"timestamp_ms": rec.TimestampMillis,
				"chunk_index":  rec.ChunkIndex,
				"document_id":  rec.DocumentID,
			}),
		}
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
	})
	if err != nil {
		return &domainQA.StorageWriteError{Err: fmt.Errorf("failed to upsert %d points: %w", len(points), err)}
	}

	s.logger.Debug("Upserted points",
		"session_id", sessionID,
		"count", len(points),
	)

	return nil
}

// Query 在会话命名空间内按时间窗口检索
// 无匹配返回空序列而非错误
func (s *QdrantStore) Query(ctx context.Context, sessionID string, vector []float32, topK int, maxAgeMillis int64) ([]*domainQA.ScoredChunk, error) {
	if topK <= 0 {
		topK = domainQA.RetrieveTopK
	}

	limit := uint64(topK)
	hits, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
		Filter:         buildSessionWindowFilter(sessionID, maxAgeMillis, time.Now()),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, &domainQA.RetrievalError{Err: fmt.Errorf("failed to query qdrant: %w", err)}
	}

	results := make([]*domainQA.ScoredChunk, 0, len(hits))
	for _, hit := range hits {
		payload := hit.GetPayload()
		if payload == nil {
			continue
		}

		text := ""
		if val, ok := payload["text"]; ok {
			text = extractStringValue(val)
		}
		if text == "" {
			continue
		}

		results = append(results, &domainQA.ScoredChunk{
			Text:  text,
			Score: hit.GetScore(),
		})
	}

	s.logger.Debug("Query completed",
		"session_id", sessionID,
		"hits", len(results),
	)

	return results, nil
}

// buildSessionWindowFilter 构建会话 + 时间窗口过滤条件
// 过期的点仍留在索引中，只是不可检索；清理交由运维侧的 purge 任务
func buildSessionWindowFilter(sessionID string, maxAgeMillis int64, now time.Time) *qdrant.Filter {
	cutoff := float64(now.UnixMilli() - maxAgeMillis)

	return &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("session_id", sessionID),
			qdrant.NewRange("timestamp_ms", &qdrant.Range{
				Gte: &cutoff,
			}),
		},
	}
}

// extractStringValue 从 qdrant.Value 提取字符串值
func extractStringValue(val *qdrant.Value) string {
	if val == nil {
		return ""
	}
	return val.GetStringValue()
}

// Close 关闭底层连接
func (s *QdrantStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
