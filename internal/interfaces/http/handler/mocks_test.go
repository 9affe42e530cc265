package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	appQA "github.com/docqa/backend/internal/application/qa"
	domainQA "github.com/docqa/backend/internal/domain/qa"
	"github.com/docqa/backend/internal/infrastructure/config"
	"github.com/docqa/backend/internal/infrastructure/extract"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockEmbedder 模拟 Embedder
type MockEmbedder struct {
	mock.Mock
}

func (m *MockEmbedder) Embed(ctx context.Context, texts []string, mode domainQA.EmbedMode) ([][]float32, error) {
	args := m.Called(ctx, texts, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

// MockVectorStore 模拟 VectorStore
type MockVectorStore struct {
	mock.Mock
}

func (m *MockVectorStore) Upsert(ctx context.Context, sessionID string, records []*domainQA.ChunkRecord) error {
	args := m.Called(ctx, sessionID, records)
	return args.Error(0)
}

func (m *MockVectorStore) Query(ctx context.Context, sessionID string, vector []float32, topK int, maxAgeMillis int64) ([]*domainQA.ScoredChunk, error) {
	args := m.Called(ctx, sessionID, vector, topK, maxAgeMillis)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domainQA.ScoredChunk), args.Error(1)
}

// MockCompleter 模拟 Completer
type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, messages []domainQA.ChatMessage) (string, error) {
	args := m.Called(ctx, messages)
	return args.String(0), args.Error(1)
}

// MockDocumentRepository 模拟 DocumentRepository
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) SaveDocument(doc *domainQA.Document) error {
	args := m.Called(doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) GetDocumentsBySession(sessionID string) ([]*domainQA.Document, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domainQA.Document), args.Error(1)
}

func (m *MockDocumentRepository) CountDocuments(sessionID string) (int, error) {
	args := m.Called(sessionID)
	return args.Int(0), args.Error(1)
}

func (m *MockDocumentRepository) DeleteDocumentsBySession(sessionID string) error {
	args := m.Called(sessionID)
	return args.Error(0)
}

// testServices 组装真实服务与模拟依赖
type testServices struct {
	embedder  *MockEmbedder
	store     *MockVectorStore
	completer *MockCompleter
	docs      *MockDocumentRepository
	ingest    *appQA.IngestService
	chat      *appQA.ChatService
}

func newTestServices() *testServices {
	embedder := new(MockEmbedder)
	store := new(MockVectorStore)
	completer := new(MockCompleter)
	docs := new(MockDocumentRepository)

	ingest := appQA.NewIngestService(
		extract.NewExtractor(),
		appQA.NewChunker(),
		embedder,
		store,
		docs,
		&config.UploadConfig{MaxFileSizeBytes: 20 << 20},
	)
	chat := appQA.NewChatService(
		appQA.NewRetriever(embedder, store),
		appQA.NewComposer(completer),
		appQA.NewHistoryStore(),
	)

	return &testServices{
		embedder:  embedder,
		store:     store,
		completer: completer,
		docs:      docs,
		ingest:    ingest,
		chat:      chat,
	}
}
