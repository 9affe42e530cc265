package qa

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	domainQA "github.com/docqa/backend/internal/domain/qa"
	"github.com/docqa/backend/internal/infrastructure/config"
	"github.com/docqa/backend/internal/infrastructure/extract"
	"github.com/docqa/backend/internal/infrastructure/log"
	"github.com/docqa/backend/internal/infrastructure/watcher"
)

// 确保 IngestService 可作为投递目录的入库回调
var _ watcher.DocumentIngestor = (*IngestService)(nil)

// IngestResult 入库结果
type IngestResult struct {
	DocumentID string `json:"document_id"` // 文档 ID
	Filename   string `json:"filename"`    // 原始文件名
	ChunkCount int    `json:"chunk_count"` // 产生的分块数
}

// IngestService 文档入库服务
// 提取文本、分块、passage 模式嵌入、写入会话命名空间，并登记文档
type IngestService struct {
	extractor *extract.Extractor
	chunker   *Chunker
	embedder  domainQA.Embedder
	store     domainQA.VectorStore
	docs      domainQA.DocumentRepository
	maxBytes  int64
	logger    *slog.Logger
}

// NewIngestService 创建入库服务
func NewIngestService(
	extractor *extract.Extractor,
	chunker *Chunker,
	embedder domainQA.Embedder,
	store domainQA.VectorStore,
	docs domainQA.DocumentRepository,
	uploadCfg *config.UploadConfig,
) *IngestService {
	return &IngestService{
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		store:     store,
		docs:      docs,
		maxBytes:  uploadCfg.MaxFileSizeBytes,
		logger:    log.NewModuleLogger("qa", "ingest_service"),
	}
}

// IngestDocument 入库一份文档
// 管线任何一步失败都不登记文档；向量写入失败按整体失败处理
func (s *IngestService) IngestDocument(ctx context.Context, sessionID, filename, mimeType string, data []byte) (*IngestResult, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, domainQA.NewValidationError("session_id is required")
	}
	if len(data) == 0 {
		return nil, domainQA.NewValidationError("document is empty")
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, domainQA.NewValidationError("document exceeds size limit of %d bytes", s.maxBytes)
	}

	text, err := s.extractor.Extract(data, mimeType, filename)
	if err != nil {
		return nil, err
	}

	chunks := s.chunker.Chunk(text)
	if len(chunks) == 0 {
		return nil, &domainQA.EmptyDocumentError{Filename: filename}
	}

	vectors, err := s.embedder.Embed(ctx, chunks, domainQA.EmbedModePassage)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(chunks) {
		return nil, &domainQA.EmbeddingServiceError{
			Err: fmt.Errorf("expected %d vectors, got %d", len(chunks), len(vectors)),
		}
	}

	documentID := uuid.New().String()
	now := time.Now()

	records := make([]*domainQA.ChunkRecord, len(chunks))
	for i, chunk := range chunks {
		records[i] = &domainQA.ChunkRecord{
			ID:              uuid.New().String(),
			Vector:          vectors[i],
			Text:            chunk,
			SessionID:       sessionID,
			DocumentID:      documentID,
			ChunkIndex:      i,
			TimestampMillis: now.UnixMilli(),
		}
	}

	if err := s.store.Upsert(ctx, sessionID, records); err != nil {
		return nil, err
	}

	// 登记失败只记录日志，向量已经落库，入库本身算成功
	if err := s.docs.SaveDocument(&domainQA.Document{
		ID:         documentID,
		SessionID:  sessionID,
		Filename:   filename,
		MimeType:   mimeType,
		SizeBytes:  int64(len(data)),
		ChunkCount: len(chunks),
		UploadedAt: now.Unix(),
	}); err != nil {
		s.logger.Error("Failed to register document",
			"document_id", documentID,
			"session_id", sessionID,
			"error", err,
		)
	}

	s.logger.Info("Document ingested",
		"document_id", documentID,
		"session_id", sessionID,
		"filename", filename,
		"chunks", len(chunks),
	)

	return &IngestResult{
		DocumentID: documentID,
		Filename:   filename,
		ChunkCount: len(chunks),
	}, nil
}

// IngestPath 从本地路径入库（投递目录回调）
// MIME 类型按扩展名推断，未知扩展名返回 UnsupportedFormatError
func (s *IngestService) IngestPath(ctx context.Context, sessionID, path string) error {
	ext := filepath.Ext(path)
	mimeType := extract.MimeForExtension(ext)
	if mimeType == "" {
		return &domainQA.UnsupportedFormatError{MimeType: ext}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read dropped file: %w", err)
	}

	_, err = s.IngestDocument(ctx, sessionID, filepath.Base(path), mimeType, data)
	return err
}

// ListDocuments 获取会话的文档清单
func (s *IngestService) ListDocuments(sessionID string) ([]*domainQA.Document, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, domainQA.NewValidationError("session_id is required")
	}
	return s.docs.GetDocumentsBySession(sessionID)
}
