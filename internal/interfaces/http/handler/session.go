package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	appQA "github.com/docqa/backend/internal/application/qa"
	domainQA "github.com/docqa/backend/internal/domain/qa"
	"github.com/docqa/backend/internal/infrastructure/log"
	"github.com/docqa/backend/internal/interfaces/http/response"
)

// SessionHandler 会话查询处理器
type SessionHandler struct {
	chatService   *appQA.ChatService
	ingestService *appQA.IngestService
	logger        *slog.Logger
}

// NewSessionHandler 创建会话查询处理器
func NewSessionHandler(chatService *appQA.ChatService, ingestService *appQA.IngestService) *SessionHandler {
	return &SessionHandler{
		chatService:   chatService,
		ingestService: ingestService,
		logger:        log.NewModuleLogger("http", "session_handler"),
	}
}

// History 查询会话历史
// GET /api/v1/sessions/:sessionId/history
func (h *SessionHandler) History(c *gin.Context) {
	sessionID := c.Param("sessionId")

	turns, err := h.chatService.GetHistory(sessionID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if turns == nil {
		turns = []domainQA.ConversationTurn{}
	}

	response.Success(c, gin.H{
		"session_id": sessionID,
		"turns":      turns,
		"count":      len(turns),
	})
}

// DocumentDTO 文档清单条目
type DocumentDTO struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	MimeType   string `json:"mime_type"`
	SizeBytes  int64  `json:"size_bytes"`
	ChunkCount int    `json:"chunk_count"`
	UploadedAt int64  `json:"uploaded_at"`
}

// Documents 查询会话的文档清单
// GET /api/v1/sessions/:sessionId/documents
func (h *SessionHandler) Documents(c *gin.Context) {
	sessionID := c.Param("sessionId")

	docs, err := h.ingestService.ListDocuments(sessionID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	items := make([]DocumentDTO, 0, len(docs))
	for _, doc := range docs {
		items = append(items, DocumentDTO{
			ID:         doc.ID,
			Filename:   doc.Filename,
			MimeType:   doc.MimeType,
			SizeBytes:  doc.SizeBytes,
			ChunkCount: doc.ChunkCount,
			UploadedAt: doc.UploadedAt,
		})
	}

	response.Success(c, gin.H{
		"session_id": sessionID,
		"documents":  items,
		"count":      len(items),
	})
}
