package handler

import (
	"io"
	"net/http"
	"path/filepath"

	"log/slog"

	"github.com/gin-gonic/gin"

	appQA "github.com/docqa/backend/internal/application/qa"
	"github.com/docqa/backend/internal/infrastructure/extract"
	"github.com/docqa/backend/internal/infrastructure/log"
)

// UploadHandler 文档上传处理器
type UploadHandler struct {
	ingestService *appQA.IngestService
	logger        *slog.Logger
}

// NewUploadHandler 创建上传处理器
func NewUploadHandler(ingestService *appQA.IngestService) *UploadHandler {
	return &UploadHandler{
		ingestService: ingestService,
		logger:        log.NewModuleLogger("http", "upload_handler"),
	}
}

// UploadResponse 上传响应
type UploadResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	DocumentID string `json:"document_id,omitempty"`
	ChunkCount int    `json:"chunk_count,omitempty"`
}

// Upload 处理文档上传
// POST /api/v1/documents/upload（multipart：file + session_id）
// 成功返回 { success: true, ... }；失败返回 { success: false, message }
func (h *UploadHandler) Upload(c *gin.Context) {
	sessionID := c.PostForm("session_id")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, UploadResponse{Success: false, Message: "file is required"})
		return
	}

	// 优先使用上传方声明的 MIME 类型，缺失或通用类型时按扩展名推断
	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = extract.MimeForExtension(filepath.Ext(fileHeader.Filename))
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, UploadResponse{Success: false, Message: "failed to open uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, UploadResponse{Success: false, Message: "failed to read uploaded file"})
		return
	}

	result, err := h.ingestService.IngestDocument(
		c.Request.Context(), sessionID, fileHeader.Filename, mimeType, data)
	if err != nil {
		status, msg := errorStatus(c, h.logger, err)
		c.JSON(status, UploadResponse{Success: false, Message: msg})
		return
	}

	c.JSON(http.StatusOK, UploadResponse{
		Success:    true,
		Message:    "document ingested",
		DocumentID: result.DocumentID,
		ChunkCount: result.ChunkCount,
	})
}
