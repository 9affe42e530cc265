package handler

import (
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"

	appQA "github.com/docqa/backend/internal/application/qa"
	"github.com/docqa/backend/internal/infrastructure/log"
)

// ChatHandler 问答处理器
type ChatHandler struct {
	chatService *appQA.ChatService
	logger      *slog.Logger
}

// NewChatHandler 创建问答处理器
func NewChatHandler(chatService *appQA.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      log.NewModuleLogger("http", "chat_handler"),
	}
}

// ChatRequest 问答请求
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
}

// ChatResponse 问答响应
type ChatResponse struct {
	SessionID string `json:"session_id"`
	Response  string `json:"response"`
}

// Chat 处理一次提问
// POST /api/v1/chat
// 成功返回 { session_id, response }；失败返回 { error }
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer, err := h.chatService.Chat(c.Request.Context(), req.SessionID, req.Question)
	if err != nil {
		status, msg := errorStatus(c, h.logger, err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, ChatResponse{SessionID: req.SessionID, Response: answer})
}
