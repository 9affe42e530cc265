package handler

import (
	"errors"
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"

	domainQA "github.com/docqa/backend/internal/domain/qa"
	"github.com/docqa/backend/internal/interfaces/http/response"
)

// errorStatus 把领域错误映射为 HTTP 状态码与对外消息
// 用户可恢复错误返回 4xx 并携带原因；依赖错误只返回通用 500，
// 具体原因记入服务端日志，避免把内部拓扑泄露给调用方
func errorStatus(c *gin.Context, logger *slog.Logger, err error) (int, string) {
	var (
		validationErr  *domainQA.ValidationError
		unsupportedErr *domainQA.UnsupportedFormatError
		emptyErr       *domainQA.EmptyDocumentError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Msg

	case errors.As(err, &unsupportedErr):
		return http.StatusUnsupportedMediaType, unsupportedErr.Error()

	case errors.As(err, &emptyErr):
		return http.StatusUnprocessableEntity, emptyErr.Error()

	default:
		logger.Error("Request failed",
			"path", c.FullPath(),
			"error", err,
		)
		return http.StatusInternalServerError, "internal server error"
	}
}

// writeError 以统一响应封装返回错误（会话查询等内部端点）
func writeError(c *gin.Context, logger *slog.Logger, err error) {
	status, msg := errorStatus(c, logger, err)
	response.Error(c, status, status, msg)
}
