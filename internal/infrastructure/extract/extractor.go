package extract

import (
	"strings"

	"log/slog"

	domainQA "github.com/docqa/backend/internal/domain/qa"
	"github.com/docqa/backend/internal/infrastructure/log"
)

// 允许的 MIME 类型
const (
	MimeText = "text/plain"
	MimePDF  = "application/pdf"
	MimeCSV  = "text/csv"
	MimeXLS  = "application/vnd.ms-excel"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Extractor 文档文本提取器
// 按声明的 MIME 类型分发到具体格式的提取实现
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor 创建提取器
func NewExtractor() *Extractor {
	return &Extractor{
		logger: log.NewModuleLogger("extract", "extractor"),
	}
}

// IsSupported 检查 MIME 类型是否在允许列表中
func IsSupported(mimeType string) bool {
	switch normalizeMime(mimeType) {
	case MimeText, MimePDF, MimeCSV, MimeXLS, MimeDOCX:
		return true
	}
	return false
}

// Extract 从文档字节中提取纯文本
// 不支持的类型返回 UnsupportedFormatError；无可提取文本返回 EmptyDocumentError
func (e *Extractor) Extract(data []byte, mimeType, filename string) (string, error) {
	var (
		text string
		err  error
	)

	switch normalizeMime(mimeType) {
	case MimeText:
		text, err = extractPlainText(data)
	case MimeCSV:
		text, err = extractCSV(data)
	case MimePDF:
		text, err = extractPDF(data)
	case MimeXLS:
		text, err = extractXLS(data)
	case MimeDOCX:
		text, err = extractDOCX(data)
	default:
		return "", &domainQA.UnsupportedFormatError{MimeType: mimeType}
	}

	if err != nil {
		e.logger.Error("Text extraction failed",
			"mime_type", mimeType,
			"filename", filename,
			"error", err,
		)
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", &domainQA.EmptyDocumentError{Filename: filename}
	}

	e.logger.Debug("Text extracted",
		"mime_type", mimeType,
		"filename", filename,
		"chars", len(text),
	)

	return text, nil
}

// MimeForExtension 根据文件扩展名推断 MIME 类型
// 未知扩展名返回空字符串
func MimeForExtension(ext string) string {
	switch strings.ToLower(ext) {
	case ".txt", ".md", ".log":
		return MimeText
	case ".pdf":
		return MimePDF
	case ".csv":
		return MimeCSV
	case ".xls":
		return MimeXLS
	case ".docx":
		return MimeDOCX
	}
	return ""
}

// normalizeMime 去掉参数部分并统一小写（如 "text/plain; charset=utf-8"）
func normalizeMime(mimeType string) string {
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = mimeType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}
