package qa

import "fmt"

// 错误分类
// 用户可恢复错误（4xx）：ValidationError / UnsupportedFormatError / EmptyDocumentError
// 外部依赖错误（5xx）：EmbeddingServiceError / StorageWriteError / RetrievalError / CompletionError
// 致命错误：StartupProvisioningError（仅在进程启动时出现，直接终止进程）

// ValidationError 用户输入缺失、超限或格式错误
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NewValidationError 创建输入校验错误
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// UnsupportedFormatError 不在允许列表中的 MIME 类型
type UnsupportedFormatError struct {
	MimeType string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported document format: %s", e.MimeType)
}

// EmptyDocumentError 文档无可提取文本
type EmptyDocumentError struct {
	Filename string
}

func (e *EmptyDocumentError) Error() string {
	return fmt.Sprintf("no extractable text in document: %s", e.Filename)
}

// EmbeddingServiceError 嵌入服务不可达或返回非法载荷
type EmbeddingServiceError struct {
	Err error
}

func (e *EmbeddingServiceError) Error() string {
	return fmt.Sprintf("embedding service error: %v", e.Err)
}

func (e *EmbeddingServiceError) Unwrap() error { return e.Err }

// StorageWriteError 向量库写入失败（不暴露部分成功语义）
type StorageWriteError struct {
	Err error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("vector storage write error: %v", e.Err)
}

func (e *StorageWriteError) Unwrap() error { return e.Err }

// RetrievalError 检索阶段失败（嵌入异常或向量库查询失败）
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval error: %v", e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// CompletionError LLM 补全调用失败或响应缺少补全字段
type CompletionError struct {
	Err error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("completion error: %v", e.Err)
}

func (e *CompletionError) Unwrap() error { return e.Err }

// StartupProvisioningError 启动时向量库集合初始化失败
type StartupProvisioningError struct {
	Err error
}

func (e *StartupProvisioningError) Error() string {
	return fmt.Sprintf("startup provisioning failed: %v", e.Err)
}

func (e *StartupProvisioningError) Unwrap() error { return e.Err }
