package qa

// DocumentRepository 文档注册表接口
// 每次成功上传写入一条记录，用于会话内文档清单展示与审计
type DocumentRepository interface {
	SaveDocument(doc *Document) error
	GetDocumentsBySession(sessionID string) ([]*Document, error)
	CountDocuments(sessionID string) (int, error)
	DeleteDocumentsBySession(sessionID string) error
}
