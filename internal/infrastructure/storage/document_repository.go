package storage

import (
	"database/sql"
	"fmt"

	domainQA "github.com/docqa/backend/internal/domain/qa"
)

// 确保 DocumentRepository 实现了 domainQA.DocumentRepository 接口
var _ domainQA.DocumentRepository = (*DocumentRepository)(nil)

// DocumentRepository 文档登记仓库实现
type DocumentRepository struct {
	db *sql.DB
}

// NewDocumentRepository 创建文档仓库实例
func NewDocumentRepository(db *sql.DB) domainQA.DocumentRepository {
	return &DocumentRepository{
		db: db,
	}
}

// SaveDocument 保存文档登记记录
func (r *DocumentRepository) SaveDocument(doc *domainQA.Document) error {
	query := `
		INSERT OR REPLACE INTO qa_documents (
			id, session_id, filename, mime_type, size_bytes, chunk_count, uploaded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.Exec(
		query,
		doc.ID,
		doc.SessionID,
		doc.Filename,
		doc.MimeType,
		doc.SizeBytes,
		doc.ChunkCount,
		doc.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}

	return nil
}

// GetDocumentsBySession 获取会话的全部文档记录（按上传时间排序）
func (r *DocumentRepository) GetDocumentsBySession(sessionID string) ([]*domainQA.Document, error) {
	query := `
		SELECT id, session_id, filename, mime_type, size_bytes, chunk_count, uploaded_at
		FROM qa_documents
		WHERE session_id = ?
		ORDER BY uploaded_at ASC`

	rows, err := r.db.Query(query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []*domainQA.Document
	for rows.Next() {
		var doc domainQA.Document
		if err := rows.Scan(
			&doc.ID,
			&doc.SessionID,
			&doc.Filename,
			&doc.MimeType,
			&doc.SizeBytes,
			&doc.ChunkCount,
			&doc.UploadedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, &doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}

	return docs, nil
}

// CountDocuments 统计会话的文档数
func (r *DocumentRepository) CountDocuments(sessionID string) (int, error) {
	query := `SELECT COUNT(*) FROM qa_documents WHERE session_id = ?`

	var count int
	if err := r.db.QueryRow(query, sessionID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}

	return count, nil
}

// DeleteDocumentsBySession 删除会话的全部文档记录
func (r *DocumentRepository) DeleteDocumentsBySession(sessionID string) error {
	query := `DELETE FROM qa_documents WHERE session_id = ?`

	if _, err := r.db.Exec(query, sessionID); err != nil {
		return fmt.Errorf("failed to delete documents: %w", err)
	}

	return nil
}
