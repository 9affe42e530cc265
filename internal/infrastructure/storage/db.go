package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/docqa/backend/internal/infrastructure/config"
)

// ResolveDBPath 计算数据库文件路径
// 配置留空时使用数据目录下的 docqa.db
func ResolveDBPath(cfg *config.DatabaseConfig) string {
	if cfg != nil && cfg.Path != "" {
		return cfg.Path
	}
	return filepath.Join(config.GetDataDir(), "docqa.db")
}

// OpenDB 打开数据库连接并初始化表结构
func OpenDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	dbPath := ResolveDBPath(cfg)

	// 确保目录存在
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// 测试连接
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// initSchema 初始化表结构
func initSchema(db *sql.DB) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS qa_documents (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		filename TEXT NOT NULL,
		mime_type TEXT NOT NULL,
		size_bytes INTEGER NOT NULL,
		chunk_count INTEGER NOT NULL,
		uploaded_at INTEGER NOT NULL
	);`

	if _, err := db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to create qa_documents table: %w", err)
	}

	createIndexSQL := `
	CREATE INDEX IF NOT EXISTS idx_qa_documents_session ON qa_documents(session_id);`

	if _, err := db.Exec(createIndexSQL); err != nil {
		return fmt.Errorf("failed to create qa_documents index: %w", err)
	}

	return nil
}

// ProvideDB 提供数据库连接（wire provider）
func ProvideDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	return OpenDB(cfg)
}
