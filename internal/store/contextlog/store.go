package contextlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Store 保存每个决策周期渲染后的市场上下文文本，用于审计和回放。
// 上下文和决策日志分库，避免大文本拖慢决策表的查询。
type Store struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
}

// Record 一条渲染结果。ContextText 是喂给模型的完整中文文档。
type Record struct {
	ID          int64  `json:"id"`
	TraceID     string `json:"trace_id"`
	Timestamp   int64  `json:"ts"`
	Symbol      string `json:"symbol"`
	ContextText string `json:"context_text"`
}

func NewStore(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("context log path 不能为空")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(2)
	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, path: path}, nil
}

func ensureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS context_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			trace_id TEXT,
			ts INTEGER NOT NULL,
			symbol TEXT NOT NULL,
			context_text TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_context_logs_symbol_ts ON context_logs(symbol, ts DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_context_logs_trace ON context_logs(trace_id);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("初始化 context_logs 失败: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) Insert(ctx context.Context, traceID, symbol, contextText string) error {
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()
	if db == nil {
		return fmt.Errorf("context log store 已关闭")
	}
	now := time.Now().Unix()
	_, err := db.ExecContext(ctx,
		`INSERT INTO context_logs (trace_id, ts, symbol, context_text, created_at) VALUES (?, ?, ?, ?, ?)`,
		traceID, now, symbol, contextText, now)
	return err
}

// Latest 取某 symbol 最近一条渲染结果；没有记录时返回 sql.ErrNoRows。
func (s *Store) Latest(ctx context.Context, symbol string) (Record, error) {
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()
	if db == nil {
		return Record{}, fmt.Errorf("context log store 已关闭")
	}
	row := db.QueryRowContext(ctx,
		`SELECT id, trace_id, ts, symbol, context_text FROM context_logs WHERE symbol = ? ORDER BY ts DESC, id DESC LIMIT 1`,
		symbol)
	var rec Record
	if err := row.Scan(&rec.ID, &rec.TraceID, &rec.Timestamp, &rec.Symbol, &rec.ContextText); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// ByTrace 按 trace_id 取回渲染结果，配合决策日志做完整回放。
func (s *Store) ByTrace(ctx context.Context, traceID string) (Record, error) {
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()
	if db == nil {
		return Record{}, fmt.Errorf("context log store 已关闭")
	}
	row := db.QueryRowContext(ctx,
		`SELECT id, trace_id, ts, symbol, context_text FROM context_logs WHERE trace_id = ? ORDER BY id DESC LIMIT 1`,
		traceID)
	var rec Record
	if err := row.Scan(&rec.ID, &rec.TraceID, &rec.Timestamp, &rec.Symbol, &rec.ContextText); err != nil {
		return Record{}, err
	}
	return rec, nil
}
