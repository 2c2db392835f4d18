package decisionlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"aitrader/internal/strategy"
)

// Store 管理 AI 决策日志，方便后续排查/可视化。
type Store struct {
	db *gorm.DB
}

// Record 是写入时的业务层视图，Model 字段在入库前序列化。
type Record struct {
	TraceID         string
	Decision        strategy.TradingDecision
	Valid           bool
	ValidationError string
}

func NewStore(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("decision log path 不能为空")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&DecisionModel{}); err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite + WAL：给 HTTP 读留一点并发，写仍然串行。
	sqlDB.SetMaxOpenConns(2)
	sqlDB.SetMaxIdleConns(2)
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SQLDB 暴露底层连接，供共享同一 SQLite 文件的组件复用。
func (s *Store) SQLDB() (*sql.DB, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("decision log store 未初始化")
	}
	return s.db.DB()
}

func (s *Store) Insert(ctx context.Context, rec Record) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("decision log store 未初始化")
	}
	m, err := newDecisionModel(rec)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(&m).Error
}

// ListRecent 按时间倒序返回最近的决策记录。
func (s *Store) ListRecent(ctx context.Context, symbol string, limit int) ([]DecisionModel, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("decision log store 未初始化")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := s.db.WithContext(ctx).Model(&DecisionModel{})
	if symbol != "" {
		q = q.Where("symbol = ?", symbol)
	}
	var out []DecisionModel
	if err := q.Order("ts DESC, id DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// CountFallbacks 统计窗口内的降级次数，用于状态接口的健康展示。
func (s *Store) CountFallbacks(ctx context.Context, since time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("decision log store 未初始化")
	}
	var n int64
	err := s.db.WithContext(ctx).
		Model(&DecisionModel{}).
		Where("is_fallback = ? AND ts >= ?", true, since.Unix()).
		Count(&n).Error
	return n, err
}

func newDecisionModel(rec Record) (DecisionModel, error) {
	d := rec.Decision
	now := time.Now()
	m := DecisionModel{
		TraceID:         rec.TraceID,
		Timestamp:       now.Unix(),
		Symbol:          d.Symbol,
		Action:          d.Action,
		Confidence:      d.Confidence,
		Leverage:        d.Leverage,
		PositionSizePct: d.PositionSizePct,
		StopLossPct:     d.StopLossPct,
		TakeProfitPct:   d.TakeProfitPct,
		Reasoning:       d.Reasoning,
		Model:           d.Model,
		RawResponse:     d.RawResponse,
		IsFallback:      d.IsFallback,
		Valid:           rec.Valid,
		ValidationError: rec.ValidationError,
		CreatedAtUnix:   now.Unix(),
	}
	if d.Analysis != nil {
		raw, err := json.Marshal(d.Analysis)
		if err != nil {
			return DecisionModel{}, fmt.Errorf("序列化 analysis 失败: %w", err)
		}
		m.AnalysisJSON = datatypes.JSON(raw)
	}
	if len(d.Metadata) > 0 {
		raw, err := json.Marshal(d.Metadata)
		if err != nil {
			return DecisionModel{}, fmt.Errorf("序列化 metadata 失败: %w", err)
		}
		m.MetadataJSON = datatypes.JSON(raw)
	}
	return m, nil
}
