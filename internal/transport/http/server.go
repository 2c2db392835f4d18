package httpapi

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"aitrader/internal/logger"
	"aitrader/internal/store/contextlog"
	"aitrader/internal/store/decisionlog"
	"aitrader/internal/strategy"
)

// Server 提供只读的运行状态接口，方便人工盯盘和排查。
type Server struct {
	addr   string
	router *gin.Engine

	mu     sync.RWMutex
	status Status
}

// Status 最近一次决策周期的摘要。
type Status struct {
	Symbol       string                   `json:"symbol"`
	StartedAt    time.Time                `json:"started_at"`
	LastCycleAt  time.Time                `json:"last_cycle_at,omitempty"`
	LastTraceID  string                   `json:"last_trace_id,omitempty"`
	LastDecision strategy.TradingDecision `json:"last_decision,omitempty"`
	LastValid    bool                     `json:"last_valid"`
	CycleCount   int64                    `json:"cycle_count"`
}

type ServerConfig struct {
	Addr      string
	Decisions *decisionlog.Store
	Contexts  *contextlog.Store
	Symbol    string
}

func NewServer(cfg ServerConfig) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":9991"
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	s := &Server{
		addr:   cfg.Addr,
		router: router,
		status: Status{Symbol: cfg.Symbol, StartedAt: time.Now()},
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.GET("/status", func(c *gin.Context) {
		s.mu.RLock()
		st := s.status
		s.mu.RUnlock()
		c.JSON(http.StatusOK, st)
	})
	api.GET("/decisions", func(c *gin.Context) {
		if cfg.Decisions == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "决策日志未启用"})
			return
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		symbol := c.Query("symbol")
		recs, err := cfg.Decisions.ListRecent(c.Request.Context(), symbol, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"decisions": recs})
	})
	api.GET("/context/latest", func(c *gin.Context) {
		if cfg.Contexts == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "上下文日志未启用"})
			return
		}
		symbol := c.DefaultQuery("symbol", cfg.Symbol)
		rec, err := cfg.Contexts.Latest(c.Request.Context(), symbol)
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "暂无记录"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rec)
	})
	api.GET("/context/trace/:trace_id", func(c *gin.Context) {
		if cfg.Contexts == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "上下文日志未启用"})
			return
		}
		rec, err := cfg.Contexts.ByTrace(c.Request.Context(), c.Param("trace_id"))
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "暂无记录"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rec)
	})

	return s
}

// UpdateStatus 由决策循环在每个周期结束时调用。
func (s *Server) UpdateStatus(traceID string, d strategy.TradingDecision, valid bool) {
	s.mu.Lock()
	s.status.LastCycleAt = time.Now()
	s.status.LastTraceID = traceID
	s.status.LastDecision = d
	s.status.LastValid = valid
	s.status.CycleCount++
	s.mu.Unlock()
}

func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.addr
}

// Start 启动 HTTP 服务，直到 ctx 取消或出现错误。
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	srv := &http.Server{Addr: s.addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
		return nil
	case err := <-errCh:
		return err
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debugf("HTTP %s %s status=%d ip=%s dur=%s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), c.ClientIP(), time.Since(start))
	}
}
