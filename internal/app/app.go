package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"aitrader/internal/analysis/indicator"
	"aitrader/internal/config"
	"aitrader/internal/feature"
	"aitrader/internal/gateway/binance"
	"aitrader/internal/gateway/notifier"
	"aitrader/internal/gateway/provider"
	"aitrader/internal/logger"
	"aitrader/internal/scheduler"
	"aitrader/internal/store/contextlog"
	"aitrader/internal/store/decisionlog"
	"aitrader/internal/strategy"
	httpapi "aitrader/internal/transport/http"
)

// App 负责应用级编排：初始化依赖 → 启动 HTTP 服务与决策循环。
type App struct {
	cfg     *config.Config
	source  *binance.Source
	builder *feature.Builder
	engine  *strategy.Engine
	risk    *config.RiskProvider

	decisions *decisionlog.Store
	contexts  *contextlog.Store
	httpSrv   *httpapi.Server
	telegram  *notifier.Telegram

	interval   time.Duration
	indicators indicator.Settings
}

// New 根据配置构建应用对象（不启动）。
func New(cfg *config.Config, cfgPath string) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}

	interval, err := scheduler.ParseInterval(cfg.Trading.DecisionInterval)
	if err != nil {
		return nil, fmt.Errorf("trading.decision_interval: %w", err)
	}

	mp, err := provider.Build(provider.ModelCfg{
		Kind:      cfg.AI.Provider,
		APIURL:    cfg.AI.APIURL,
		APIKey:    cfg.AI.APIKey,
		Model:     cfg.AI.Model,
		WalletKey: cfg.AI.WalletKey,
		Headers:   cfg.AI.Headers,
	}, time.Duration(cfg.AI.TimeoutSeconds)*time.Second)
	if err != nil {
		return nil, fmt.Errorf("初始化模型后端失败: %w", err)
	}

	persona, err := config.LoadPersona(cfg.AI.PersonaPath)
	if err != nil {
		return nil, fmt.Errorf("加载 persona 失败: %w", err)
	}

	risk := config.NewRiskProvider(cfgPath, cfg.Risk)
	if err := risk.Watch(); err != nil {
		logger.Warnf("风险配置热加载不可用: %v", err)
	}

	a := &App{
		cfg:     cfg,
		source:  binance.New(binance.Config{
			APIKey:      cfg.Binance.APIKey,
			APISecret:   cfg.Binance.APISecret,
			RESTBaseURL: cfg.Binance.RESTBaseURL,
			HTTPTimeout: time.Duration(cfg.Binance.TimeoutSeconds) * time.Second,
		}),
		builder:  feature.NewBuilder(risk),
		engine:   strategy.NewEngine(mp, strategy.EngineConfig{
			Temperature:  cfg.AI.Temperature,
			MaxTokens:    cfg.AI.MaxTokens,
			PersonaExtra: persona,
		}),
		risk:     risk,
		interval: interval,
	}

	if cfg.Store.DecisionLogPath != "" {
		st, err := decisionlog.NewStore(cfg.Store.DecisionLogPath)
		if err != nil {
			return nil, fmt.Errorf("初始化决策日志失败: %w", err)
		}
		a.decisions = st
	}
	if cfg.Store.ContextLogPath != "" {
		st, err := contextlog.NewStore(cfg.Store.ContextLogPath)
		if err != nil {
			return nil, fmt.Errorf("初始化上下文日志失败: %w", err)
		}
		a.contexts = st
	}
	if cfg.App.HTTPAddr != "" {
		a.httpSrv = httpapi.NewServer(httpapi.ServerConfig{
			Addr:      cfg.App.HTTPAddr,
			Decisions: a.decisions,
			Contexts:  a.contexts,
			Symbol:    cfg.Trading.Symbol,
		})
	}
	if cfg.Notify.Telegram.Enabled {
		a.telegram = notifier.NewTelegram(cfg.Notify.Telegram.BotToken, cfg.Notify.Telegram.ChatID)
	}
	return a, nil
}

// Run 启动 HTTP 服务与决策循环，阻塞直到 ctx 取消。
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil {
		return fmt.Errorf("app 未初始化")
	}
	defer a.close()

	group, ctx := errgroup.WithContext(ctx)

	if a.httpSrv != nil {
		group.Go(func() error {
			logger.Infof("状态接口监听 %s", a.httpSrv.Addr())
			return a.httpSrv.Start(ctx)
		})
	}

	group.Go(func() error {
		sched := scheduler.NewAligned(ctx, a.interval, 5*time.Second)
		sched.RunImmediately = true
		sched.Start(func() { a.runCycle(ctx) })
		return nil
	})

	return group.Wait()
}

func (a *App) close() {
	if a.risk != nil {
		a.risk.Close()
	}
	if a.decisions != nil {
		_ = a.decisions.Close()
	}
	if a.contexts != nil {
		_ = a.contexts.Close()
	}
}
