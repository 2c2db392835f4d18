package app

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"aitrader/internal/analysis/indicator"
	"aitrader/internal/feature"
	"aitrader/internal/gateway/notifier"
	"aitrader/internal/logger"
	"aitrader/internal/market"
	"aitrader/internal/store/decisionlog"
	"aitrader/internal/strategy"
)

// runCycle 执行一轮完整决策：抓数据 → 建上下文 → 模型决策 → 校验 →
// 落库/推送。任一环节失败都不中断循环，下一轮继续。
func (a *App) runCycle(ctx context.Context) {
	traceID := uuid.NewString()
	symbol := a.cfg.Trading.Symbol
	started := time.Now()
	logger.Infof("[%s] 决策周期开始 symbol=%s", traceID, symbol)

	states, snap, err := a.collect(ctx, symbol)
	if err != nil {
		logger.Errorf("[%s] 行情抓取失败，跳过本轮: %v", traceID, err)
		return
	}

	mc := a.builder.Build(symbol, states, snap, nil)
	decision, doc := a.engine.Decide(ctx, mc)

	maxLev := a.risk.Risk().MaxLeverage
	verr := strategy.Validate(&decision, maxLev)
	valid := verr == nil
	if !valid {
		logger.Warnf("[%s] 决策未通过校验: %v", traceID, verr)
	}

	if a.contexts != nil {
		if err := a.contexts.Insert(ctx, traceID, symbol, doc); err != nil {
			logger.Warnf("[%s] 写入上下文日志失败: %v", traceID, err)
		}
	}
	if a.decisions != nil {
		rec := decisionlog.Record{TraceID: traceID, Decision: decision, Valid: valid}
		if verr != nil {
			rec.ValidationError = verr.Error()
		}
		if err := a.decisions.Insert(ctx, rec); err != nil {
			logger.Warnf("[%s] 写入决策日志失败: %v", traceID, err)
		}
	}
	if a.httpSrv != nil {
		a.httpSrv.UpdateStatus(traceID, decision, valid)
	}
	if a.telegram != nil {
		if err := a.telegram.SendText(notifier.FormatDecision(decision, valid)); err != nil {
			logger.Warnf("[%s] Telegram 推送失败: %v", traceID, err)
		}
	}

	logger.Infof("[%s] 决策周期结束 action=%s fallback=%v valid=%v 耗时=%s",
		traceID, decision.Action, decision.IsFallback, valid, time.Since(started).Truncate(time.Millisecond))
}

// collect 并发抓取各周期 K 线并派生指标状态，另起一路抓市场切面。
// 单个周期失败只告警（缺该周期），快照失败则整轮失败。
func (a *App) collect(ctx context.Context, symbol string) (map[string]feature.TimeframeState, *market.Snapshot, error) {
	var (
		mu     sync.Mutex
		states = make(map[string]feature.TimeframeState, len(a.cfg.Trading.Timeframes))
		snap   *market.Snapshot
	)

	group, gctx := errgroup.WithContext(ctx)
	for _, tf := range a.cfg.Trading.Timeframes {
		tf := tf
		group.Go(func() error {
			candles, err := a.source.FetchCandles(gctx, symbol, tf, a.cfg.Trading.CandleLimit)
			if err != nil {
				logger.Warnf("抓取 %s K线失败，缺该周期: %v", tf, err)
				return nil
			}
			st, err := indicator.DeriveState(candles, a.indicators)
			if err != nil {
				logger.Warnf("派生 %s 指标失败，缺该周期: %v", tf, err)
				return nil
			}
			mu.Lock()
			states[tf] = st
			mu.Unlock()
			return nil
		})
	}
	group.Go(func() error {
		s, err := a.source.FetchSnapshot(gctx, symbol)
		if err != nil {
			return err
		}
		snap = s
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, nil, err
	}
	return states, snap, nil
}
