package strategy

import (
	"context"
	"time"

	"aitrader/internal/feature"
	"aitrader/internal/gateway/provider"
	"aitrader/internal/logger"
)

// 中文说明：
// 决策引擎：渲染上下文 → 调用模型 → 解析输出。每轮只调用一次模型，
// 不在引擎内重试；请求/传输/解析任何一步失败都返回兜底决策，
// Decide 永远不向调用方返回错误。

const fallbackReasoning = "LLM决策失败，采用保守策略观望"

type EngineConfig struct {
	Temperature  float64
	MaxTokens    int
	PersonaExtra string
}

type Engine struct {
	provider     provider.ModelProvider
	temperature  float64
	maxTokens    int
	personaExtra string
}

func NewEngine(p provider.ModelProvider, cfg EngineConfig) *Engine {
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.3
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2000
	}
	return &Engine{
		provider:     p,
		temperature:  cfg.Temperature,
		maxTokens:    cfg.MaxTokens,
		personaExtra: cfg.PersonaExtra,
	}
}

// Decide 基于市场上下文做一次决策，同时返回本轮使用的上下文文本
// （供日志/审计/离线回放）。
func (e *Engine) Decide(ctx context.Context, mc feature.MarketContext) (TradingDecision, string) {
	doc := feature.Format(mc)
	sys := BuildSystemPrompt(e.personaExtra)
	user := BuildUserPrompt(doc)

	logger.LogLLMRequest(e.provider.ID(), sys, user)

	raw, err := e.provider.Call(ctx, provider.ChatPayload{
		System:      sys,
		User:        user,
		ExpectJSON:  true,
		Temperature: e.temperature,
		MaxTokens:   e.maxTokens,
	})
	if err != nil {
		logger.Errorf("LLM决策失败: %v", err)
		return e.fallback(mc), doc
	}
	logger.LogLLMResponse(e.provider.ID(), raw)

	d, perr := Parse(raw)
	if perr != nil {
		logger.Errorf("LLM输出解析失败: %v", perr)
		fb := e.fallback(mc)
		fb.RawResponse = raw
		return fb, doc
	}

	d.Timestamp = mc.Timestamp.Format(time.RFC3339)
	d.Symbol = mc.Symbol
	d.Model = e.provider.ID()
	d.RawResponse = raw
	logger.Infof("决策: action=%s confidence=%g reasoning=%.80s", d.Action, d.Confidence, d.Reasoning)
	return *d, doc
}

// fallback 兜底决策：观望、零置信度。这是引擎唯一的失败恢复机制。
func (e *Engine) fallback(mc feature.MarketContext) TradingDecision {
	return TradingDecision{
		Action:          ActionHold,
		Symbol:          mc.Symbol,
		Confidence:      0,
		Leverage:        1,
		PositionSizePct: 0,
		StopLossPct:     1.0,
		TakeProfitPct:   2.0,
		Reasoning:       fallbackReasoning,
		Timestamp:       mc.Timestamp.Format(time.RFC3339),
		Model:           e.provider.ID(),
		IsFallback:      true,
	}
}
