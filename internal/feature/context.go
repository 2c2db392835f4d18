package feature

import "time"

// 中文说明：
// MarketContext 是一次决策的全部输入快照，构建完成后不再修改，
// 由渲染器转成文本后交给模型，同时原样落库供回放。

// TimeframeState 单周期技术状态，由指标层在上游算好。
type TimeframeState struct {
	Trend           string    `json:"trend"`
	Volatility      string    `json:"volatility"`
	ATRPct          float64   `json:"atr_pct"`
	Momentum        string    `json:"momentum"`
	RSI             float64   `json:"rsi"`
	MACDSignal      string    `json:"macd_signal"`
	VolumeRatio     float64   `json:"volume_ratio"`
	VolumeChangePct float64   `json:"volume_change_pct"`
	Price           float64   `json:"price"`
	Support         []float64 `json:"support,omitempty"`
	Resistance      []float64 `json:"resistance,omitempty"`
}

// MarketOverview 市场概览：价格、资金费率（含分类）、持仓量、流动性。
type MarketOverview struct {
	CurrentPrice      float64 `json:"current_price"`
	FundingRate       float64 `json:"funding_rate"`
	FundingRateStatus string  `json:"funding_rate_status"`
	OpenInterest      float64 `json:"open_interest"`
	Liquidity         string  `json:"liquidity"`
}

// PositionContext 归一化后的持仓/账户视图。
// 不变式：HasPosition=false 时 Side=NONE 且 Size=0。
type PositionContext struct {
	HasPosition    bool    `json:"has_position"`
	Side           string  `json:"side"`
	Size           float64 `json:"size"`
	EntryPrice     float64 `json:"entry_price"`
	CurrentPrice   float64 `json:"current_price,omitempty"`
	CurrentPnlPct  float64 `json:"current_pnl_pct"`
	UnrealizedPnl  float64 `json:"unrealized_pnl"`
	AccountBalance float64 `json:"account_balance"`
	TotalBalance   float64 `json:"total_balance,omitempty"`
	MarginUsagePct float64 `json:"margin_usage_pct"`
	Leverage       int     `json:"leverage,omitempty"`
	Note           string  `json:"note,omitempty"`
}

// RiskConstraints 决策时生效的风险约束，总是带默认值。
type RiskConstraints struct {
	MaxRiskPerTradePct   float64 `json:"max_risk_per_trade_pct"`
	MaxTotalPositionPct  float64 `json:"max_total_position_pct"`
	MaxLeverage          int     `json:"max_leverage"`
	MaxConsecutiveLosses int     `json:"max_consecutive_losses"`
}

// DefaultRiskConstraints 未配置时的兜底约束。
func DefaultRiskConstraints() RiskConstraints {
	return RiskConstraints{
		MaxRiskPerTradePct:   1.5,
		MaxTotalPositionPct:  30.0,
		MaxLeverage:          5,
		MaxConsecutiveLosses: 3,
	}
}

// RiskProvider 在决策时读取当前风险约束（配置可能在两次决策之间变化）。
type RiskProvider interface {
	Risk() RiskConstraints
}

// MarketContext 完整市场上下文。
type MarketContext struct {
	Timestamp       time.Time                 `json:"timestamp"`
	Symbol          string                    `json:"symbol"`
	MarketOverview  MarketOverview            `json:"market_overview"`
	MultiTimeframe  map[string]TimeframeState `json:"multi_timeframe"`
	PositionContext PositionContext           `json:"position_context"`
	RiskConstraints RiskConstraints           `json:"risk_constraints"`
}
