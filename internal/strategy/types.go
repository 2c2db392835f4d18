package strategy

// 中文说明：
// 本文件定义模型决策的通用数据结构。TradingDecision 每轮决策生成一次，
// 校验之后不再修改，由执行层与日志消费。

// 合法交易动作。
const (
	ActionOpenLong       = "open_long"
	ActionOpenShort      = "open_short"
	ActionClosePosition  = "close_position"
	ActionAddPosition    = "add_position"
	ActionReducePosition = "reduce_position"
	ActionHold           = "hold"
)

var validActions = map[string]bool{
	ActionOpenLong: true, ActionOpenShort: true, ActionClosePosition: true,
	ActionAddPosition: true, ActionReducePosition: true, ActionHold: true,
}

// Analysis 模型给出的分维度分析文本。
type Analysis struct {
	TrendAnalysis     string `json:"trend_analysis"`
	TechnicalSignals  string `json:"technical_signals"`
	RiskAssessment    string `json:"risk_assessment"`
	MarketSentiment   string `json:"market_sentiment"`
	KeyLevels         string `json:"key_levels"`
	DecisionRationale string `json:"decision_rationale"`
}

// TradingDecision 单轮决策结果（模型输出或兜底构造）。
type TradingDecision struct {
	Action          string  `json:"action"`
	Symbol          string  `json:"symbol"`
	Confidence      float64 `json:"confidence"`
	Leverage        int     `json:"leverage"`
	PositionSizePct float64 `json:"position_size_pct"`
	StopLossPct     float64 `json:"stop_loss_pct"`
	TakeProfitPct   float64 `json:"take_profit_pct"`

	EntryPrice      float64 `json:"entry_price,omitempty"`
	StopLossPrice   float64 `json:"stop_loss_price,omitempty"`
	TakeProfitPrice float64 `json:"take_profit_price,omitempty"`
	RiskRewardRatio float64 `json:"risk_reward_ratio,omitempty"`

	Reasoning string         `json:"reasoning"`
	Analysis  *Analysis      `json:"analysis,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`

	// 以下为引擎补充的元信息
	Timestamp   string `json:"timestamp,omitempty"`
	Model       string `json:"model,omitempty"`
	RawResponse string `json:"raw_response,omitempty"`
	// IsFallback 仅在降级输出上出现
	IsFallback bool `json:"is_fallback,omitempty"`
}
